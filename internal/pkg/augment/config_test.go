package augment

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "all zero", mutate: func(c *Config) { *c = Config{} }},
		{name: "negative rotation", mutate: func(c *Config) { c.RotationRange = -1 }, wantErr: true},
		{name: "negative zoom", mutate: func(c *Config) { c.ZoomRange = -0.1 }, wantErr: true},
		{name: "negative shear", mutate: func(c *Config) { c.ShearRange = -3 }, wantErr: true},
		{name: "width shift of one", mutate: func(c *Config) { c.WidthShiftRange = 1 }, wantErr: true},
		{name: "height shift above one", mutate: func(c *Config) { c.HeightShiftRange = 1.5 }, wantErr: true},
		{name: "width shift just below one", mutate: func(c *Config) { c.WidthShiftRange = 0.999 }},
		{name: "NaN rotation", mutate: func(c *Config) { c.RotationRange = math.NaN() }, wantErr: true},
		{name: "infinite zoom", mutate: func(c *Config) { c.ZoomRange = math.Inf(1) }, wantErr: true},
		{name: "unknown fill mode", mutate: func(c *Config) { c.FillMode = FillMode(42) }, wantErr: true},
		{name: "large rotation", mutate: func(c *Config) { c.RotationRange = 360 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseFillMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FillMode
		wantErr bool
	}{
		{in: "nearest", want: FillNearest},
		{in: "constant", want: FillConstant},
		{in: "Reflect", want: FillReflect},
		{in: " wrap ", want: FillWrap},
		{in: "mirror", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFillMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.String(), fillModeNames[got])
		})
	}
}

func TestConfigJSONUsesFillModeNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FillMode = FillReflect

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fill_mode":"reflect"`)

	var back Config
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)

	err = json.Unmarshal([]byte(`{"fill_mode":"smear"}`), &back)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
