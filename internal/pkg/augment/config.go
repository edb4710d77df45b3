package augment

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// FillMode decides what value a source coordinate outside the image takes.
type FillMode int

const (
	FillNearest FillMode = iota
	FillConstant
	FillReflect
	FillWrap
)

var fillModeNames = map[FillMode]string{
	FillNearest:  "nearest",
	FillConstant: "constant",
	FillReflect:  "reflect",
	FillWrap:     "wrap",
}

func (m FillMode) String() string {
	if name, ok := fillModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseFillMode accepts the lower case names used on the command line and in config files.
func ParseFillMode(s string) (FillMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for mode, n := range fillModeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown fill mode %q (want nearest, constant, reflect or wrap)", s)
}

func (m FillMode) MarshalText() ([]byte, error) {
	if _, ok := fillModeNames[m]; !ok {
		return nil, errors.Wrapf(ErrInvalidConfig, "unknown fill mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *FillMode) UnmarshalText(text []byte) error {
	mode, err := ParseFillMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Config holds the augmentation ranges. It is a plain value: build it once and pass it around.
type Config struct {
	RotationRange    float64  `json:"rotation_range"`
	WidthShiftRange  float64  `json:"width_shift_range"`
	HeightShiftRange float64  `json:"height_shift_range"`
	ShearRange       float64  `json:"shear_range"`
	ZoomRange        float64  `json:"zoom_range"`
	HorizontalFlip   bool     `json:"horizontal_flip"`
	FillMode         FillMode `json:"fill_mode"`
}

// DefaultConfig returns the values the tool uses when nothing is specified.
func DefaultConfig() Config {
	return Config{
		RotationRange:    20,
		WidthShiftRange:  0.2,
		HeightShiftRange: 0.2,
		ShearRange:       0.2,
		ZoomRange:        0.2,
		HorizontalFlip:   true,
		FillMode:         FillNearest,
	}
}

func (c Config) Validate() error {
	ranges := []struct {
		name  string
		value float64
	}{
		{"rotation_range", c.RotationRange},
		{"width_shift_range", c.WidthShiftRange},
		{"height_shift_range", c.HeightShiftRange},
		{"shear_range", c.ShearRange},
		{"zoom_range", c.ZoomRange},
	}
	for _, r := range ranges {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return errors.Wrapf(ErrInvalidConfig, "%s must be a finite number, got %v", r.name, r.value)
		}
		if r.value < 0 {
			return errors.Wrapf(ErrInvalidConfig, "%s must be >= 0, got %v", r.name, r.value)
		}
	}
	if c.WidthShiftRange >= 1 {
		return errors.Wrapf(ErrInvalidConfig, "width_shift_range must be < 1, got %v", c.WidthShiftRange)
	}
	if c.HeightShiftRange >= 1 {
		return errors.Wrapf(ErrInvalidConfig, "height_shift_range must be < 1, got %v", c.HeightShiftRange)
	}
	if _, ok := fillModeNames[c.FillMode]; !ok {
		return errors.Wrapf(ErrInvalidConfig, "unknown fill mode %d", int(c.FillMode))
	}
	return nil
}
