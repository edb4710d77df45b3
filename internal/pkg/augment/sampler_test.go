package augment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSampleStaysWithinRanges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := Config{
			RotationRange:    rapid.Float64Range(0, 180).Draw(rt, "rotation"),
			WidthShiftRange:  rapid.Float64Range(0, 0.99).Draw(rt, "width_shift"),
			HeightShiftRange: rapid.Float64Range(0, 0.99).Draw(rt, "height_shift"),
			ShearRange:       rapid.Float64Range(0, 45).Draw(rt, "shear"),
			ZoomRange:        rapid.Float64Range(0, 0.9).Draw(rt, "zoom"),
			HorizontalFlip:   rapid.Bool().Draw(rt, "flip"),
		}
		width := rapid.IntRange(1, 2000).Draw(rt, "width")
		height := rapid.IntRange(1, 2000).Draw(rt, "height")
		rng := rand.New(rand.NewSource(rapid.Int64().Draw(rt, "seed")))

		p := Sample(cfg, rng, width, height)

		if p.Theta < -cfg.RotationRange || p.Theta > cfg.RotationRange {
			rt.Fatalf("theta %v outside ±%v", p.Theta, cfg.RotationRange)
		}
		if limit := cfg.WidthShiftRange * float64(width); p.Tx < -limit || p.Tx > limit {
			rt.Fatalf("tx %v outside ±%v", p.Tx, limit)
		}
		if limit := cfg.HeightShiftRange * float64(height); p.Ty < -limit || p.Ty > limit {
			rt.Fatalf("ty %v outside ±%v", p.Ty, limit)
		}
		if p.Shear < -cfg.ShearRange || p.Shear > cfg.ShearRange {
			rt.Fatalf("shear %v outside ±%v", p.Shear, cfg.ShearRange)
		}
		for _, z := range []float64{p.Zx, p.Zy} {
			if z < 1-cfg.ZoomRange || z > 1+cfg.ZoomRange {
				rt.Fatalf("zoom %v outside 1±%v", z, cfg.ZoomRange)
			}
		}
		if !cfg.HorizontalFlip && p.FlipHorizontal {
			rt.Fatalf("flip drawn while disabled")
		}
	})
}

func TestSampleZeroConfigIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		p := Sample(Config{}, rng, 64, 48)
		assert.True(t, p.IsIdentity(), "draw %d: %+v", i, p)
	}
}

func TestSampleClampsNegativeRanges(t *testing.T) {
	cfg := Config{
		RotationRange:    -10,
		WidthShiftRange:  -0.5,
		HeightShiftRange: -0.5,
		ShearRange:       -4,
		ZoomRange:        -0.3,
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		assert.True(t, Sample(cfg, rng, 10, 10).IsIdentity())
	}
}

func TestSampleIsReproducibleForSeed(t *testing.T) {
	cfg := DefaultConfig()
	a := NewSampler(cfg, rand.New(rand.NewSource(99)))
	b := NewSampler(cfg, rand.New(rand.NewSource(99)))
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Sample(350, 300), b.Sample(350, 300))
	}
}

func TestSampleFlipIsRoughlyFair(t *testing.T) {
	cfg := Config{HorizontalFlip: true}
	rng := rand.New(rand.NewSource(1))
	flips := 0
	const draws = 2000
	for i := 0; i < draws; i++ {
		if Sample(cfg, rng, 8, 8).FlipHorizontal {
			flips++
		}
	}
	assert.InDelta(t, draws/2, flips, draws/10)
}

func TestSampleDrawCount(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		draws int
	}{
		{name: "no zoom, no flip", cfg: Config{RotationRange: 10}, draws: 4},
		{name: "zoom, no flip", cfg: Config{ZoomRange: 0.2}, draws: 6},
		{name: "no zoom, flip", cfg: Config{HorizontalFlip: true}, draws: 5},
		{name: "zoom and flip", cfg: DefaultConfig(), draws: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))
			ref := rand.New(rand.NewSource(11))

			Sample(tt.cfg, rng, 100, 80)
			for i := 0; i < tt.draws; i++ {
				ref.Int63()
			}
			assert.Equal(t, ref.Int63(), rng.Int63())
		})
	}
}

func TestUniformIsHalfOpen(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10000; i++ {
		v := uniform(rng, 2.5)
		assert.GreaterOrEqual(t, v, -2.5)
		assert.Less(t, v, 2.5)
	}
	assert.Equal(t, 0.0, uniform(rng, 0))
	assert.Equal(t, 0.0, uniform(rng, -1))
}
