package augment

import "math/rand"

// Params is one concrete draw of the transform: angles in degrees, shifts in pixels.
type Params struct {
	Theta          float64 `json:"theta"`
	Tx             float64 `json:"tx"`
	Ty             float64 `json:"ty"`
	Shear          float64 `json:"shear"`
	Zx             float64 `json:"zx"`
	Zy             float64 `json:"zy"`
	FlipHorizontal bool    `json:"flip_horizontal"`
}

// IdentityParams leaves every pixel where it is.
func IdentityParams() Params {
	return Params{Zx: 1, Zy: 1}
}

func (p Params) IsIdentity() bool {
	return p == IdentityParams()
}

// Sample draws one parameter set for an image of the given size. Draw order is fixed
// (rotation, x shift, y shift, shear, x zoom, y zoom, flip) so a seeded rng replays the
// same sequence. The zoom pair is only drawn when the zoom range is positive and the flip
// coin only when flipping is enabled. Negative ranges are treated as zero.
func Sample(cfg Config, rng *rand.Rand, width, height int) Params {
	p := Params{
		Theta: uniform(rng, cfg.RotationRange),
		Tx:    uniform(rng, cfg.WidthShiftRange) * float64(width),
		Ty:    uniform(rng, cfg.HeightShiftRange) * float64(height),
		Shear: uniform(rng, cfg.ShearRange),
		Zx:    1,
		Zy:    1,
	}
	if zoom := clampRange(cfg.ZoomRange); zoom > 0 {
		p.Zx = 1 + uniform(rng, zoom)
		p.Zy = 1 + uniform(rng, zoom)
	}
	if cfg.HorizontalFlip {
		p.FlipHorizontal = rng.Intn(2) == 1
	}
	return p
}

// Sampler binds a config to a random source.
type Sampler struct {
	cfg Config
	rng *rand.Rand
}

func NewSampler(cfg Config, rng *rand.Rand) *Sampler {
	return &Sampler{cfg: cfg, rng: rng}
}

func (s *Sampler) Sample(width, height int) Params {
	return Sample(s.cfg, s.rng, width, height)
}

// uniform draws from the half-open interval [-r, r). A zero range still consumes a draw.
func uniform(rng *rand.Rand, r float64) float64 {
	r = clampRange(r)
	return (2*rng.Float64() - 1) * r
}

func clampRange(r float64) float64 {
	if r > 0 {
		return r
	}
	return 0
}
