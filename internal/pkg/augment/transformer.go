package augment

import "math"

// Apply warps img with the affine transform described by p, resampling bilinearly and
// resolving out-of-bounds reads with mode. The input is not modified.
func Apply(img *Image, p Params, mode FillMode) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	out := NewImage(img.Width, img.Height, img.Channels)
	if p.IsIdentity() {
		copy(out.Pix, img.Pix)
		return out, nil
	}

	m := p.SourceMapping(img.Width, img.Height)
	px := make([]float64, img.Channels)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			sx, sy := m.Apply(float64(x), float64(y))
			img.sampleInto(px, sx, sy, mode)
			dst := out.Pix[(y*img.Width+x)*img.Channels:]
			for c, v := range px {
				dst[c] = clampUint8(v)
			}
		}
	}
	return out, nil
}

// Sample returns channel c at the (possibly fractional, possibly out of bounds) source
// coordinate (x, y).
func (im *Image) Sample(x, y float64, c int, mode FillMode) float64 {
	px := make([]float64, im.Channels)
	im.sampleInto(px, x, y, mode)
	return px[c]
}

func (im *Image) sampleInto(px []float64, x, y float64, mode FillMode) {
	for c := range px {
		px[c] = 0
	}
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	neighbours := [4]struct {
		dx, dy int
		w      float64
	}{
		{0, 0, (1 - fx) * (1 - fy)},
		{1, 0, fx * (1 - fy)},
		{0, 1, (1 - fx) * fy},
		{1, 1, fx * fy},
	}
	for _, n := range neighbours {
		if n.w == 0 {
			continue
		}
		sx, okx := ResolveCoord(ix+n.dx, im.Width, mode)
		sy, oky := ResolveCoord(iy+n.dy, im.Height, mode)
		if !okx || !oky {
			// constant fill contributes zero
			continue
		}
		base := (sy*im.Width + sx) * im.Channels
		for c := range px {
			px[c] += n.w * float64(im.Pix[base+c])
		}
	}
}

// ResolveCoord maps index i along an axis of length n into [0, n) according to mode.
// The second result is false when the coordinate has no source pixel (constant fill).
func ResolveCoord(i, n int, mode FillMode) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch mode {
	case FillConstant:
		return 0, false
	case FillReflect:
		// half-sample symmetric: ... 1 0 | 0 1 ... n-1 | n-1 n-2 ...
		period := 2 * n
		i = mod(i, period)
		if i >= n {
			i = period - 1 - i
		}
		return i, true
	case FillWrap:
		return mod(i, n), true
	default:
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	}
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

func clampUint8(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
