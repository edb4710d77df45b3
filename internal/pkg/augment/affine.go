package augment

import "math"

// Affine is a 2x3 matrix [a b c; d e f] mapping (x, y) to (a*x+b*y+c, d*x+e*y+f).
type Affine [6]float64

func IdentityAffine() Affine {
	return Affine{1, 0, 0, 0, 1, 0}
}

func Translate(tx, ty float64) Affine {
	return Affine{1, 0, tx, 0, 1, ty}
}

// Rotate is a rotation by deg degrees.
func Rotate(deg float64) Affine {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Affine{c, -s, 0, s, c, 0}
}

// Shear slants the x axis by deg degrees.
func Shear(deg float64) Affine {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Affine{1, -s, 0, 0, c, 0}
}

func Scale(sx, sy float64) Affine {
	return Affine{sx, 0, 0, 0, sy, 0}
}

// MirrorX reflects x about the vertical line x = cx.
func MirrorX(cx float64) Affine {
	return Affine{-1, 0, 2 * cx, 0, 1, 0}
}

// Mul returns m·n: n is applied first.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// SourceMapping composes the matrix taking a destination pixel to the source coordinate it
// is sampled from. Everything pivots on the image centre. The flip is the last step of the
// inverse map, which makes it the first thing that happens to the source image.
func (p Params) SourceMapping(width, height int) Affine {
	cx := float64(width-1) / 2
	cy := float64(height-1) / 2

	m := Translate(-cx, -cy)
	m = Scale(p.Zx, p.Zy).Mul(m)
	m = Shear(p.Shear).Mul(m)
	m = Rotate(p.Theta).Mul(m)
	m = Translate(cx-p.Tx, cy-p.Ty).Mul(m)
	if p.FlipHorizontal {
		m = MirrorX(cx).Mul(m)
	}
	return m
}
