package geom

import "math"

// Affine2D is a 2D affine transformation matrix, stored row-major as
//
//	[ sx hx ox ]
//	[ hy sy oy ]
//
// i.e. it maps a point (x, y) to (sx*x + hx*y + ox, hy*x + sy*y + oy).
// The zero value is the identity transform. This is the Go-side
// representation of spec.md's TransformComponent{mat2x3}.
type Affine2D struct {
	sx, hx, ox float32
	hy, sy, oy float32
}

// Identity is the identity affine transform.
var Identity = Affine2D{sx: 1, sy: 1}

func affineIdentityZero(a Affine2D) Affine2D {
	if a == (Affine2D{}) {
		return Identity
	}
	return a
}

// Offset returns the transform a followed by a translation by p.
func (a Affine2D) Offset(p Vec2) Affine2D {
	a = affineIdentityZero(a)
	return Affine2D{
		sx: a.sx, hx: a.hx, ox: a.ox + p.X,
		hy: a.hy, sy: a.sy, oy: a.oy + p.Y,
	}
}

// Scale returns the transform a followed by a scaling by factor around
// origin.
func (a Affine2D) Scale(origin, factor Vec2) Affine2D {
	a = affineIdentityZero(a)
	a = a.Offset(origin.Neg())
	a = Affine2D{
		sx: a.sx * factor.X, hx: a.hx * factor.X, ox: a.ox * factor.X,
		hy: a.hy * factor.Y, sy: a.sy * factor.Y, oy: a.oy * factor.Y,
	}
	return a.Offset(origin)
}

// Rotate returns the transform a followed by a rotation around origin
// by radians, clockwise in the y-down coordinate space.
func (a Affine2D) Rotate(origin Vec2, radians float32) Affine2D {
	a = affineIdentityZero(a)
	a = a.Offset(origin.Neg())
	s, c := math.Sincos(float64(radians))
	fs, fc := float32(s), float32(c)
	a = Affine2D{
		sx: a.sx*fc - a.hy*fs, hx: a.hx*fc - a.sy*fs, ox: a.ox*fc - a.oy*fs,
		hy: a.sx*fs + a.hy*fc, sy: a.hx*fs + a.sy*fc, oy: a.ox*fs + a.oy*fc,
	}
	return a.Offset(origin)
}

// Shear returns the transform a followed by a shear around origin with
// the given X and Y shear angles, in radians.
func (a Affine2D) Shear(origin Vec2, ax, ay float32) Affine2D {
	a = affineIdentityZero(a)
	a = a.Offset(origin.Neg())
	tx, ty := float32(math.Tan(float64(ax))), float32(math.Tan(float64(ay)))
	a = Affine2D{
		sx: a.sx + a.hy*tx, hx: a.hx + a.sy*tx, ox: a.ox + a.oy*tx,
		hy: a.hy + a.sx*ty, sy: a.sy + a.hx*ty, oy: a.oy + a.ox*ty,
	}
	return a.Offset(origin)
}

// Mul returns the transform that applies a first, then b (b∘a).
func (a Affine2D) Mul(b Affine2D) Affine2D {
	a, b = affineIdentityZero(a), affineIdentityZero(b)
	return Affine2D{
		sx: b.sx*a.sx + b.hx*a.hy,
		hx: b.sx*a.hx + b.hx*a.sy,
		ox: b.sx*a.ox + b.hx*a.oy + b.ox,
		hy: b.hy*a.sx + b.sy*a.hy,
		sy: b.hy*a.hx + b.sy*a.sy,
		oy: b.hy*a.ox + b.sy*a.oy + b.oy,
	}
}

// Invert returns the inverse of a. If a is not invertible (determinant
// is zero) the identity is returned.
func (a Affine2D) Invert() Affine2D {
	a = affineIdentityZero(a)
	det := a.sx*a.sy - a.hx*a.hy
	if det == 0 {
		return Identity
	}
	invDet := 1 / det
	sx := a.sy * invDet
	hx := -a.hx * invDet
	hy := -a.hy * invDet
	sy := a.sx * invDet
	ox := -(sx*a.ox + hx*a.oy)
	oy := -(hy*a.ox + sy*a.oy)
	return Affine2D{sx: sx, hx: hx, ox: ox, hy: hy, sy: sy, oy: oy}
}

// Transform applies a to p.
func (a Affine2D) Transform(p Vec2) Vec2 {
	a = affineIdentityZero(a)
	return Vec2{
		X: a.sx*p.X + a.hx*p.Y + a.ox,
		Y: a.hy*p.X + a.sy*p.Y + a.oy,
	}
}

// TransformVector applies only the linear (scale/rotate/shear) part of
// a to v, ignoring translation — used for transforming direction/handle
// deltas rather than positions.
func (a Affine2D) TransformVector(v Vec2) Vec2 {
	a = affineIdentityZero(a)
	return Vec2{
		X: a.sx*v.X + a.hx*v.Y,
		Y: a.hy*v.X + a.sy*v.Y,
	}
}

// Elems returns the 6 matrix elements in row-major order.
func (a Affine2D) Elems() (sx, hx, ox, hy, sy, oy float32) {
	a = affineIdentityZero(a)
	return a.sx, a.hx, a.ox, a.hy, a.sy, a.oy
}

// NewAffine2D builds an Affine2D from its 6 row-major elements.
func NewAffine2D(sx, hx, ox, hy, sy, oy float32) Affine2D {
	return Affine2D{sx: sx, hx: hx, ox: ox, hy: hy, sy: sy, oy: oy}
}

// Determinant returns the determinant of the linear part of a, whose
// sign indicates whether a preserves or reverses orientation (used by
// the tiler's winding-sign computation under a flip transform).
func (a Affine2D) Determinant() float32 {
	a = affineIdentityZero(a)
	return a.sx*a.sy - a.hx*a.hy
}
