// Package geom implements the scalar, vector, matrix and Bézier-curve
// primitives shared by every other package in this module: points,
// affine transforms, rectangles, and the quadratic/cubic curve
// operations the path and tiler packages build on.
package geom

import "math"

// Vec2 is a two dimensional vector or point. The coordinate space has
// its origin in the top left corner with axes extending right and down,
// matching the convention used throughout the scene and renderer.
type Vec2 struct {
	X, Y float32
}

// Pt is a shorthand constructor for Vec2.
func Pt(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Div returns v scaled by 1/s.
func (v Vec2) Div(s float32) Vec2 { return Vec2{v.X / s, v.Y / s} }

// Neg returns -v.
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross returns the 2D cross product (the Z component of the 3D cross
// product of the two vectors extended with Z=0).
func (v Vec2) Cross(o Vec2) float32 { return v.X*o.Y - v.Y*o.X }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float32 { return float32(math.Hypot(float64(v.X), float64(v.Y))) }

// LenSquared returns the squared Euclidean length of v, avoiding a sqrt.
func (v Vec2) LenSquared() float32 { return v.X*v.X + v.Y*v.Y }

// Normalized returns v scaled to unit length, or the zero vector if v is
// the zero vector.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Div(l)
}

// Perp returns v rotated 90 degrees clockwise as seen in this y-down
// space (the same sense as Affine2D.Rotate with a positive angle); it
// points to the right of the direction of travel.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Lerp returns the point t of the way from v to o.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	return Vec2{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
	}
}

// Distance returns the Euclidean distance between v and o.
func (v Vec2) Distance(o Vec2) float32 { return v.Sub(o).Len() }

// Angle returns the angle of v relative to the positive X axis, in
// radians, in [-pi, pi].
func (v Vec2) Angle() float32 { return float32(math.Atan2(float64(v.Y), float64(v.X))) }

// Rotated returns v rotated by radians around the origin.
func (v Vec2) Rotated(radians float32) Vec2 {
	s, c := math.Sincos(float64(radians))
	fs, fc := float32(s), float32(c)
	return Vec2{
		X: v.X*fc - v.Y*fs,
		Y: v.X*fs + v.Y*fc,
	}
}

// Min returns the component-wise minimum of v and o.
func (v Vec2) Min(o Vec2) Vec2 { return Vec2{min32(v.X, o.X), min32(v.Y, o.Y)} }

// Max returns the component-wise maximum of v and o.
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{max32(v.X, o.X), max32(v.Y, o.Y)} }

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
