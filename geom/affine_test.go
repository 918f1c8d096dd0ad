package geom

import (
	"math"
	"testing"
)

func eq(p1, p2 Vec2) bool {
	const tol = 1e-4
	return p1.Sub(p2).Len() < tol
}

func TestTransformOffset(t *testing.T) {
	p := Vec2{X: 1, Y: 2}
	o := Vec2{X: 2, Y: -3}

	r := Affine2D{}.Offset(o).Transform(p)
	if !eq(r, Pt(3, -1)) {
		t.Errorf("offset transformation mismatch: have %v, want {3 -1}", r)
	}
	i := Affine2D{}.Offset(o).Invert().Transform(r)
	if !eq(i, p) {
		t.Errorf("offset inverse mismatch: have %v, want %v", i, p)
	}
}

func TestTransformScale(t *testing.T) {
	p := Vec2{X: 1, Y: 2}
	s := Vec2{X: -1, Y: 2}

	r := Affine2D{}.Scale(Vec2{}, s).Transform(p)
	if !eq(r, Pt(-1, 4)) {
		t.Errorf("scale transformation mismatch: have %v, want {-1 4}", r)
	}
	i := Affine2D{}.Scale(Vec2{}, s).Invert().Transform(r)
	if !eq(i, p) {
		t.Errorf("scale inverse mismatch: have %v, want %v", i, p)
	}
}

func TestTransformRotate(t *testing.T) {
	p := Vec2{X: 1, Y: 0}
	a := float32(math.Pi / 2)

	r := Affine2D{}.Rotate(Vec2{}, a).Transform(p)
	if !eq(r, Pt(0, 1)) {
		t.Errorf("rotate transformation mismatch: have %v, want {0 1}", r)
	}
	i := Affine2D{}.Rotate(Vec2{}, a).Invert().Transform(r)
	if !eq(i, p) {
		t.Errorf("rotate inverse mismatch: have %v, want %v", i, p)
	}
}

func TestAffineCompose(t *testing.T) {
	p := Vec2{X: 1, Y: 1}
	a := Affine2D{}.Offset(Vec2{X: 10, Y: 0}).Scale(Vec2{}, Vec2{X: 2, Y: 2})
	// a applies offset then scale: (1+10,1)*2 = (22,2).
	r := a.Transform(p)
	if !eq(r, Pt(22, 2)) {
		t.Errorf("composed transform: have %v, want {22 2}", r)
	}
}

func TestAffineIdentity(t *testing.T) {
	p := Vec2{X: 3.5, Y: -1.2}
	if r := Identity.Transform(p); !eq(r, p) {
		t.Errorf("identity transform changed point: have %v, want %v", r, p)
	}
	if r := (Affine2D{}).Transform(p); !eq(r, p) {
		t.Errorf("zero-value transform changed point: have %v, want %v", r, p)
	}
}
