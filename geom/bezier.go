package geom

import "math"

// Quadratic is a quadratic Bézier curve from P0 via control point P1 to
// P2.
type Quadratic struct {
	P0, P1, P2 Vec2
}

// Cubic is a cubic Bézier curve from P0 via control points P1, P2 to P3.
type Cubic struct {
	P0, P1, P2, P3 Vec2
}

// Eval returns the point at parameter t in [0, 1].
func (q Quadratic) Eval(t float32) Vec2 {
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	c := t * t
	return Vec2{
		X: a*q.P0.X + b*q.P1.X + c*q.P2.X,
		Y: a*q.P0.Y + b*q.P1.Y + c*q.P2.Y,
	}
}

// Derivative returns the tangent vector at parameter t.
func (q Quadratic) Derivative(t float32) Vec2 {
	mt := 1 - t
	return Vec2{
		X: 2*mt*(q.P1.X-q.P0.X) + 2*t*(q.P2.X-q.P1.X),
		Y: 2*mt*(q.P1.Y-q.P0.Y) + 2*t*(q.P2.Y-q.P1.Y),
	}
}

// Split divides q at t into two quadratics that together trace the same
// curve.
func (q Quadratic) Split(t float32) (Quadratic, Quadratic) {
	p01 := q.P0.Lerp(q.P1, t)
	p12 := q.P1.Lerp(q.P2, t)
	p := p01.Lerp(p12, t)
	return Quadratic{q.P0, p01, p}, Quadratic{p, p12, q.P2}
}

// BoundingRect returns the axis-aligned bounding box of q, accounting
// for the curve's extrema rather than just its control points.
func (q Quadratic) BoundingRect() Rect {
	r := Rect{Min: q.P0.Min(q.P2), Max: q.P0.Max(q.P2)}
	for _, t := range q.extremaT() {
		r = r.ExpandToPoint(q.Eval(t))
	}
	return r
}

func (q Quadratic) extremaT() []float32 {
	var ts []float32
	for axis := 0; axis < 2; axis++ {
		var p0, p1, p2 float32
		if axis == 0 {
			p0, p1, p2 = q.P0.X, q.P1.X, q.P2.X
		} else {
			p0, p1, p2 = q.P0.Y, q.P1.Y, q.P2.Y
		}
		denom := p0 - 2*p1 + p2
		if Abs(denom) < Epsilon {
			continue
		}
		t := (p0 - p1) / denom
		if t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	return ts
}

// ToCubic returns the exact cubic-equivalent of q, per spec.md §4.1:
// p0+2/3(p1-p0), p2+2/3(p1-p2).
func (q Quadratic) ToCubic() Cubic {
	c1 := q.P0.Add(q.P1.Sub(q.P0).Mul(2.0 / 3.0))
	c2 := q.P2.Add(q.P1.Sub(q.P2).Mul(2.0 / 3.0))
	return Cubic{q.P0, c1, c2, q.P2}
}

// Flatten approximates q with a sequence of line segments such that the
// maximum deviation from the true curve is at most tolerance, appending
// the points (excluding P0) to out.
func (q Quadratic) Flatten(tolerance float32, out []Vec2) []Vec2 {
	// Distance from the control point to the chord bounds the deviation
	// of a single line segment from the curve.
	dev := perpendicularDistance(q.P1, q.P0, q.P2)
	if dev <= tolerance {
		return append(out, q.P2)
	}
	n := int(math.Ceil(math.Sqrt(float64(dev / (4 * tolerance)))))
	if n < 1 {
		n = 1
	}
	for i := 1; i <= n; i++ {
		out = append(out, q.Eval(float32(i)/float32(n)))
	}
	return out
}

func perpendicularDistance(p, a, b Vec2) float32 {
	ab := b.Sub(a)
	l := ab.Len()
	if l < Epsilon {
		return p.Sub(a).Len()
	}
	return Abs(ab.Cross(p.Sub(a))) / l
}

// Eval returns the point at parameter t in [0, 1].
func (c Cubic) Eval(t float32) Vec2 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return Vec2{
		X: a*c.P0.X + b*c.P1.X + cc*c.P2.X + d*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + cc*c.P2.Y + d*c.P3.Y,
	}
}

// Derivative returns the tangent vector at parameter t.
func (c Cubic) Derivative(t float32) Vec2 {
	mt := 1 - t
	a := 3 * mt * mt
	b := 6 * mt * t
	cc := 3 * t * t
	return Vec2{
		X: a*(c.P1.X-c.P0.X) + b*(c.P2.X-c.P1.X) + cc*(c.P3.X-c.P2.X),
		Y: a*(c.P1.Y-c.P0.Y) + b*(c.P2.Y-c.P1.Y) + cc*(c.P3.Y-c.P2.Y),
	}
}

// Split divides c at t into two cubics that together trace the same
// curve (De Casteljau's algorithm).
func (c Cubic) Split(t float32) (Cubic, Cubic) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	p := p012.Lerp(p123, t)
	return Cubic{c.P0, p01, p012, p}, Cubic{p, p123, p23, c.P3}
}

// SplitAt splits c at multiple ascending parameters in [0, 1], returning
// the resulting pieces in order.
func (c Cubic) SplitAt(ts []float32) []Cubic {
	if len(ts) == 0 {
		return []Cubic{c}
	}
	pieces := make([]Cubic, 0, len(ts)+1)
	rest := c
	prev := float32(0)
	for _, t := range ts {
		if t <= prev || t >= 1 {
			continue
		}
		// Re-parameterize t relative to the remaining sub-curve.
		local := (t - prev) / (1 - prev)
		left, right := rest.Split(local)
		pieces = append(pieces, left)
		rest = right
		prev = t
	}
	pieces = append(pieces, rest)
	return pieces
}

// BoundingRect returns the axis-aligned bounding box of c, accounting
// for the curve's extrema.
func (c Cubic) BoundingRect() Rect {
	r := Rect{Min: c.P0.Min(c.P3), Max: c.P0.Max(c.P3)}
	for _, t := range c.ExtremaT() {
		r = r.ExpandToPoint(c.Eval(t))
	}
	return r
}

// ExtremaT returns the parameters in (0, 1) at which c's X or Y
// derivative is zero, i.e. where the curve is not monotonic.
func (c Cubic) ExtremaT() []float32 {
	var ts []float32
	for axis := 0; axis < 2; axis++ {
		var p0, p1, p2, p3 float32
		if axis == 0 {
			p0, p1, p2, p3 = c.P0.X, c.P1.X, c.P2.X, c.P3.X
		} else {
			p0, p1, p2, p3 = c.P0.Y, c.P1.Y, c.P2.Y, c.P3.Y
		}
		// Derivative of a cubic Bezier is a quadratic in t.
		a := 3 * (-p0 + 3*p1 - 3*p2 + p3)
		b := 6 * (p0 - 2*p1 + p2)
		cc := 3 * (p1 - p0)
		var roots [2]float32
		n := SolveQuadratic(a, b, cc, &roots)
		for i := 0; i < n; i++ {
			if roots[i] > Epsilon && roots[i] < 1-Epsilon {
				ts = append(ts, roots[i])
			}
		}
	}
	return ts
}

// InflectionsT returns the parameters in (0, 1) at which c's curvature
// changes sign (where the curve crosses itself or transitions between a
// loop and a cusp). Used by ToQuadratics to split into monotonic,
// single-curvature pieces before quadratic approximation.
func (c Cubic) InflectionsT() []float32 {
	// Translate to place P0 at the origin, then express the inflection
	// condition as a cubic in t using the standard cross-product method.
	p1 := c.P1.Sub(c.P0)
	p2 := c.P2.Sub(c.P0)
	p3 := c.P3.Sub(c.P0)

	a := p2.Cross(p3)
	b := p1.Cross(p3)
	cc := p1.Cross(p2)

	// Coefficients of the derivative of the curvature numerator, see
	// Stone & DeRose's inflection point derivation.
	ca := -3*a + 3*b - cc
	cb := 3*a - 2*b
	ccc := -a

	var roots [2]float32
	n := SolveQuadratic(ca, cb, ccc, &roots)
	var ts []float32
	for i := 0; i < n; i++ {
		if roots[i] > Epsilon && roots[i] < 1-Epsilon {
			ts = append(ts, roots[i])
		}
	}
	if len(ts) == 2 && ts[0] > ts[1] {
		ts[0], ts[1] = ts[1], ts[0]
	}
	return ts
}

// IsMonotonic reports whether c is monotonic on both axes, i.e. has no
// interior extrema.
func (c Cubic) IsMonotonic() bool {
	return len(c.ExtremaT()) == 0
}

// MonotonicSplitT returns the sorted, deduplicated parameters at which c
// must be split to yield monotonic-on-both-axes pieces (extrema only;
// inflections are handled separately by ToQuadratics since an inflection
// does not by itself break axis monotonicity).
func (c Cubic) MonotonicSplitT() []float32 {
	ts := c.ExtremaT()
	return dedupSorted(ts)
}

func dedupSorted(ts []float32) []float32 {
	sortFloats(ts)
	out := ts[:0]
	var last float32 = -1
	for _, t := range ts {
		if len(out) == 0 || Abs(t-last) > Epsilon {
			out = append(out, t)
			last = t
		}
	}
	return out
}

func sortFloats(ts []float32) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j-1] > ts[j]; j-- {
			ts[j-1], ts[j] = ts[j], ts[j-1]
		}
	}
}

// Flatten approximates c with a sequence of line segments such that
// consecutive segments deviate from the curve by at most tolerance,
// appending the points (excluding P0) to out. It works by recursive
// subdivision, the same curve-splitting strategy used throughout this
// package.
func (c Cubic) Flatten(tolerance float32, out []Vec2) []Vec2 {
	if cubicFlatEnough(c, tolerance) {
		return append(out, c.P3)
	}
	left, right := c.Split(0.5)
	out = left.Flatten(tolerance, out)
	out = right.Flatten(tolerance, out)
	return out
}

func cubicFlatEnough(c Cubic, tolerance float32) bool {
	d1 := perpendicularDistance(c.P1, c.P0, c.P3)
	d2 := perpendicularDistance(c.P2, c.P0, c.P3)
	return d1 <= tolerance && d2 <= tolerance
}

// ApproxQuadraticError bounds the Hausdorff-like deviation between c and
// the single quadratic that would approximate it, per spec.md §4.1:
// sqrt(3)/36 * |(p3-3p2)+(3p1-p0)|.
func (c Cubic) ApproxQuadraticError() float32 {
	v := c.P3.Sub(c.P2.Mul(3)).Add(c.P1.Mul(3).Sub(c.P0))
	return (float32(math.Sqrt(3)) / 36) * v.Len()
}

// ApproxAsQuadratic returns the single quadratic that best approximates
// monotonic cubic c (valid regardless of ApproxQuadraticError; callers
// should bisect when the error exceeds their tolerance). The control
// point is (3(P1+P2) - P0 - P3)/4, the choice for which
// ApproxQuadraticError bounds the deviation.
func (c Cubic) ApproxAsQuadratic() Quadratic {
	ctrl := c.P1.Add(c.P2).Mul(3).Sub(c.P0).Sub(c.P3).Mul(0.25)
	return Quadratic{c.P0, ctrl, c.P3}
}

func lineIntersection(p0, d0, p1, d1 Vec2) (Vec2, bool) {
	r := d0.Sub(p0)
	s := d1.Sub(p1)
	denom := r.Cross(s)
	if Abs(denom) < Epsilon {
		return Vec2{}, false
	}
	t := p1.Sub(p0).Cross(s) / denom
	return p0.Add(r.Mul(t)), true
}
