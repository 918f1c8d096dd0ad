package geom

// OffsetPolyline offsets a polyline (as a sequence of points) by the
// signed distance d, perpendicular to each segment's direction,
// producing one output point per input point. A positive d offsets to
// the right of the direction of travel (since Perp() rotates
// clockwise as seen in this y-down space). This is the tessellation
// building block stroke expansion uses after a path has already been
// flattened to quadratics and line segments, the same
// flatten-then-offset-then-miter pipeline shape used elsewhere in this
// package's curve splitting.
func OffsetPolyline(pts []Vec2, d float32) []Vec2 {
	n := len(pts)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Vec2{pts[0]}
	}
	out := make([]Vec2, n)
	for i := 0; i < n; i++ {
		var dir Vec2
		switch {
		case i == 0:
			dir = pts[1].Sub(pts[0]).Normalized()
		case i == n-1:
			dir = pts[n-1].Sub(pts[n-2]).Normalized()
		default:
			d0 := pts[i].Sub(pts[i-1]).Normalized()
			d1 := pts[i+1].Sub(pts[i]).Normalized()
			dir = d0.Add(d1).Normalized()
			if dir == (Vec2{}) {
				dir = d0
			}
		}
		n2 := dir.Perp()
		out[i] = pts[i].Add(n2.Mul(d))
	}
	return out
}

// JoinStyle enumerates the stroke join styles from spec.md §3.3's
// StrokeComponent.
type JoinStyle uint8

const (
	JoinBevel JoinStyle = iota
	JoinRound
	JoinMiter
)

// CapStyle enumerates the stroke cap styles from spec.md §3.3's
// StrokeComponent.
type CapStyle uint8

const (
	CapButt CapStyle = iota
	CapRound
	CapSquare
)

// MiterPoint computes the miter join point at a vertex given the two
// adjacent (already offset) edge directions and the join radius,
// returning ok=false when the miter ratio exceeds limit (the join
// degrades to Bevel per spec.md §4.5.1).
func MiterPoint(center, dirIn, dirOut Vec2, halfWidth, limit float32) (Vec2, bool) {
	bisector := dirIn.Neg().Add(dirOut).Normalized()
	if bisector == (Vec2{}) {
		return Vec2{}, false
	}
	cosHalfAngle := dirIn.Neg().Dot(bisector)
	if cosHalfAngle <= Epsilon {
		return Vec2{}, false
	}
	miterLen := halfWidth / cosHalfAngle
	if miterLen/halfWidth > limit {
		return Vec2{}, false
	}
	return center.Add(bisector.Mul(miterLen)), true
}
