package geom

// LineSegmentsIntersect reports whether segment a0-a1 intersects segment
// b0-b1, and if so returns the intersection point.
func LineSegmentsIntersect(a0, a1, b0, b1 Vec2) (Vec2, bool) {
	r := a1.Sub(a0)
	s := b1.Sub(b0)
	denom := r.Cross(s)
	qp := b0.Sub(a0)
	if Abs(denom) < Epsilon {
		return Vec2{}, false
	}
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < -Epsilon || t > 1+Epsilon || u < -Epsilon || u > 1+Epsilon {
		return Vec2{}, false
	}
	return a0.Add(r.Mul(t)), true
}

// RectSegmentIntersects reports whether the segment p0-p1 intersects or
// lies within rect r.
func RectSegmentIntersects(r Rect, p0, p1 Vec2) bool {
	if r.ContainsPoint(p0) || r.ContainsPoint(p1) {
		return true
	}
	corners := [4]Vec2{
		{r.Min.X, r.Min.Y}, {r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y}, {r.Min.X, r.Max.Y},
	}
	for i := 0; i < 4; i++ {
		if _, ok := LineSegmentsIntersect(p0, p1, corners[i], corners[(i+1)%4]); ok {
			return true
		}
	}
	return false
}

// ScanlineCrossing returns the signed crossing contribution of the line
// segment p0-p1 against a horizontal ray extending in +X from (x, y),
// following the standard non-zero winding convention: a downward
// (+Y direction) crossing contributes +1, an upward crossing -1. ok is
// false when the segment does not cross the scanline y.
func ScanlineCrossing(p0, p1 Vec2, x, y float32) (sign int, crossX float32, ok bool) {
	if p0.Y == p1.Y {
		return 0, 0, false
	}
	if y < min32(p0.Y, p1.Y) || y >= max32(p0.Y, p1.Y) {
		return 0, 0, false
	}
	t := (y - p0.Y) / (p1.Y - p0.Y)
	cx := p0.X + t*(p1.X-p0.X)
	if cx < x {
		return 0, cx, false
	}
	if p1.Y > p0.Y {
		return 1, cx, true
	}
	return -1, cx, true
}
