package path

import "github.com/graphick-dev/graphick/geom"

// BoundingRect returns the tight axis-aligned bounding box of the path's
// drawable segments, accounting for curve extrema (spec.md §4.1).
func (p *Path) BoundingRect() geom.Rect {
	if len(p.points) == 0 {
		return geom.Rect{}
	}
	r := geom.Rect{Min: p.points[0], Max: p.points[0]}
	first := true
	p.EachSegment(func(s Segment) bool {
		var segR geom.Rect
		switch s.Type {
		case Line:
			segR = geom.Rect{Min: s.P0.Min(s.P3), Max: s.P0.Max(s.P3)}
		case Quadratic:
			segR = (geom.Quadratic{P0: s.P0, P1: s.P1, P2: s.P3}).BoundingRect()
		case Cubic:
			segR = (geom.Cubic{P0: s.P0, P1: s.P1, P2: s.P2, P3: s.P3}).BoundingRect()
		}
		if first {
			r = segR
			first = false
		} else {
			r = r.Union(segR)
		}
		return true
	})
	if first {
		// No drawable segments: bound the single point.
		return geom.Rect{Min: p.points[0], Max: p.points[0]}
	}
	return r
}

// BoundingRectTransformed returns the bounding rect of the path after
// applying transform to every point (recomputing curve extrema in the
// transformed space).
func (p *Path) BoundingRectTransformed(transform geom.Affine2D) geom.Rect {
	if p.Empty() {
		if len(p.points) == 0 {
			return geom.Rect{}
		}
		tp := transform.Transform(p.points[0])
		return geom.Rect{Min: tp, Max: tp}
	}
	var r geom.Rect
	first := true
	p.EachSegment(func(s Segment) bool {
		ts := Segment{
			Type: s.Type,
			P0:   transform.Transform(s.P0),
			P1:   transform.Transform(s.P1),
			P2:   transform.Transform(s.P2),
			P3:   transform.Transform(s.P3),
		}
		var segR geom.Rect
		switch ts.Type {
		case Line:
			segR = geom.Rect{Min: ts.P0.Min(ts.P3), Max: ts.P0.Max(ts.P3)}
		case Quadratic:
			segR = (geom.Quadratic{P0: ts.P0, P1: ts.P1, P2: ts.P3}).BoundingRect()
		case Cubic:
			segR = (geom.Cubic{P0: ts.P0, P1: ts.P1, P2: ts.P2, P3: ts.P3}).BoundingRect()
		}
		if first {
			r, first = segR, false
		} else {
			r = r.Union(segR)
		}
		return true
	})
	return r
}

// ApproxBoundingRect returns the hull of the path's control points and
// dangling handles — cheaper than BoundingRect since it skips extrema
// computation, at the cost of being a (possibly loose) over-approximation.
func (p *Path) ApproxBoundingRect() geom.Rect {
	if len(p.points) == 0 {
		return geom.Rect{}
	}
	r := geom.Rect{Min: p.points[0], Max: p.points[0]}
	for _, pt := range p.points[1:] {
		r = r.ExpandToPoint(pt)
	}
	if p.hasInHandle {
		r = r.ExpandToPoint(p.inHandle)
	}
	if p.hasOutHandle {
		r = r.ExpandToPoint(p.outHandle)
	}
	return r
}

// flattenAll flattens every segment of the path into a single closed
// polyline approximation at the given tolerance, used by the
// point-in-path and intersection queries.
func (p *Path) flattenAll(tolerance float32) []geom.Vec2 {
	if len(p.points) == 0 {
		return nil
	}
	pts := []geom.Vec2{p.points[0]}
	p.EachSegment(func(s Segment) bool {
		switch s.Type {
		case Line:
			pts = append(pts, s.P3)
		case Quadratic:
			pts = (geom.Quadratic{P0: s.P0, P1: s.P1, P2: s.P3}).Flatten(tolerance, pts)
		case Cubic:
			pts = (geom.Cubic{P0: s.P0, P1: s.P1, P2: s.P2, P3: s.P3}).Flatten(tolerance, pts)
		}
		return true
	})
	return pts
}

// IsPointInsidePath reports whether point lies within the path's fill
// region and/or its stroke band, per spec.md §4.1. threshold is a
// scene-space radius scaled by 1/zoom for the stroke hit-test; transform
// maps the path's local space into the same space as point.
func (p *Path) IsPointInsidePath(point geom.Vec2, fill, stroke bool, transform geom.Affine2D, threshold, zoom float32, strokeWidth float32) bool {
	if p.Empty() {
		return false
	}
	local := transform.Invert().Transform(point)
	poly := p.flattenAll(0.25 / maxf(zoom, 0.0001))
	if fill && isPointInPolygon(local, poly) {
		return true
	}
	if stroke {
		t := threshold/zoom + strokeWidth/2
		if isPointNearPolyline(local, poly, t, p.closed) {
			return true
		}
	}
	return false
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func isPointInPolygon(p geom.Vec2, poly []geom.Vec2) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xint := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xint {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func isPointNearPolyline(p geom.Vec2, poly []geom.Vec2, threshold float32, closed bool) bool {
	n := len(poly)
	if n == 0 {
		return false
	}
	limit := n - 1
	if closed {
		limit = n
	}
	for i := 0; i < limit; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if distanceToSegment(p, a, b) <= threshold {
			return true
		}
	}
	return false
}

func distanceToSegment(p, a, b geom.Vec2) float32 {
	ab := b.Sub(a)
	l2 := ab.LenSquared()
	if l2 < geom.Epsilon {
		return p.Sub(a).Len()
	}
	t := geom.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	proj := a.Add(ab.Mul(t))
	return p.Sub(proj).Len()
}

// IsPointInsideSegment reports whether point lies within threshold of
// the segment at commandIndex.
func (p *Path) IsPointInsideSegment(point geom.Vec2, commandIndex int, transform geom.Affine2D, threshold float32) (bool, error) {
	if commandIndex <= 0 || commandIndex >= len(p.commands) {
		return false, ErrIndexOutOfRange
	}
	local := transform.Invert().Transform(point)
	var found bool
	var ok bool
	p.EachSegment(func(s Segment) bool {
		if s.CommandIndex != commandIndex {
			return true
		}
		found = true
		poly := flattenSegment(s, 0.25)
		ok = isPointNearPolyline(local, poly, threshold, false)
		return false
	})
	if !found {
		return false, ErrIndexOutOfRange
	}
	return ok, nil
}

func flattenSegment(s Segment, tolerance float32) []geom.Vec2 {
	pts := []geom.Vec2{s.P0}
	switch s.Type {
	case Line:
		pts = append(pts, s.P3)
	case Quadratic:
		pts = (geom.Quadratic{P0: s.P0, P1: s.P1, P2: s.P3}).Flatten(tolerance, pts)
	case Cubic:
		pts = (geom.Cubic{P0: s.P0, P1: s.P1, P2: s.P2, P3: s.P3}).Flatten(tolerance, pts)
	}
	return pts
}

// IsPointInsidePoint reports whether point lies within threshold of the
// vertex at pointIndex.
func (p *Path) IsPointInsidePoint(point geom.Vec2, pointIndex int, transform geom.Affine2D, threshold float32) (bool, error) {
	if pointIndex < 0 || pointIndex >= len(p.points) {
		return false, ErrIndexOutOfRange
	}
	local := transform.Invert().Transform(point)
	return local.Distance(p.points[pointIndex]) <= threshold, nil
}

// HandlePoint returns the control point addressed by handleIndex — an
// ordinary point index, or the InHandleIndex/OutHandleIndex sentinels
// for a dangling handle — mirroring TranslateHandle's index handling.
func (p *Path) HandlePoint(handleIndex int) (geom.Vec2, bool) {
	switch handleIndex {
	case InHandleIndex:
		return p.InHandle()
	case OutHandleIndex:
		return p.OutHandle()
	}
	if handleIndex < 0 || handleIndex >= len(p.points) {
		return geom.Vec2{}, false
	}
	return p.points[handleIndex], true
}

// Intersects reports whether the path's geometry overlaps rect r
// (optionally pre-transformed by transform). When outIndices is
// non-nil, the point indices of every vertex lying within r are
// appended to it. The fast path checks corner containment before
// falling back to per-segment rect intersection.
func (p *Path) Intersects(r geom.Rect, transform geom.Affine2D, outIndices *[]int) bool {
	any := false
	for i, pt := range p.points {
		tp := transform.Transform(pt)
		if r.ContainsPoint(tp) {
			any = true
			if outIndices != nil {
				*outIndices = append(*outIndices, i)
			}
		}
	}
	if any && outIndices == nil {
		return true
	}
	hit := any
	p.EachSegment(func(s Segment) bool {
		poly := flattenSegment(Segment{
			Type: s.Type,
			P0:   transform.Transform(s.P0),
			P1:   transform.Transform(s.P1),
			P2:   transform.Transform(s.P2),
			P3:   transform.Transform(s.P3),
		}, 0.5)
		for i := 0; i+1 < len(poly); i++ {
			if geom.RectSegmentIntersects(r, poly[i], poly[i+1]) {
				hit = true
				if outIndices == nil {
					return false
				}
			}
		}
		return true
	})
	return hit
}
