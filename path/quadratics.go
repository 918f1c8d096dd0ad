package path

import "github.com/graphick-dev/graphick/geom"

// QuadraticSegment is one piece of a quadratic-only path, as produced by
// ToQuadratics. Move segments are represented implicitly: the first
// segment's P0 is the subpath start.
type QuadraticSegment struct {
	P0, P1, P2 geom.Vec2
	// MoveTo is true when this segment starts a new subpath (its P0 is
	// not connected to the previous segment's P2).
	MoveTo bool
}

// QuadraticPath is the quadratic-only approximation of a Path, used by
// the tiler (spec.md §4.5.1 step 2a) and stroke offsetting.
type QuadraticPath struct {
	Segments []QuadraticSegment
	Closed   bool
}

// Quad returns the segment as a geom.Quadratic.
func (q QuadraticSegment) Quad() geom.Quadratic {
	return geom.Quadratic{P0: q.P0, P1: q.P1, P2: q.P2}
}

// ToQuadratics converts the path to a quadratic-only approximation
// within tolerance, per spec.md §4.1: each cubic is split at its
// inflection points (resolving the Design Notes' open question on cusp
// handling — this implementation splits at t_cusp rather than
// duplicating control points, since splitting is already required to
// guarantee per-piece monotonicity for the bisection step below), then
// each monotonic piece is recursively bisected until
// Cubic.ApproxQuadraticError() <= tolerance.
func (p *Path) ToQuadratics(tolerance float32) QuadraticPath {
	out := QuadraticPath{Closed: p.closed}
	atSubpathStart := true
	p.EachSegment(func(s Segment) bool {
		switch s.Type {
		case Line:
			mid := s.P0.Lerp(s.P3, 0.5)
			out.Segments = append(out.Segments, QuadraticSegment{P0: s.P0, P1: mid, P2: s.P3, MoveTo: atSubpathStart})
		case Quadratic:
			out.Segments = append(out.Segments, QuadraticSegment{P0: s.P0, P1: s.P1, P2: s.P3, MoveTo: atSubpathStart})
		case Cubic:
			c := geom.Cubic{P0: s.P0, P1: s.P1, P2: s.P2, P3: s.P3}
			first := true
			for _, piece := range splitAtInflectionsAndExtrema(c) {
				for _, qc := range bisectCubic(piece, tolerance) {
					out.Segments = append(out.Segments, QuadraticSegment{
						P0: qc.P0, P1: qc.P1, P2: qc.P2,
						MoveTo: atSubpathStart && first,
					})
					first = false
				}
			}
		}
		atSubpathStart = false
		return true
	})
	return out
}

// splitAtInflectionsAndExtrema splits c at both its inflection
// parameters and its extrema, returning monotonic, single-curvature
// pieces suitable for single-quadratic approximation.
func splitAtInflectionsAndExtrema(c geom.Cubic) []geom.Cubic {
	ts := append(append([]float32{}, c.InflectionsT()...), c.MonotonicSplitT()...)
	if len(ts) == 0 {
		return []geom.Cubic{c}
	}
	return c.SplitAt(dedupAndSort(ts))
}

func dedupAndSort(ts []float32) []float32 {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j-1] > ts[j]; j-- {
			ts[j-1], ts[j] = ts[j], ts[j-1]
		}
	}
	out := ts[:0]
	last := float32(-1)
	for _, t := range ts {
		if t <= 0 || t >= 1 {
			continue
		}
		if len(out) == 0 || t-last > geom.Epsilon {
			out = append(out, t)
			last = t
		}
	}
	return out
}

func bisectCubic(c geom.Cubic, tolerance float32) []geom.Quadratic {
	if c.ApproxQuadraticError() <= tolerance {
		return []geom.Quadratic{c.ApproxAsQuadratic()}
	}
	left, right := c.Split(0.5)
	return append(bisectCubic(left, tolerance), bisectCubic(right, tolerance)...)
}
