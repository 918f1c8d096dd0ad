package path

import "github.com/graphick-dev/graphick/geom"

// Segment is one drawable piece of a path, yielded by its iterator. Move
// commands never appear as a Segment (per the Design Notes: "the path
// iterator advances over segments; it skips standalone Move commands
// after the first").
type Segment struct {
	Type           Command
	P0, P1, P2, P3 geom.Vec2
	// CommandIndex is the index into the path's command stream this
	// segment came from.
	CommandIndex int
}

// AsCubic upgrades the segment to a cubic, matching spec.md §4.1's
// ToCubic rules (Line gets two collinear controls; Quadratic uses the
// exact cubic-equivalent).
func (s Segment) AsCubic() geom.Cubic {
	switch s.Type {
	case Line:
		return geom.Cubic{P0: s.P0, P1: s.P0.Lerp(s.P3, 1.0/3), P2: s.P0.Lerp(s.P3, 2.0/3), P3: s.P3}
	case Quadratic:
		return geom.Quadratic{P0: s.P0, P1: s.P1, P2: s.P3}.ToCubic()
	case Cubic:
		return geom.Cubic{P0: s.P0, P1: s.P1, P2: s.P2, P3: s.P3}
	default:
		return geom.Cubic{P0: s.P0, P1: s.P0, P2: s.P3, P3: s.P3}
	}
}

// Segments returns every drawable segment of the path in order.
func (p *Path) Segments() []Segment {
	var out []Segment
	p.EachSegment(func(s Segment) bool {
		out = append(out, s)
		return true
	})
	return out
}

// EachSegment calls fn for every segment in forward order, stopping
// early if fn returns false.
func (p *Path) EachSegment(fn func(Segment) bool) {
	if len(p.commands) == 0 {
		return
	}
	cur := p.points[0]
	pointIdx := 1
	for ci := 1; ci < len(p.commands); ci++ {
		cmd := p.commands[ci]
		switch cmd {
		case Move:
			cur = p.points[pointIdx]
			pointIdx++
		case Line:
			to := p.points[pointIdx]
			pointIdx++
			if !fn(Segment{Type: Line, P0: cur, P3: to, CommandIndex: ci}) {
				return
			}
			cur = to
		case Quadratic:
			ctrl := p.points[pointIdx]
			to := p.points[pointIdx+1]
			pointIdx += 2
			if !fn(Segment{Type: Quadratic, P0: cur, P1: ctrl, P3: to, CommandIndex: ci}) {
				return
			}
			cur = to
		case Cubic:
			c0 := p.points[pointIdx]
			c1 := p.points[pointIdx+1]
			to := p.points[pointIdx+2]
			pointIdx += 3
			if !fn(Segment{Type: Cubic, P0: cur, P1: c0, P2: c1, P3: to, CommandIndex: ci}) {
				return
			}
			cur = to
		}
	}
}

// EachSegmentReverse calls fn for every segment in reverse order,
// stopping early if fn returns false. The segment's P0..P3 are left in
// their forward orientation; callers that need the reversed direction
// should swap P0/P3 (and P1/P2 for cubics) themselves.
func (p *Path) EachSegmentReverse(fn func(Segment) bool) {
	segs := p.Segments()
	for i := len(segs) - 1; i >= 0; i-- {
		if !fn(segs[i]) {
			return
		}
	}
}

// SegmentCount returns the number of drawable segments in the path.
func (p *Path) SegmentCount() int {
	n := 0
	for _, c := range p.commands {
		if c != Move {
			n++
		}
	}
	return n
}

// Node describes a vertex and its two incident command indices plus
// in/out handle indices, per spec.md §3.2 "Vertex nodes": the
// addressable unit for direct-selection edits.
type Node struct {
	PointIndex int
	// InCommand/OutCommand are the command indices of the segments
	// incoming to / outgoing from this vertex, or NoIndex if absent
	// (path endpoints on an open path).
	InCommand, OutCommand int
	// InHandleIndex/OutHandleIndex address the control point nearest
	// this vertex on the incoming/outgoing segment (if any), using the
	// conventional point index, or NoIndex/InHandleIndex/OutHandleIndex
	// sentinels when absent or dangling.
	InHandleIndex, OutHandleIndex int
}

// NodeAt returns the Node describing the vertex at the given point
// index.
func (p *Path) NodeAt(pointIndex int) (Node, error) {
	if pointIndex < 0 || pointIndex >= len(p.points) {
		return Node{}, ErrIndexOutOfRange
	}
	n := Node{PointIndex: pointIndex, InCommand: NoIndex, OutCommand: NoIndex, InHandleIndex: NoIndex, OutHandleIndex: NoIndex}

	offset := 0
	prevEnd := -1
	for ci, cmd := range p.commands {
		count := cmd.PointCount()
		start := prevEnd
		end := offset + count - 1

		if cmd != Move && start == pointIndex {
			n.OutCommand = ci
			switch cmd {
			case Quadratic:
				n.OutHandleIndex = offset
			case Cubic:
				n.OutHandleIndex = offset
			}
		}
		if cmd != Move && end == pointIndex {
			n.InCommand = ci
			switch cmd {
			case Quadratic:
				n.InHandleIndex = offset
			case Cubic:
				n.InHandleIndex = offset + 1
			}
		}
		offset += count
		if count > 0 {
			prevEnd = offset - 1
		}
	}
	if pointIndex == 0 {
		if _, ok := p.InHandle(); ok {
			n.InHandleIndex = InHandleIndex
		}
	}
	if pointIndex == len(p.points)-1 {
		if _, ok := p.OutHandle(); ok {
			n.OutHandleIndex = OutHandleIndex
		}
	}
	return n, nil
}
