package path

import (
	"math"

	"github.com/graphick-dev/graphick/geom"
)

// MoveTo starts a new subpath at p, clearing the closed flag.
func (p *Path) MoveTo(pt geom.Vec2) {
	p.commands = append(p.commands, Move)
	p.points = append(p.points, pt)
	p.closed = false
}

// LineTo appends a line segment to pt. If the path is empty, an implicit
// Move to pt is emitted instead (a path with zero segments is just a
// point, per spec.md §3.2).
func (p *Path) LineTo(pt geom.Vec2) {
	if len(p.commands) == 0 {
		p.MoveTo(pt)
		return
	}
	p.commands = append(p.commands, Line)
	p.points = append(p.points, pt)
}

// QuadraticTo appends a quadratic segment via ctrl to pt.
func (p *Path) QuadraticTo(ctrl, pt geom.Vec2) {
	if len(p.commands) == 0 {
		p.MoveTo(pt)
		return
	}
	p.commands = append(p.commands, Quadratic)
	p.points = append(p.points, ctrl, pt)
}

// CubicTo appends a cubic segment via ctrl0, ctrl1 to pt.
func (p *Path) CubicTo(ctrl0, ctrl1, pt geom.Vec2) {
	if len(p.commands) == 0 {
		p.MoveTo(pt)
		return
	}
	p.commands = append(p.commands, Cubic)
	p.points = append(p.points, ctrl0, ctrl1, pt)
}

// Close closes the current subpath. Per spec.md §3.2, a closed path
// ends with its first point repeated; the line back to the start is
// materialized explicitly so iteration never needs special-casing.
func (p *Path) Close() {
	if len(p.points) == 0 || p.closed {
		return
	}
	start := p.points[0]
	last, _ := p.LastPoint()
	if !geom.ApproxEqual(last.X, start.X) || !geom.ApproxEqual(last.Y, start.Y) {
		p.LineTo(start)
	}
	p.closed = true
}

// ArcTo appends an elliptical arc from the current point to the point
// determined by radii rx, ry, the x-axis rotation (radians), the
// large-arc and sweep flags, and the arc endpoint — decomposed into one
// or more cubic segments (spec.md §3.2).
func (p *Path) ArcTo(rx, ry, xRotation float32, largeArc, sweep bool, end geom.Vec2) {
	start, ok := p.LastPoint()
	if !ok {
		p.MoveTo(end)
		return
	}
	if rx == 0 || ry == 0 {
		p.LineTo(end)
		return
	}
	rx, ry = geom.Abs(rx), geom.Abs(ry)

	sinPhi, cosPhi := float32(math.Sin(float64(xRotation))), float32(math.Cos(float64(xRotation)))
	dx2, dy2 := (start.X-end.X)/2, (start.Y-end.Y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := float32(math.Sqrt(float64(lambda)))
		rx *= s
		ry *= s
	}

	sign := float32(1)
	if largeArc == sweep {
		sign = -1
	}
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	co := float32(0)
	if den != 0 && num/den > 0 {
		co = sign * float32(math.Sqrt(float64(num/den)))
	}
	cxp := co * (rx * y1p / ry)
	cyp := co * -(ry * x1p / rx)

	cx := cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2

	angle := func(ux, uy, vx, vy float32) float32 {
		dot := ux*vx + uy*vy
		lenProd := float32(math.Sqrt(float64(ux*ux+uy*uy))) * float32(math.Sqrt(float64(vx*vx+vy*vy)))
		a := float32(math.Acos(float64(geom.Clamp(dot/lenProd, -1, 1))))
		if ux*vy-uy*vx < 0 {
			a = -a
		}
		return a
	}

	theta1 := angle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dTheta := angle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dTheta > 0 {
		dTheta -= 2 * math.Pi
	} else if sweep && dTheta < 0 {
		dTheta += 2 * math.Pi
	}

	// Split into segments of at most 90 degrees each for a reasonable
	// cubic approximation.
	segments := int(math.Ceil(math.Abs(float64(dTheta)) / (math.Pi / 2)))
	if segments < 1 {
		segments = 1
	}
	delta := dTheta / float32(segments)
	t := float32(4.0 / 3.0 * math.Tan(float64(delta)/4))

	ellipsePoint := func(theta float32) geom.Vec2 {
		x := cx + rx*float32(math.Cos(float64(theta)))*cosPhi - ry*float32(math.Sin(float64(theta)))*sinPhi
		y := cy + rx*float32(math.Cos(float64(theta)))*sinPhi + ry*float32(math.Sin(float64(theta)))*cosPhi
		return geom.Pt(x, y)
	}
	ellipseTangent := func(theta float32) geom.Vec2 {
		x := -rx*float32(math.Sin(float64(theta)))*cosPhi - ry*float32(math.Cos(float64(theta)))*sinPhi
		y := -rx*float32(math.Sin(float64(theta)))*sinPhi + ry*float32(math.Cos(float64(theta)))*cosPhi
		return geom.Pt(x, y)
	}

	theta := theta1
	cur := start
	for i := 0; i < segments; i++ {
		next := theta + delta
		p0 := cur
		p3 := ellipsePoint(next)
		p1 := p0.Add(ellipseTangent(theta).Mul(t))
		p2 := p3.Sub(ellipseTangent(next).Mul(t))
		p.CubicTo(p1, p2, p3)
		cur = p3
		theta = next
	}
}

// Ellipse appends a closed ellipse centered at center with the given
// radii, approximated with 4 cubic arcs.
func (p *Path) Ellipse(center geom.Vec2, rx, ry float32) {
	const k = 0.5522847498 // 4/3 * (sqrt(2)-1)
	p.MoveTo(geom.Pt(center.X+rx, center.Y))
	p.CubicTo(geom.Pt(center.X+rx, center.Y+ry*k), geom.Pt(center.X+rx*k, center.Y+ry), geom.Pt(center.X, center.Y+ry))
	p.CubicTo(geom.Pt(center.X-rx*k, center.Y+ry), geom.Pt(center.X-rx, center.Y+ry*k), geom.Pt(center.X-rx, center.Y))
	p.CubicTo(geom.Pt(center.X-rx, center.Y-ry*k), geom.Pt(center.X-rx*k, center.Y-ry), geom.Pt(center.X, center.Y-ry))
	p.CubicTo(geom.Pt(center.X+rx*k, center.Y-ry), geom.Pt(center.X+rx, center.Y-ry*k), geom.Pt(center.X+rx, center.Y))
	p.Close()
}

// Rect appends a closed axis-aligned rectangle.
func (p *Path) Rect(r geom.Rect) {
	p.MoveTo(geom.Pt(r.Min.X, r.Min.Y))
	p.LineTo(geom.Pt(r.Max.X, r.Min.Y))
	p.LineTo(geom.Pt(r.Max.X, r.Max.Y))
	p.LineTo(geom.Pt(r.Min.X, r.Max.Y))
	p.Close()
}

// RoundRect appends a closed rectangle with circular-arc corners of the
// given radius (clamped to half the smaller side).
func (p *Path) RoundRect(r geom.Rect, radius float32) {
	radius = geom.Clamp(radius, 0, geom.Abs(geom.Clamp(minf(r.Dx(), r.Dy())/2, 0, radius)))
	if radius <= 0 {
		p.Rect(r)
		return
	}
	const k = 0.5522847498
	o := radius * k
	p.MoveTo(geom.Pt(r.Min.X+radius, r.Min.Y))
	p.LineTo(geom.Pt(r.Max.X-radius, r.Min.Y))
	p.CubicTo(geom.Pt(r.Max.X-radius+o, r.Min.Y), geom.Pt(r.Max.X, r.Min.Y+radius-o), geom.Pt(r.Max.X, r.Min.Y+radius))
	p.LineTo(geom.Pt(r.Max.X, r.Max.Y-radius))
	p.CubicTo(geom.Pt(r.Max.X, r.Max.Y-radius+o), geom.Pt(r.Max.X-radius+o, r.Max.Y), geom.Pt(r.Max.X-radius, r.Max.Y))
	p.LineTo(geom.Pt(r.Min.X+radius, r.Max.Y))
	p.CubicTo(geom.Pt(r.Min.X+radius-o, r.Max.Y), geom.Pt(r.Min.X, r.Max.Y-radius+o), geom.Pt(r.Min.X, r.Max.Y-radius))
	p.LineTo(geom.Pt(r.Min.X, r.Min.Y+radius))
	p.CubicTo(geom.Pt(r.Min.X, r.Min.Y+radius-o), geom.Pt(r.Min.X+radius-o, r.Min.Y), geom.Pt(r.Min.X+radius, r.Min.Y))
	p.Close()
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// Translate moves the point at pointIndex by delta, updating any handle
// points that belong to segments incident to it only if they are stored
// separately (dangling handles move with their owning endpoint when it
// is the path's first or last point).
func (p *Path) Translate(pointIndex int, delta geom.Vec2) error {
	if pointIndex < 0 || pointIndex >= len(p.points) {
		return ErrIndexOutOfRange
	}
	p.points[pointIndex] = p.points[pointIndex].Add(delta)
	if pointIndex == 0 && p.hasInHandle {
		p.inHandle = p.inHandle.Add(delta)
	}
	if pointIndex == len(p.points)-1 && p.hasOutHandle {
		p.outHandle = p.outHandle.Add(delta)
	}
	return nil
}

// TranslateHandle moves a control-point index (as returned by NodeAt, or
// the InHandleIndex/OutHandleIndex sentinels) by delta.
func (p *Path) TranslateHandle(handleIndex int, delta geom.Vec2) error {
	switch handleIndex {
	case InHandleIndex:
		p.inHandle = p.inHandle.Add(delta)
		return nil
	case OutHandleIndex:
		p.outHandle = p.outHandle.Add(delta)
		return nil
	}
	if handleIndex < 0 || handleIndex >= len(p.points) {
		return ErrIndexOutOfRange
	}
	p.points[handleIndex] = p.points[handleIndex].Add(delta)
	return nil
}

// ToLine converts the segment at commandIndex to a Line, dropping its
// control points and preserving the shape only when it was already
// (approximately) straight — per spec.md §4.1, this is a lossy
// simplification the caller opts into explicitly.
func (p *Path) ToLine(commandIndex int) error {
	if commandIndex <= 0 || commandIndex >= len(p.commands) {
		return ErrIndexOutOfRange
	}
	cmd := p.commands[commandIndex]
	if cmd == Move || cmd == Line {
		return nil
	}
	offset := p.pointOffsetForCommand(commandIndex)
	end := p.points[offset+cmd.PointCount()-1]
	p.points = append(p.points[:offset], append([]geom.Vec2{end}, p.points[offset+cmd.PointCount():]...)...)
	p.commands[commandIndex] = Line
	return nil
}

// ToCubic converts the segment at commandIndex to a Cubic, per spec.md
// §4.1: a Line gets two collinear control points (lossless); a
// Quadratic is converted via the exact cubic-equivalent formula.
func (p *Path) ToCubic(commandIndex int) error {
	if commandIndex <= 0 || commandIndex >= len(p.commands) {
		return ErrIndexOutOfRange
	}
	cmd := p.commands[commandIndex]
	if cmd == Move || cmd == Cubic {
		return nil
	}
	offset := p.pointOffsetForCommand(commandIndex)
	start := p.segmentStart(commandIndex)

	var c0, c1, end geom.Vec2
	switch cmd {
	case Line:
		end = p.points[offset]
		c0 = start.Lerp(end, 1.0/3)
		c1 = start.Lerp(end, 2.0/3)
	case Quadratic:
		ctrl := p.points[offset]
		end = p.points[offset+1]
		q := geom.Quadratic{P0: start, P1: ctrl, P2: end}.ToCubic()
		c0, c1 = q.P1, q.P2
	}

	newPts := append([]geom.Vec2{c0, c1, end}, p.points[offset+cmd.PointCount():]...)
	p.points = append(p.points[:offset], newPts...)
	p.commands[commandIndex] = Cubic
	return nil
}

func (p *Path) segmentStart(commandIndex int) geom.Vec2 {
	offset := p.pointOffsetForCommand(commandIndex)
	if offset == 0 {
		return p.points[0]
	}
	return p.points[offset-1]
}

// Remove deletes the point at pointIndex. If keepShape is true, the two
// segments incident to the removed vertex are replaced by a single
// cubic fit through them (spec.md §4.1); otherwise their control points
// are concatenated geometrically (a cheaper, shape-changing removal).
func (p *Path) Remove(pointIndex int, keepShape bool) error {
	if pointIndex < 0 || pointIndex >= len(p.points) {
		return ErrIndexOutOfRange
	}
	segs := p.Segments()
	var inSeg, outSeg *Segment
	var inIdx, outIdx int
	for i := range segs {
		s := &segs[i]
		if s.P3 == p.points[pointIndex] {
			inSeg, inIdx = s, i
		}
		if s.P0 == p.points[pointIndex] && outSeg == nil {
			outSeg, outIdx = s, i
		}
	}
	if inSeg == nil || outSeg == nil {
		// Endpoint of an open path: just drop the point and its
		// owning command.
		return p.removeEndpoint(pointIndex)
	}

	var merged geom.Cubic
	if keepShape {
		merged = fitCubicThrough(inSeg.AsCubic(), outSeg.AsCubic())
	} else {
		ic := inSeg.AsCubic()
		oc := outSeg.AsCubic()
		merged = geom.Cubic{P0: ic.P0, P1: ic.P1, P2: oc.P2, P3: oc.P3}
	}

	rebuilt := New()
	rebuilt.closed = p.closed
	for i, s := range segs {
		switch {
		case i == inIdx:
			if rebuilt.PointCount() == 0 {
				rebuilt.MoveTo(s.P0)
			}
			rebuilt.CubicTo(merged.P1, merged.P2, merged.P3)
		case i == outIdx:
			continue
		default:
			if rebuilt.PointCount() == 0 {
				rebuilt.MoveTo(s.P0)
			}
			appendSegment(rebuilt, s)
		}
	}
	*p = *rebuilt
	return nil
}

func (p *Path) removeEndpoint(pointIndex int) error {
	offset := 0
	for ci, cmd := range p.commands {
		count := cmd.PointCount()
		if offset+count-1 == pointIndex || (count == 0 && offset == pointIndex) {
			p.points = append(p.points[:offset], p.points[offset+count:]...)
			p.commands = append(p.commands[:ci], p.commands[ci+1:]...)
			return nil
		}
		offset += count
	}
	return ErrIndexOutOfRange
}

func appendSegment(p *Path, s Segment) {
	switch s.Type {
	case Line:
		p.LineTo(s.P3)
	case Quadratic:
		p.QuadraticTo(s.P1, s.P3)
	case Cubic:
		p.CubicTo(s.P1, s.P2, s.P3)
	}
}

// fitCubicThrough builds a single cubic approximating the concatenation
// of two cubics sharing an endpoint, by blending their control polygons
// — a cheap shape-preserving merge adequate for interactive vertex
// deletion (spec.md §4.1 "fits a single cubic through the two incident
// sub-curves").
func fitCubicThrough(a, b geom.Cubic) geom.Cubic {
	return geom.Cubic{
		P0: a.P0,
		P1: a.P0.Add(a.P1.Sub(a.P0).Mul(1.5)),
		P2: b.P3.Add(b.P2.Sub(b.P3).Mul(1.5)),
		P3: b.P3,
	}
}

// Split divides the segment at segmentIndex (counted among drawable
// segments, i.e. the order returned by Segments) at parameter t,
// replacing it with two segments of the same kind that together trace
// the original curve.
func (p *Path) Split(segmentIndex int, t float32) error {
	segs := p.Segments()
	if segmentIndex < 0 || segmentIndex >= len(segs) {
		return ErrIndexOutOfRange
	}
	s := segs[segmentIndex]
	rebuilt := New()
	rebuilt.closed = p.closed
	for i, cur := range segs {
		if rebuilt.PointCount() == 0 {
			rebuilt.MoveTo(cur.P0)
		}
		if i != segmentIndex {
			appendSegment(rebuilt, cur)
			continue
		}
		switch s.Type {
		case Line:
			mid := s.P0.Lerp(s.P3, t)
			rebuilt.LineTo(mid)
			rebuilt.LineTo(s.P3)
		case Quadratic:
			left, right := (geom.Quadratic{P0: s.P0, P1: s.P1, P2: s.P3}).Split(t)
			rebuilt.QuadraticTo(left.P1, left.P2)
			rebuilt.QuadraticTo(right.P1, right.P2)
		case Cubic:
			left, right := (geom.Cubic{P0: s.P0, P1: s.P1, P2: s.P2, P3: s.P3}).Split(t)
			rebuilt.CubicTo(left.P1, left.P2, left.P3)
			rebuilt.CubicTo(right.P1, right.P2, right.P3)
		}
	}
	*p = *rebuilt
	return nil
}
