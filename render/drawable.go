// Package render implements the per-frame pipeline that walks a
// scene's z-ordered entities, converts each visible path to a tiled
// set of GPU instances, batches those by z-index, and issues the
// draws through a gpu.Device (spec.md §4.5.1).
package render

import (
	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
	"github.com/graphick-dev/graphick/scene"
	"github.com/graphick-dev/graphick/tiler"
)

// Drawable is the tiled, paint-resolved representation of one
// entity's path, ready for instance packing (spec.md §4.5.1 step 2).
type Drawable struct {
	EntityID  [16]byte
	ZIndex    int
	Color     [4]float32
	PaintKind scene.PaintKind
	Tiles     tiler.Result
	Curves    []geom.Quadratic

	// GradientID, GradientStart and GradientEnd are set when PaintKind
	// is a gradient; Ramp holds the resolved ramp's sampled texels,
	// ready to upload as one row of the gradients texture.
	GradientID    uuid.UUID
	GradientStart geom.Vec2
	GradientEnd   geom.Vec2
	Ramp          []float32
}

// Tolerance is the flattening tolerance divisor from spec.md §4.1:
// curves are approximated to within tolerance/zoom of the true path.
const Tolerance = 0.25

// BuildDrawable converts e's path (offset by its stroke, if any) into
// a Drawable tiled at zoom, following spec.md §4.5.1 steps 2a-2c. It
// returns ok=false for entities with no path, no fill, and no stroke.
func BuildDrawable(e scene.Entity, zIndex int, zoom float32) (Drawable, bool) {
	p, ok := e.Path()
	if !ok || p.Empty() {
		return Drawable{}, false
	}
	fill, hasFill := e.Fill()
	stroke, hasStroke := e.Stroke()
	if !hasFill && !hasStroke {
		return Drawable{}, false
	}

	qp := p.ToQuadratics(Tolerance / maxf(zoom, geom.Epsilon))

	var outline path.QuadraticPath
	var paint scene.Paint
	switch {
	case hasStroke:
		outline = offsetToOutline(qp, stroke)
		paint = stroke.Paint
	default:
		outline = qp
		paint = fill.Paint
	}

	bounds := quadraticBounds(outline)
	transformed := transformQuadraticPath(outline, e.Transform().Matrix)
	boundsT := transformRect(bounds, e.Transform().Matrix)

	tiles := tiler.Tile(transformed, boundsT, zoom, tiler.NonZero)

	d := Drawable{
		ZIndex:    zIndex,
		Color:     paint.Color,
		PaintKind: paint.Kind,
		Tiles:     tiles,
	}
	copy(d.EntityID[:], e.ID()[:])
	for _, seg := range transformed.Segments {
		d.Curves = append(d.Curves, seg.Quad())
	}
	if paint.HasGradient() {
		if g, ok := e.ResolveGradient(paint.Gradient); ok {
			d.GradientID = paint.Gradient
			d.GradientStart = paint.GradientStart
			d.GradientEnd = paint.GradientEnd
			d.Ramp = BuildRamp(g)
		} else {
			d.PaintKind = scene.PaintSolidColor
		}
	}
	return d, true
}

// offsetToOutline expands qp by ±width/2 into a single closed outline
// approximating the stroke, following spec.md §4.5.1 step 2b.
// geom.OffsetPolyline's averaged-direction offset at interior vertices
// gives a rounded approximation of a join, adequate for the tile-fill
// shape computed here.
func offsetToOutline(qp path.QuadraticPath, stroke scene.StrokeComponent) path.QuadraticPath {
	half := stroke.Width / 2
	pts := flattenQuadraticPath(qp, 0.1)
	if len(pts) < 2 {
		return qp
	}

	outer := geom.OffsetPolyline(pts, half)
	inner := geom.OffsetPolyline(pts, -half)

	var out path.QuadraticPath
	appendPolylineAsSegments(&out, outer, true)
	appendPolylineAsSegments(&out, reversed(inner), false)
	out.Closed = true
	return out
}

func appendPolylineAsSegments(out *path.QuadraticPath, pts []geom.Vec2, moveFirst bool) {
	for i := 0; i+1 < len(pts); i++ {
		mid := pts[i].Lerp(pts[i+1], 0.5)
		out.Segments = append(out.Segments, path.QuadraticSegment{
			P0: pts[i], P1: mid, P2: pts[i+1],
			MoveTo: moveFirst && i == 0,
		})
	}
}

func reversed(pts []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func flattenQuadraticPath(qp path.QuadraticPath, tolerance float32) []geom.Vec2 {
	var pts []geom.Vec2
	for _, seg := range qp.Segments {
		flat := seg.Quad().Flatten(tolerance, nil)
		if len(pts) > 0 && len(flat) > 0 && pts[len(pts)-1] == flat[0] {
			flat = flat[1:]
		}
		pts = append(pts, flat...)
	}
	return pts
}

func quadraticBounds(qp path.QuadraticPath) geom.Rect {
	var r geom.Rect
	first := true
	for _, seg := range qp.Segments {
		b := seg.Quad().BoundingRect()
		if first {
			r = b
			first = false
			continue
		}
		r = r.Union(b)
	}
	return r
}

func transformQuadraticPath(qp path.QuadraticPath, m geom.Affine2D) path.QuadraticPath {
	out := path.QuadraticPath{Closed: qp.Closed}
	for _, seg := range qp.Segments {
		out.Segments = append(out.Segments, path.QuadraticSegment{
			P0:     m.Transform(seg.P0),
			P1:     m.Transform(seg.P1),
			P2:     m.Transform(seg.P2),
			MoveTo: seg.MoveTo,
		})
	}
	return out
}

func transformRect(r geom.Rect, m geom.Affine2D) geom.Rect {
	corners := [4]geom.Vec2{
		{X: r.Min.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y}, {X: r.Min.X, Y: r.Max.Y},
	}
	out := geom.Rect{Min: m.Transform(corners[0]), Max: m.Transform(corners[0])}
	for _, c := range corners[1:] {
		out = out.ExpandToPoint(m.Transform(c))
	}
	return out.Canon()
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
