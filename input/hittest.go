package input

import (
	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
	"github.com/graphick-dev/graphick/scene"
)

// HandleHitScale widens the vertex hit threshold for handle hit-tests,
// since handles render smaller than vertices (original_source
// tools/common.cpp scales handle radii the same way).
const HandleHitScale = 1.5

// hitTestPath runs the Vertex > Handle > Segment > Element precedence
// cascade against one entity's path. Vertex/Handle hits report the
// point/handle index that was hit; Segment and Element hits carry no
// index, since dragging a segment body or the element as a whole moves
// the entity (or the whole selected run), not one addressable point.
func hitTestPath(p *path.Path, xf geom.Affine2D, point geom.Vec2, zoom, threshold float32, hasFill, hasStroke bool, strokeWidth float32) (HoverKind, int) {
	if p.PointCount() == 0 {
		return HoverNone, NoIndexValue
	}
	vt := threshold / zoom
	ht := vt * HandleHitScale
	local := xf.Invert().Transform(point)

	for i := 0; i < p.PointCount(); i++ {
		pt, err := p.Point(i)
		if err == nil && local.Distance(pt) <= vt {
			return HoverVertex, i
		}
	}
	for i := 0; i < p.PointCount(); i++ {
		node, err := p.NodeAt(i)
		if err != nil {
			continue
		}
		for _, hi := range [2]int{node.InHandleIndex, node.OutHandleIndex} {
			if hi == path.NoIndex {
				continue
			}
			hp, ok := p.HandlePoint(hi)
			if ok && local.Distance(hp) <= ht {
				return HoverHandle, hi
			}
		}
	}
	for _, seg := range p.Segments() {
		if ok, _ := p.IsPointInsideSegment(point, seg.CommandIndex, xf, vt); ok {
			return HoverSegment, NoIndexValue
		}
	}
	if p.IsPointInsidePath(point, hasFill, hasStroke, xf, threshold, zoom, strokeWidth) {
		return HoverElement, NoIndexValue
	}
	return HoverNone, NoIndexValue
}

// NoIndexValue is the hit index returned alongside HoverSegment,
// HoverElement and HoverNone, where no single point/handle is addressed.
const NoIndexValue = -1

// hitTestScene walks the scene's z-order front to back (topmost first),
// returning the topmost selectable element's hit, or (uuid.Nil, HoverNone, ...) if
// nothing is hit at point (spec.md §4.3's hover-precedence cascade).
func (m *Machine) hitTestScene(point geom.Vec2) (uuid.UUID, HoverKind, int) {
	order := m.Scene.ZOrder()
	zoom := m.Scene.Viewport.Zoom()
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		e := m.Scene.Entity(id)
		if !e.Valid() || !e.IsElement() || !e.IsInCategory(scene.CategorySelectable) {
			continue
		}
		p, ok := e.Path()
		if !ok {
			continue
		}
		_, hasFill := e.Fill()
		stroke, hasStroke := e.Stroke()
		width := float32(0)
		if hasStroke {
			width = stroke.Width
		}
		kind, index := hitTestPath(p, e.Transform().Matrix, point, zoom, HitThreshold, hasFill, hasStroke, width)
		if kind == HoverNone {
			continue
		}
		return id, kind, index
	}
	return uuid.Nil, HoverNone, NoIndexValue
}
