package input

import (
	"testing"
	"time"

	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
	"github.com/graphick-dev/graphick/scene"
)

func newTestScene() *scene.Scene {
	s := scene.New()
	s.Viewport.Resize(geom.IPt(800, 600), geom.IPt(0, 0), 1)
	return s
}

func TestHitTestPathPrecedenceCascade(t *testing.T) {
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 100, 100))

	// Dead center of an edge should hit the segment, not the element,
	// even though both are true for a filled rect.
	kind, _ := hitTestPath(p, geom.Identity, geom.Pt(50, 0), 1, 2, true, false, 0)
	if kind != HoverSegment {
		t.Fatalf("point on the boundary should hit the segment, got %v", kind)
	}

	// Exactly on a vertex should win over the segment it belongs to.
	kind, idx := hitTestPath(p, geom.Identity, geom.Pt(0, 0), 1, 2, true, false, 0)
	if kind != HoverVertex || idx != 0 {
		t.Fatalf("point on the first vertex should hit HoverVertex/0, got %v/%d", kind, idx)
	}

	// Deep inside the fill, away from any boundary, should fall back to
	// the whole element.
	kind, _ = hitTestPath(p, geom.Identity, geom.Pt(50, 50), 1, 2, true, false, 0)
	if kind != HoverElement {
		t.Fatalf("interior point should fall back to HoverElement, got %v", kind)
	}

	// Far outside should hit nothing.
	kind, _ = hitTestPath(p, geom.Identity, geom.Pt(1000, 1000), 1, 2, true, false, 0)
	if kind != HoverNone {
		t.Fatalf("far point should hit nothing, got %v", kind)
	}
}

func TestUpdateHoverDirectSelectReportsVertex(t *testing.T) {
	s := newTestScene()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 100, 100))
	s.CreateElement(p)
	s.History.EndBatch()

	m := New(s)
	m.SetTool(DirectSelect)
	m.updateHover(PointerEvent{Scene: axisState{Position: geom.Pt(0, 0)}})
	if m.hover.Kind != HoverVertex {
		t.Fatalf("hovering a vertex under DirectSelect should report HoverVertex, got %v", m.hover.Kind)
	}
}

func TestUpdateHoverSelectOnlyReportsElement(t *testing.T) {
	s := newTestScene()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 100, 100))
	s.CreateElement(p)
	s.History.EndBatch()

	m := New(s)
	m.SetTool(Select)
	m.updateHover(PointerEvent{Scene: axisState{Position: geom.Pt(0, 0)}})
	if m.hover.Kind != HoverElement {
		t.Fatalf("the Select tool should only ever report whole-element hover, got %v", m.hover.Kind)
	}
}

func TestDirectSelectVertexDrag(t *testing.T) {
	s := newTestScene()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 100, 100))
	e := s.CreateElement(p)
	s.History.EndBatch()

	m := New(s)
	m.SetTool(DirectSelect)
	m.HandlePointer(PointerEvent{Phase: PointerDown, Scene: axisState{Position: geom.Pt(0, 0)}, Client: axisState{Position: geom.Pt(0, 0)}})

	entry, ok := s.Selection.Entry(e.ID())
	if !ok || entry.Type != scene.SelectionElement {
		t.Fatalf("clicking a vertex should select it as a partial element entry, got %v ok=%v", entry, ok)
	}

	m.HandlePointer(PointerEvent{Phase: PointerMove, Scene: axisState{Position: geom.Pt(20, 20)}, Client: axisState{Position: geom.Pt(20, 20)}})
	m.HandlePointer(PointerEvent{Phase: PointerUp, Scene: axisState{Position: geom.Pt(20, 20)}})

	moved, _ := e.Path()
	pt, _ := moved.Point(0)
	if !approxPtEq(pt, geom.Pt(20, 20)) {
		t.Fatalf("dragged vertex should move to the new position, got %v", pt)
	}
	pt2, _ := moved.Point(1)
	if !approxPtEq(pt2, geom.Pt(100, 0)) {
		t.Fatalf("the untouched vertex should stay put, got %v", pt2)
	}
}

func TestAltDragDuplicatesSelection(t *testing.T) {
	s := newTestScene()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 10, 10))
	e := s.CreateElement(p)
	s.History.EndBatch()
	s.Selection.Select(e.ID())

	m := New(s)
	m.SetTool(Select)
	m.HandlePointer(PointerEvent{Phase: PointerDown, Modifiers: ModAlt, Scene: axisState{Position: geom.Pt(5, 5)}, Client: axisState{Position: geom.Pt(5, 5)}})

	if s.Selection.Has(e.ID()) {
		t.Fatal("alt-drag should move the selection onto the duplicate, not keep the original selected")
	}
	ids := s.Selection.Entities()
	if len(ids) != 1 || ids[0] == e.ID() {
		t.Fatalf("expected exactly one newly selected duplicate entity, got %v", ids)
	}
}

func TestSelectDragWithoutAltMovesOriginal(t *testing.T) {
	s := newTestScene()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 10, 10))
	e := s.CreateElement(p)
	s.History.EndBatch()
	s.Selection.Select(e.ID())

	m := New(s)
	m.SetTool(Select)
	m.HandlePointer(PointerEvent{Phase: PointerDown, Scene: axisState{Position: geom.Pt(5, 5)}, Client: axisState{Position: geom.Pt(5, 5)}})
	m.HandlePointer(PointerEvent{Phase: PointerMove, Scene: axisState{Position: geom.Pt(25, 5)}, Client: axisState{Position: geom.Pt(25, 5)}})
	m.HandlePointer(PointerEvent{Phase: PointerUp})

	if !s.Selection.Has(e.ID()) {
		t.Fatal("dragging without alt should keep moving the original entity")
	}
	if len(s.Selection.Entities()) != 1 {
		t.Fatalf("no duplicate should have been created, got selection %v", s.Selection.Entities())
	}
}

func TestPenClickNearFirstVertexClosesPath(t *testing.T) {
	s := newTestScene()
	m := New(s)
	m.SetTool(Pen)

	pts := []geom.Vec2{geom.Pt(0, 0), geom.Pt(50, 0), geom.Pt(50, 50), geom.Pt(0, 50)}
	for _, p := range pts {
		m.HandlePointer(PointerEvent{Phase: PointerDown, Scene: axisState{Position: p}})
		m.HandlePointer(PointerEvent{Phase: PointerUp, Scene: axisState{Position: p}})
	}
	// click back near the first vertex
	m.HandlePointer(PointerEvent{Phase: PointerDown, Scene: axisState{Position: geom.Pt(1, 1)}})
	m.HandlePointer(PointerEvent{Phase: PointerUp, Scene: axisState{Position: geom.Pt(1, 1)}})

	if m.penPath != nil {
		t.Fatal("clicking back on the first vertex should close and clear the in-progress pen path")
	}
}

func TestPenHandleDragAuthorsSymmetricCubic(t *testing.T) {
	s := newTestScene()
	m := New(s)
	m.SetTool(Pen)

	m.HandlePointer(PointerEvent{Phase: PointerDown, Scene: axisState{Position: geom.Pt(0, 0)}})
	m.HandlePointer(PointerEvent{Phase: PointerUp, Scene: axisState{Position: geom.Pt(0, 0)}})

	m.HandlePointer(PointerEvent{Phase: PointerDown, Scene: axisState{Position: geom.Pt(100, 0)}})
	m.HandlePointer(PointerEvent{Phase: PointerMove, Scene: axisState{Position: geom.Pt(120, 20)}, Client: axisState{Position: geom.Pt(120, 20)}})
	m.HandlePointer(PointerEvent{Phase: PointerUp, Scene: axisState{Position: geom.Pt(120, 20)}})

	m.HandlePointer(PointerEvent{Phase: PointerDown, Scene: axisState{Position: geom.Pt(200, 0)}})
	m.HandlePointer(PointerEvent{Phase: PointerUp, Scene: axisState{Position: geom.Pt(200, 0)}})

	segs := m.penPath.Segments()
	if len(segs) < 2 || segs[1].Type != path.Cubic {
		t.Fatalf("dragging a pen handle before placing the next anchor should author a cubic segment, got %+v", segs)
	}
}

func TestWobbleSmootherDampsTowardRawPosition(t *testing.T) {
	var w WobbleSmoother
	w.HalfLife = 40 * time.Millisecond
	w.Reset(geom.Pt(0, 0), 0)

	got := w.Update(geom.Pt(100, 0), 40*time.Millisecond)
	if got.X <= 0 || got.X >= 100 {
		t.Fatalf("after one half-life the damped point should sit strictly between start and target, got %v", got)
	}
	if got.X < 45 || got.X > 55 {
		t.Fatalf("after exactly one half-life the damped point should be close to the midpoint, got %v", got)
	}
}

func TestWobbleSmootherZeroHalfLifePassesThrough(t *testing.T) {
	var w WobbleSmoother
	w.Reset(geom.Pt(0, 0), 0)
	got := w.Update(geom.Pt(42, 7), 10*time.Millisecond)
	if got != geom.Pt(42, 7) {
		t.Fatalf("zero half-life should disable smoothing entirely, got %v", got)
	}
}

func TestCommitPencilFitsSmoothedSamples(t *testing.T) {
	s := newTestScene()
	m := New(s)
	m.SetTool(Pencil)

	before := len(s.ZOrder())
	m.HandlePointer(PointerEvent{Phase: PointerDown, Scene: axisState{Position: geom.Pt(0, 0)}, Time: 0})
	for i := 1; i <= 20; i++ {
		m.HandlePointer(PointerEvent{Phase: PointerMove, Scene: axisState{Position: geom.Pt(float32(i)*5, 0)}, Time: time.Duration(i) * 5 * time.Millisecond})
	}
	m.HandlePointer(PointerEvent{Phase: PointerUp, Scene: axisState{Position: geom.Pt(100, 0)}, Time: 100 * time.Millisecond})

	after := s.ZOrder()
	if len(after) != before+1 {
		t.Fatalf("committing a pencil stroke should create exactly one new entity, got %d new", len(after)-before)
	}
	e := s.Entity(after[len(after)-1])
	p, ok := e.Path()
	if !ok {
		t.Fatal("committed pencil entity should carry a path")
	}
	if p.SegmentCount() == 0 {
		t.Fatal("committed pencil path should have at least one fitted segment")
	}
}

func approxPtEq(a, b geom.Vec2) bool { return a.Sub(b).Len() < 1e-2 }
