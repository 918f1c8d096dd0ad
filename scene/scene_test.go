package scene

import (
	"testing"

	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
)

func TestCreateAndDeleteEntityUndo(t *testing.T) {
	s := New()
	e := s.CreateEntity("box")
	s.History.EndBatch()

	if !s.HasEntity(e.ID()) {
		t.Fatal("entity should exist after creation")
	}

	s.DeleteEntity(e.ID())
	s.History.EndBatch()
	if s.HasEntity(e.ID()) {
		t.Fatal("entity should be gone after delete")
	}

	s.History.Undo()
	if !s.HasEntity(e.ID()) {
		t.Fatal("undo of delete should restore the entity")
	}
	if s.Entity(e.ID()).Tag() != "box" {
		t.Fatalf("restored tag = %q, want box", s.Entity(e.ID()).Tag())
	}

	s.History.Undo()
	if s.HasEntity(e.ID()) {
		t.Fatal("undo of create should remove the entity")
	}
}

func TestCreateElementAndSetPath(t *testing.T) {
	s := New()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 10, 10))
	e := s.CreateElement(p)
	s.History.EndBatch()

	got, ok := e.Path()
	if !ok || got.PointCount() != p.PointCount() {
		t.Fatal("element should carry the seeded path")
	}

	p2 := path.New()
	p2.Rect(geom.RectWH(0, 0, 20, 20))
	e.SetPath(p2)
	s.History.EndBatch()

	got2, _ := e.Path()
	r := got2.BoundingRect()
	if r.Max.X != 20 {
		t.Fatalf("bounding rect after SetPath = %v, want width 20", r)
	}

	s.History.Undo()
	got3, _ := e.Path()
	r3 := got3.BoundingRect()
	if r3.Max.X != 10 {
		t.Fatalf("undo should restore the 10x10 path, got %v", r3)
	}
}

func TestEntityAtHitTest(t *testing.T) {
	s := New()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 100, 100))
	e := s.CreateElement(p)
	e.AddFill(FillComponent{Paint: Paint{Color: [4]float32{1, 0, 0, 1}}})
	s.History.EndBatch()

	id, ok := s.EntityAt(geom.Pt(50, 50), false, 1)
	if !ok || id != e.ID() {
		t.Fatalf("expected to hit %v at center, got %v (%v)", e.ID(), id, ok)
	}

	_, ok = s.EntityAt(geom.Pt(1000, 1000), false, 1)
	if ok {
		t.Fatal("far point should not hit anything")
	}
}

func TestEntitiesInAndGroupSelected(t *testing.T) {
	s := New()
	p1 := path.New()
	p1.Rect(geom.RectWH(0, 0, 10, 10))
	p2 := path.New()
	p2.Rect(geom.RectWH(50, 50, 10, 10))
	a := s.CreateElement(p1)
	b := s.CreateElement(p2)
	s.History.EndBatch()

	found := s.EntitiesIn(geom.RectWH(-10, -10, 200, 200), false)
	if len(found) != 2 {
		t.Fatalf("expected both entities in large rect, got %d", len(found))
	}

	s.Selection.Select(a.ID())
	s.Selection.Select(b.ID())
	group, ok := s.GroupSelected()
	if !ok {
		t.Fatal("group_selected should succeed with a non-empty selection")
	}
	if !group.IsGroup() {
		t.Fatal("new entity should carry a GroupComponent")
	}
	if !s.Selection.Has(group.ID()) || s.Selection.Size() != 1 {
		t.Fatal("selection should contain only the new group after grouping")
	}
}

func TestSelectionSync(t *testing.T) {
	sel := NewSelection()
	a := uuid.New()
	sel.Select(a)
	sel.TempSelect(map[uuid.UUID]SelectionEntry{a: newElementEntry(1, 2)})

	sel.Sync()
	entry, ok := sel.Entry(a)
	if !ok || entry.Type != SelectionEntity {
		t.Fatal("a whole-entity selection should subsume a partial temp selection on sync")
	}
	if !sel.Empty() && sel.Size() != 1 {
		t.Fatalf("expected exactly 1 selected entity after sync, got %d", sel.Size())
	}
}
