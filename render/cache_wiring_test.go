package render

import (
	"testing"
	"time"

	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
	"github.com/graphick-dev/graphick/scene"
)

func TestFrameReusesCachedDrawableWhenUntouched(t *testing.T) {
	dev := newStubDevice()
	r, err := New(dev, stubSources())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	s := scene.New()
	s.Viewport.Resize(geom.IPt(800, 600), geom.IPt(0, 0), 1)
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)
	e.AddFill(scene.FillComponent{Paint: scene.Paint{Color: [4]float32{1, 1, 1, 1}}})
	s.History.EndBatch()

	if err := r.Frame(s, time.Unix(0, 0)); err != nil {
		t.Fatalf("first Frame: %v", err)
	}
	cached, ok := r.cached[e.ID()]
	if !ok {
		t.Fatal("first frame should populate the drawable cache for the visible entity")
	}

	if err := r.Frame(s, time.Unix(0, 1)); err != nil {
		t.Fatalf("second Frame: %v", err)
	}
	after, ok := r.cached[e.ID()]
	if !ok {
		t.Fatal("entity should still be cached after an untouched second frame")
	}
	if len(after.Tiles.Filled) != len(cached.Tiles.Filled) {
		t.Fatalf("cached drawable content changed across an untouched frame: %d != %d", len(after.Tiles.Filled), len(cached.Tiles.Filled))
	}
}

func TestFrameDropsCacheEntryWhenEntityLeavesView(t *testing.T) {
	dev := newStubDevice()
	r, err := New(dev, stubSources())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	s := scene.New()
	s.Viewport.Resize(geom.IPt(800, 600), geom.IPt(0, 0), 1)
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)
	e.AddFill(scene.FillComponent{Paint: scene.Paint{Color: [4]float32{1, 1, 1, 1}}})
	s.History.EndBatch()

	if err := r.Frame(s, time.Unix(0, 0)); err != nil {
		t.Fatalf("first Frame: %v", err)
	}

	e.SetTransform(scene.TransformComponent{Matrix: geom.Identity.Offset(geom.Pt(5000, 0))})
	s.History.EndBatch()

	if err := r.Frame(s, time.Unix(0, 1)); err != nil {
		t.Fatalf("second Frame: %v", err)
	}
	if _, ok := r.cached[e.ID()]; ok {
		t.Fatal("moving an entity off-screen should drop it from the drawable cache")
	}
}

func TestFrameRebuildsDrawableAfterInvalidatingEdit(t *testing.T) {
	dev := newStubDevice()
	r, err := New(dev, stubSources())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	s := scene.New()
	s.Viewport.Resize(geom.IPt(800, 600), geom.IPt(0, 0), 1)
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)
	e.AddFill(scene.FillComponent{Paint: scene.Paint{Color: [4]float32{1, 1, 1, 1}}})
	s.History.EndBatch()

	if err := r.Frame(s, time.Unix(0, 0)); err != nil {
		t.Fatalf("first Frame: %v", err)
	}
	before, ok := r.cached[e.ID()]
	if !ok || len(before.Tiles.Filled) == 0 {
		t.Fatal("expected a populated cache entry after the first frame")
	}

	moved := p.Clone()
	moved.MoveTo(geom.Pt(200, 200))
	moved.LineTo(geom.Pt(260, 200))
	moved.LineTo(geom.Pt(260, 260))
	moved.LineTo(geom.Pt(200, 260))
	moved.Close()
	e.SetPath(moved)
	s.History.EndBatch()

	if err := r.Frame(s, time.Unix(0, 1)); err != nil {
		t.Fatalf("second Frame: %v", err)
	}
	after, ok := r.cached[e.ID()]
	if !ok {
		t.Fatal("entity should still be cached (and rebuilt) after a dirtying edit")
	}
	if after.Tiles.Filled[0].Rect == before.Tiles.Filled[0].Rect {
		t.Fatal("a SetPath edit should invalidate the entity's cache region and force a rebuild with the new geometry")
	}
}

func TestInvalidateAllForcesFullRebuild(t *testing.T) {
	dev := newStubDevice()
	r, err := New(dev, stubSources())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	s := scene.New()
	s.Viewport.Resize(geom.IPt(800, 600), geom.IPt(0, 0), 1)
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)
	e.AddFill(scene.FillComponent{Paint: scene.Paint{Color: [4]float32{1, 1, 1, 1}}})
	s.History.EndBatch()

	if err := r.Frame(s, time.Unix(0, 0)); err != nil {
		t.Fatalf("first Frame: %v", err)
	}
	if len(r.cached) == 0 {
		t.Fatal("expected the first frame to populate the cache")
	}

	s.Cache.InvalidateAll()
	r.InvalidateAll()
	if r.cached != nil {
		t.Fatal("InvalidateAll should drop the renderer's entire drawable cache")
	}

	if err := r.Frame(s, time.Unix(0, 1)); err != nil {
		t.Fatalf("second Frame: %v", err)
	}
	if _, ok := r.cached[e.ID()]; !ok {
		t.Fatal("the entity should be rebuilt and re-cached after InvalidateAll")
	}
}
