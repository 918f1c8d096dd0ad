package scene

import (
	"testing"

	"github.com/graphick-dev/graphick/geom"
)

// TestViewportRoundTrip exercises spec.md §8 property 6:
// scene_to_client(client_to_scene(p)) == p to within 1e-4.
func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport()
	v.Resize(geom.IPt(800, 600), geom.IPt(10, 10), 2)
	v.ZoomTo(2.5)
	v.Move(geom.Pt(37, -12))

	pts := []geom.Vec2{geom.Pt(0, 0), geom.Pt(800, 600), geom.Pt(400, 300)}
	for _, p := range pts {
		scene := v.ClientToScene(p)
		back := v.SceneToClient(scene)
		if back.Sub(p).Len() > 1e-4 {
			t.Fatalf("round trip for %v: got %v, want ~%v", p, back, p)
		}
	}
}

// TestZoomTowardKeepsOriginFixed exercises scenario S4: zooming
// centered on a point leaves that point's scene-space mapping fixed.
func TestZoomTowardKeepsOriginFixed(t *testing.T) {
	v := NewViewport()
	v.Resize(geom.IPt(800, 600), geom.IPt(0, 0), 1)
	origin := geom.Pt(400, 300)
	before := v.ClientToScene(origin)

	v.ZoomToward(5.0, origin)

	after := v.ClientToScene(origin)
	if after.Sub(before).Len() > 1e-3 {
		t.Fatalf("zoom toward origin moved scene point: %v != %v", before, after)
	}
	if v.Zoom() != 5.0 {
		t.Fatalf("zoom = %v, want 5.0", v.Zoom())
	}
}

func TestZoomClampedAndRounded(t *testing.T) {
	v := NewViewport()
	v.ZoomTo(1000)
	if v.Zoom() != ZoomMax {
		t.Fatalf("zoom should clamp to ZoomMax, got %v", v.Zoom())
	}
	v.ZoomTo(0.0001)
	if v.Zoom() != ZoomMin {
		t.Fatalf("zoom should clamp to ZoomMin, got %v", v.Zoom())
	}
	v.ZoomTo(1.23456789)
	if v.Zoom() != 1.2346 {
		t.Fatalf("zoom should round to 4 decimals, got %v", v.Zoom())
	}
}

func TestCacheInvalidateRect(t *testing.T) {
	c := NewCache()
	c.SetGridRect(geom.RectWH(0, 0, 100, 100), geom.IPt(10, 10))
	c.InvalidateRect(geom.RectWH(15, 15, 20, 20))

	rects := c.DrainInvalidRects()
	if len(rects) == 0 {
		t.Fatal("expected at least one invalidated cell")
	}
	// Invalidating the same rect again after a drain should not
	// re-report already-invalid cells.
	c.InvalidateRect(geom.RectWH(15, 15, 20, 20))
	if len(c.DrainInvalidRects()) != 0 {
		t.Fatal("already-invalid cells should not be reported twice")
	}
}
