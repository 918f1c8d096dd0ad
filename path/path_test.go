package path

import (
	"math/rand"
	"testing"

	"github.com/graphick-dev/graphick/geom"
)

func approxPt(a, b geom.Vec2) bool { return a.Sub(b).Len() < 1e-3 }

// TestPathPointCountInvariant exercises spec.md §8 property 1:
// points.size() equals the sum of per-command point counts.
func TestPathPointCountInvariant(t *testing.T) {
	p := New()
	p.MoveTo(geom.Pt(0, 0))
	p.LineTo(geom.Pt(10, 0))
	p.QuadraticTo(geom.Pt(15, 5), geom.Pt(10, 10))
	p.CubicTo(geom.Pt(5, 15), geom.Pt(-5, 15), geom.Pt(0, 10))
	p.Close()

	want := 0
	for _, c := range p.commands {
		want += c.PointCount()
	}
	if want != p.PointCount() {
		t.Fatalf("point count %d != expected %d", p.PointCount(), want)
	}
}

func TestPathEmpty(t *testing.T) {
	p := New()
	if !p.Empty() {
		t.Error("fresh path should be empty")
	}
	p.MoveTo(geom.Pt(1, 1))
	if !p.Empty() {
		t.Error("single point path should be empty (no drawable segments)")
	}
	p.LineTo(geom.Pt(2, 2))
	if p.Empty() {
		t.Error("path with a line segment should not be empty")
	}
}

func TestRectBoundingRect(t *testing.T) {
	p := New()
	p.Rect(geom.RectWH(10, 10, 100, 100))
	r := p.BoundingRect()
	if !approxPt(r.Min, geom.Pt(10, 10)) || !approxPt(r.Max, geom.Pt(110, 110)) {
		t.Fatalf("bounding rect = %v, want [10,10]-[110,110]", r)
	}
}

func TestToCubicLineLossless(t *testing.T) {
	p := New()
	p.MoveTo(geom.Pt(0, 0))
	p.LineTo(geom.Pt(10, 10))
	before := p.Segments()[0]
	if err := p.ToCubic(1); err != nil {
		t.Fatal(err)
	}
	after := p.Segments()[0]
	if after.Type != Cubic {
		t.Fatalf("expected cubic, got %v", after.Type)
	}
	for _, tt := range []float32{0, 0.25, 0.5, 0.75, 1} {
		a := before.AsCubic().Eval(tt)
		b := after.AsCubic().Eval(tt)
		if !approxPt(a, b) {
			t.Fatalf("line->cubic not lossless at t=%v: %v != %v", tt, a, b)
		}
	}
}

func TestToCubicQuadraticExact(t *testing.T) {
	p := New()
	p.MoveTo(geom.Pt(0, 0))
	p.QuadraticTo(geom.Pt(5, 10), geom.Pt(10, 0))
	before := p.Segments()[0]
	if err := p.ToCubic(1); err != nil {
		t.Fatal(err)
	}
	after := p.Segments()[0]
	for _, tt := range []float32{0, 0.3, 0.6, 1} {
		a := before.AsCubic().Eval(tt)
		b := after.AsCubic().Eval(tt)
		if !approxPt(a, b) {
			t.Fatalf("quadratic->cubic not exact at t=%v: %v != %v", tt, a, b)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := New()
	p.MoveTo(geom.Pt(1, 2))
	p.LineTo(geom.Pt(3, 4))
	p.QuadraticTo(geom.Pt(5, 6), geom.Pt(7, 8))
	p.CubicTo(geom.Pt(9, 10), geom.Pt(11, 12), geom.Pt(13, 14))
	p.SetInHandle(geom.Pt(-1, -1), true)
	p.SetOutHandle(geom.Pt(99, 99), true)

	data := p.Encode()
	round, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if round.PointCount() != p.PointCount() || round.CommandCount() != p.CommandCount() {
		t.Fatalf("round trip shape mismatch")
	}
	for i := 0; i < p.PointCount(); i++ {
		a, _ := p.Point(i)
		b, _ := round.Point(i)
		if !approxPt(a, b) {
			t.Fatalf("point %d mismatch: %v != %v", i, a, b)
		}
	}
	ih, ok := round.InHandle()
	if !ok || !approxPt(ih, geom.Pt(-1, -1)) {
		t.Fatalf("in-handle not round-tripped: %v %v", ih, ok)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatal("expected error decoding empty input")
	}
	if _, err := Decode([]byte{0, 1, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Fatal("expected error on truncated point data")
	}
}

func TestRemoveKeepShape(t *testing.T) {
	p := New()
	p.MoveTo(geom.Pt(0, 0))
	p.LineTo(geom.Pt(10, 0))
	p.LineTo(geom.Pt(20, 0))
	if err := p.Remove(1, true); err != nil {
		t.Fatal(err)
	}
	if p.PointCount() != 4 {
		t.Fatalf("expected 4 points (start plus one fitted cubic) after removal, got %d", p.PointCount())
	}
}

func TestSplitSegment(t *testing.T) {
	p := New()
	p.MoveTo(geom.Pt(0, 0))
	p.LineTo(geom.Pt(10, 0))
	if err := p.Split(0, 0.5); err != nil {
		t.Fatal(err)
	}
	if p.SegmentCount() != 2 {
		t.Fatalf("expected 2 segments after split, got %d", p.SegmentCount())
	}
	mid, _ := p.Point(1)
	if !approxPt(mid, geom.Pt(5, 0)) {
		t.Fatalf("split point = %v, want {5 0}", mid)
	}
}

func TestIsPointInsidePathFill(t *testing.T) {
	p := New()
	p.Rect(geom.RectWH(0, 0, 100, 100))
	if !p.IsPointInsidePath(geom.Pt(50, 50), true, false, geom.Identity, 1, 1, 0) {
		t.Error("center of rect should be inside fill")
	}
	if p.IsPointInsidePath(geom.Pt(500, 500), true, false, geom.Identity, 1, 1, 0) {
		t.Error("far point should not be inside fill")
	}
}

func TestIntersectsRect(t *testing.T) {
	p := New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	if !p.Intersects(geom.RectWH(-10, -10, 200, 200), geom.Identity, nil) {
		t.Error("large rect should intersect small rect path")
	}
	if p.Intersects(geom.RectWH(1000, 1000, 10, 10), geom.Identity, nil) {
		t.Error("distant rect should not intersect")
	}
}

// TestToQuadraticsEndpointsPreserved exercises the invariant that ToQuadratics
// never loses the path's endpoints, used as a baseline sanity check
// alongside geom's tolerance property test.
func TestToQuadraticsEndpointsPreserved(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := New()
	p.MoveTo(geom.Pt(0, 0))
	for i := 0; i < 5; i++ {
		p.CubicTo(
			geom.Pt(rng.Float32()*100, rng.Float32()*100),
			geom.Pt(rng.Float32()*100, rng.Float32()*100),
			geom.Pt(rng.Float32()*100, rng.Float32()*100),
		)
	}
	qp := p.ToQuadratics(0.5)
	if len(qp.Segments) == 0 {
		t.Fatal("expected quadratic segments")
	}
	last, _ := p.LastPoint()
	gotLast := qp.Segments[len(qp.Segments)-1].P2
	if !approxPt(last, gotLast) {
		t.Fatalf("last point mismatch: %v != %v", gotLast, last)
	}
}
