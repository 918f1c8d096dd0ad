package scene

import (
	"testing"

	"github.com/google/uuid"
)

func TestCreateGradientRoundtrips(t *testing.T) {
	s := New()
	stops := []GradientStop{
		{Offset: 0, Color: [4]float32{1, 0, 0, 1}},
		{Offset: 1, Color: [4]float32{0, 0, 1, 1}},
	}
	id := s.CreateGradient(stops)

	g, ok := s.Gradient(id)
	if !ok {
		t.Fatal("expected the registered gradient to be found")
	}
	if len(g.Stops) != 2 || g.Stops[0].Color != stops[0].Color {
		t.Fatalf("gradient stops = %v, want %v", g.Stops, stops)
	}
}

func TestGradientLookupMissingID(t *testing.T) {
	s := New()
	if _, ok := s.Gradient(uuid.New()); ok {
		t.Fatal("expected no gradient for an unregistered id")
	}
}
