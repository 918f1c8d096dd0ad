package scene

import "github.com/google/uuid"

// GradientStop is one color stop along a gradient ramp (spec.md
// §4.5.2's "gradients texture stores color ramps"). Offset is in
// 0..1, increasing along the ramp.
type GradientStop struct {
	Offset float32
	Color  [4]float32 // RGBA, straight alpha
}

// Gradient is a registered color ramp a Paint can reference by id.
// Its placement (direction for a linear ramp, center/radius for a
// radial one) lives on the Paint, not here, so the same ramp can be
// reused across fills with different directions.
type Gradient struct {
	Stops []GradientStop
}

// CreateGradient registers a new gradient and returns its id, for
// Paint.Gradient to reference.
func (s *Scene) CreateGradient(stops []GradientStop) uuid.UUID {
	if s.gradients == nil {
		s.gradients = make(map[uuid.UUID]Gradient)
	}
	id := uuid.New()
	s.gradients[id] = Gradient{Stops: append([]GradientStop(nil), stops...)}
	return id
}

// Gradient looks up a registered gradient by id.
func (s *Scene) Gradient(id uuid.UUID) (Gradient, bool) {
	g, ok := s.gradients[id]
	return g, ok
}
