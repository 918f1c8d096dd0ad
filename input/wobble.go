package input

import (
	"math"
	"time"

	"github.com/graphick-dev/graphick/geom"
)

// WobbleSmoother damps hand tremor in Pencil samples, restoring
// original_source's wobble_smoother.cpp in a simplified shape: rather
// than that file's windowed weighted-average over a deque of recent
// samples, each incoming sample is exponentially blended toward the
// raw pointer position at a configurable half-life, the same
// "decay toward target" behavior with a single running state instead
// of a sliding window.
type WobbleSmoother struct {
	// HalfLife is the duration after which half of the remaining
	// distance to the raw pointer position has been closed. Zero
	// disables smoothing (every sample passes through unchanged).
	HalfLife time.Duration

	position geom.Vec2
	last     time.Duration
	started  bool
}

// Reset seeds the smoother at position, with no damping applied to the
// very first sample of a new stroke.
func (w *WobbleSmoother) Reset(position geom.Vec2, now time.Duration) {
	w.position = position
	w.last = now
	w.started = true
}

// Update blends position toward the smoother's running state by an
// amount determined by the elapsed time since the last sample and
// HalfLife, returning the damped point.
func (w *WobbleSmoother) Update(position geom.Vec2, now time.Duration) geom.Vec2 {
	if !w.started {
		w.Reset(position, now)
		return position
	}
	if w.HalfLife <= 0 {
		w.position, w.last = position, now
		return position
	}
	dt := now - w.last
	w.last = now
	if dt <= 0 {
		return w.position
	}
	decay := math.Exp(-math.Ln2 * float64(dt) / float64(w.HalfLife))
	t := float32(1 - decay)
	w.position = w.position.Lerp(position, t)
	return w.position
}
