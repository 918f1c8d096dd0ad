package input

import (
	"math"

	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/scene"
)

// ManipulatorState is the handle-based scale/rotate UI's state machine
// (spec.md §4.4).
type ManipulatorState uint8

const (
	Idle ManipulatorState = iota
	HoveredHandle
	Scaling
	Rotating
)

// Axial constrains a scale gesture to one axis, or leaves it free.
type Axial uint8

const (
	AxialFree Axial = iota
	AxialX
	AxialY
)

// Handle identifies one of the manipulator's 8 scale + 8 rotate grab
// points around the selection's bounding rectangle.
type Handle uint8

const (
	HandleN Handle = iota
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleNW
)

func (h Handle) isCorner() bool {
	return h == HandleNE || h == HandleSE || h == HandleSW || h == HandleNW
}

// Manipulator drives the selection bounding rectangle's handle UI.
type Manipulator struct {
	State ManipulatorState
	Axial Axial

	bounds geom.Rect
	pivot  geom.Vec2

	startHandle geom.Vec2
	original    map[uuid.UUID]geom.Affine2D

	rotateStart float32
}

// SetBounds recomputes the manipulator's frame from the current
// selection bounding rectangle, local to the manipulator's own space
// (spec.md §4.4: "hit-testing is in manipulator-local space").
func (mp *Manipulator) SetBounds(bounds geom.Rect) {
	mp.bounds = bounds
	mp.pivot = bounds.Center()
}

// handlePosition returns the local-space position of a scale handle.
func (mp *Manipulator) handlePosition(h Handle) geom.Vec2 {
	b := mp.bounds
	switch h {
	case HandleN:
		return geom.Pt(b.Center().X, b.Min.Y)
	case HandleNE:
		return geom.Pt(b.Max.X, b.Min.Y)
	case HandleE:
		return geom.Pt(b.Max.X, b.Center().Y)
	case HandleSE:
		return b.Max
	case HandleS:
		return geom.Pt(b.Center().X, b.Max.Y)
	case HandleSW:
		return geom.Pt(b.Min.X, b.Max.Y)
	case HandleW:
		return geom.Pt(b.Min.X, b.Center().Y)
	case HandleNW:
		return b.Min
	}
	return mp.pivot
}

// HitTest finds the handle under a local-space point, given a pick
// radius threshold; corner rotate zones use double the radius, per
// spec.md §4.4.
func (mp *Manipulator) HitTest(point geom.Vec2, threshold float32) (Handle, bool, bool) {
	for h := HandleN; h <= HandleNW; h++ {
		p := mp.handlePosition(h)
		r := threshold
		if h.isCorner() {
			r *= 2
		}
		if point.Sub(p).Len() <= r {
			return h, false, true
		}
	}
	for h := HandleN; h <= HandleNW; h++ {
		p := mp.handlePosition(h)
		r := threshold
		if h.isCorner() {
			r *= 2
		}
		ring := point.Sub(p).Len()
		if ring > r && ring <= r*2 {
			return h, true, true
		}
	}
	return 0, false, false
}

// BeginScale starts a scale gesture pivoted at the selection center,
// or at the opposite handle if alt is not held (spec.md §4.4: "Alt
// pivots around the center").
func (mp *Manipulator) BeginScale(h Handle, alt bool, original map[uuid.UUID]geom.Affine2D) {
	mp.State = Scaling
	mp.startHandle = mp.handlePosition(h)
	mp.original = original
	if alt {
		mp.pivot = mp.bounds.Center()
	} else {
		mp.pivot = mp.handlePosition(opposite(h))
	}
	switch h {
	case HandleN, HandleS:
		mp.Axial = AxialY
	case HandleE, HandleW:
		mp.Axial = AxialX
	default:
		mp.Axial = AxialFree
	}
}

func opposite(h Handle) Handle { return (h + 4) % 8 }

// Scale computes the per-axis scale magnitude for pointer, per
// spec.md §4.4: "magnitude = (pointer - pivot)/(start_handle -
// pivot)"; shift snaps to a uniform scale on both axes.
func (mp *Manipulator) Scale(pointer geom.Vec2, shift bool) (sx, sy float32) {
	denom := mp.startHandle.Sub(mp.pivot)
	num := pointer.Sub(mp.pivot)
	sx, sy = 1, 1
	if mp.Axial != AxialY && denom.X != 0 {
		sx = num.X / denom.X
	}
	if mp.Axial != AxialX && denom.Y != 0 {
		sy = num.Y / denom.Y
	}
	if shift {
		u := sx
		if mp.Axial == AxialY {
			u = sy
		} else if mp.Axial == AxialFree && absf(sy) > absf(sx) {
			u = sy
		}
		sx, sy = u, u
	}
	return sx, sy
}

// ApplyScale transforms each selected entity's cached original matrix
// by the scale gesture (spec.md §4.4: "Apply by transforming each
// selected entity's cached original matrix").
func (mp *Manipulator) ApplyScale(scn *scene.Scene, sx, sy float32) {
	for id, original := range mp.original {
		m := original.Scale(mp.pivot, geom.Pt(sx, sy))
		scn.Entity(id).SetTransform(scene.TransformComponent{Matrix: m})
	}
}

// BeginRotate starts a rotate gesture pivoted at the local center
// (spec.md §4.4: "pivot is local center").
func (mp *Manipulator) BeginRotate(h Handle, original map[uuid.UUID]geom.Affine2D) {
	mp.State = Rotating
	mp.original = original
	start := mp.handlePosition(h).Sub(mp.pivot)
	mp.rotateStart = float32(math.Atan2(float64(start.Y), float64(start.X)))
}

// Rotate computes the rotation angle for pointer relative to the
// gesture start, per spec.md §4.4: "angle between (start_handle -
// center) and (pointer - center)"; shift snaps to 15 degree steps.
func (mp *Manipulator) Rotate(pointer geom.Vec2, shift bool) float32 {
	cur := pointer.Sub(mp.pivot)
	angle := float32(math.Atan2(float64(cur.Y), float64(cur.X))) - mp.rotateStart
	if shift {
		const step = float32(math.Pi / 12) // 15 degrees
		angle = roundf(angle/step) * step
	}
	return angle
}

// ApplyRotate transforms each selected entity's cached original
// matrix by the rotation.
func (mp *Manipulator) ApplyRotate(scn *scene.Scene, angle float32) {
	for id, original := range mp.original {
		m := original.Rotate(mp.pivot, angle)
		scn.Entity(id).SetTransform(scene.TransformComponent{Matrix: m})
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func roundf(v float32) float32 { return float32(math.Round(float64(v))) }
