// Package input translates raw host events into scene mutations,
// dispatching through a tool state machine (spec.md §4.3) and the
// selection manipulator (spec.md §4.4).
package input

import (
	"time"

	"github.com/graphick-dev/graphick/geom"
)

// PointerType mirrors the device kinds spec.md §4.3 names.
type PointerType uint8

const (
	Mouse PointerType = iota
	PointerPen
	Touch
)

// Button is a mouse button, matching io/pointer's Buttons bitmask
// shape but as a single value since spec.md §4.3 only distinguishes
// one active button per gesture.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerPhase is the lifecycle stage of a pointer event, grounded on
// io/pointer.Type (Press/Release/Move/Cancel), with Enter/Leave added
// for spec.md §4.3's "pointer down/move/up/enter/leave" set.
type PointerPhase uint8

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
	PointerEnter
	PointerLeave
	PointerCancel
)

// axisState carries a pointer-space value along with its running
// delta and total movement since the gesture began.
type axisState struct {
	Position, Origin, Movement, Delta geom.Vec2
}

// PointerEvent is one host pointer event, carrying both client and
// scene-space coordinates (spec.md §4.3's pointer state variables).
type PointerEvent struct {
	Phase    PointerPhase
	Client   axisState
	Scene    axisState
	Down     bool
	Inside   bool
	Button   Button
	Type     PointerType
	Pressure float32
	Scroll   geom.Vec2
	Time     time.Duration
	Modifiers
}

// Modifiers is the set of active modifier keys, grounded on
// io/key.Modifiers's bitmask shape.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSpace
)

func (m Modifiers) Has(want Modifiers) bool { return m&want == want }

// KeyState mirrors io/key.State.
type KeyState uint8

const (
	KeyPress KeyState = iota
	KeyRelease
)

// KeyEvent is one host keyboard event.
type KeyEvent struct {
	Name      string
	State     KeyState
	Modifiers Modifiers
}

// HoverKind enumerates what a point is currently hovering, per
// spec.md §4.3's hover state shape.
type HoverKind uint8

const (
	HoverNone HoverKind = iota
	HoverEntity
	HoverElement
	HoverVertex
	HoverHandle
	HoverSegment
)

// Hover is the current hover target.
type Hover struct {
	Kind    HoverKind
	Entity  [16]byte
	Segment int
	Vertex  int
	Handle  int
}
