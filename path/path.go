// Package path implements the ordered point/command-stream path data
// structure from spec.md §3.2: construction, segment iteration, editing
// primitives, geometric queries, quadratic conversion and lossless
// binary encoding. Its vertex layout generalizes a GPU vertex blob
// design into an editable retained path, and follows the Design Notes'
// allowed alternative to 2-bit packing: a `[]Command` slice, "for
// clarity at a modest memory cost".
package path

import (
	"errors"

	"github.com/graphick-dev/graphick/geom"
)

// Command is one of the four path command kinds. Move always starts a
// (sub)path; Line/Quadratic/Cubic extend it, consuming 1/2/3 points
// respectively (the previous point supplies the implicit segment start).
type Command uint8

const (
	Move Command = iota
	Line
	Quadratic
	Cubic
)

// PointCount returns the number of points the command consumes from the
// point vector.
func (c Command) PointCount() int {
	switch c {
	case Move, Line:
		return 1
	case Quadratic:
		return 2
	case Cubic:
		return 3
	default:
		return 0
	}
}

// Sentinel indices for the two optional "dangling handle" points used
// while an endpoint is being authored before its first/last segment
// exists (spec.md §3.2). These are disjoint from any real point index,
// which is always >= 0.
const (
	NoIndex        = -1
	InHandleIndex  = -2
	OutHandleIndex = -3
)

// ErrIndexOutOfRange is returned by mutating operations given an index
// outside the valid range (spec.md §4.1 "Failure").
var ErrIndexOutOfRange = errors.New("path: index out of range")

// Path is an ordered sequence of points plus a packed command stream,
// per spec.md §3.2.
type Path struct {
	points   []geom.Vec2
	commands []Command

	// inHandle/outHandle are set while an endpoint is being authored
	// (e.g. by the Pen tool) before the corresponding segment exists.
	inHandle, outHandle       geom.Vec2
	hasInHandle, hasOutHandle bool

	closed bool
}

// New returns an empty path.
func New() *Path {
	return &Path{}
}

// Clone returns a deep copy of p.
func (p *Path) Clone() *Path {
	cp := &Path{
		points:       append([]geom.Vec2(nil), p.points...),
		commands:     append([]Command(nil), p.commands...),
		inHandle:     p.inHandle,
		outHandle:    p.outHandle,
		hasInHandle:  p.hasInHandle,
		hasOutHandle: p.hasOutHandle,
		closed:       p.closed,
	}
	return cp
}

// FromCommands builds a path directly from a command stream and point
// vector, validating that the point count matches the commands (spec.md
// §8 property 1) and that the first command, if any, is Move.
func FromCommands(commands []Command, points []geom.Vec2, closed bool) (*Path, error) {
	want := 0
	for i, c := range commands {
		if i == 0 && c != Move {
			return nil, errors.New("path: first command must be Move")
		}
		want += c.PointCount()
	}
	if want != len(points) {
		return nil, errors.New("path: point count does not match command stream")
	}
	return &Path{
		commands: append([]Command(nil), commands...),
		points:   append([]geom.Vec2(nil), points...),
		closed:   closed,
	}, nil
}

// Empty reports whether the path has no drawable segments (spec.md
// §3.2: "a non-vacant path with zero non-Move commands is a single
// point; empty() means no drawable segments").
func (p *Path) Empty() bool {
	for _, c := range p.commands {
		if c != Move {
			return false
		}
	}
	return true
}

// Closed reports whether the path is closed.
func (p *Path) Closed() bool { return p.closed }

// PointCount returns the number of points in the path (not counting the
// dangling handles).
func (p *Path) PointCount() int { return len(p.points) }

// CommandCount returns the number of commands in the path.
func (p *Path) CommandCount() int { return len(p.commands) }

// Point returns the point at index i.
func (p *Path) Point(i int) (geom.Vec2, error) {
	if i < 0 || i >= len(p.points) {
		return geom.Vec2{}, ErrIndexOutOfRange
	}
	return p.points[i], nil
}

// Command returns the command at index i.
func (p *Path) Command(i int) (Command, error) {
	if i < 0 || i >= len(p.commands) {
		return 0, ErrIndexOutOfRange
	}
	return p.commands[i], nil
}

// InHandle returns the dangling in-handle point and whether it is set.
func (p *Path) InHandle() (geom.Vec2, bool) { return p.inHandle, p.hasInHandle }

// OutHandle returns the dangling out-handle point and whether it is
// set.
func (p *Path) OutHandle() (geom.Vec2, bool) { return p.outHandle, p.hasOutHandle }

// SetInHandle sets or clears the dangling in-handle.
func (p *Path) SetInHandle(pt geom.Vec2, set bool) {
	p.inHandle, p.hasInHandle = pt, set
}

// SetOutHandle sets or clears the dangling out-handle.
func (p *Path) SetOutHandle(pt geom.Vec2, set bool) {
	p.outHandle, p.hasOutHandle = pt, set
}

// pointOffsetForCommand returns the index into p.points of the first
// point consumed by commands[ci].
func (p *Path) pointOffsetForCommand(ci int) int {
	off := 0
	for i := 0; i < ci; i++ {
		off += p.commands[i].PointCount()
	}
	return off
}

// LastPoint returns the path's final point (the current pen position),
// and false if the path has no points yet.
func (p *Path) LastPoint() (geom.Vec2, bool) {
	if len(p.points) == 0 {
		return geom.Vec2{}, false
	}
	return p.points[len(p.points)-1], true
}
