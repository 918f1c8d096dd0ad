package path

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/graphick-dev/graphick/geom"
)

// ErrMalformed is returned by Decode when the input is too short or
// internally inconsistent (spec.md §7: "Malformed binary input ...
// rejects the action; no mutation occurs").
var ErrMalformed = errors.New("path: malformed encoding")

// Encode serializes the path to the lossless binary format used by
// history actions and scene persistence (spec.md §6): a little-endian,
// length-delimited stream with fixed-width scalars. Layout:
//
//	u8      flags (bit0=closed, bit1=hasInHandle, bit2=hasOutHandle)
//	u32     point count
//	point*  8 bytes each (f32 x, f32 y)
//	u32     command count
//	u8*     one byte per command
//	[f32 f32]  in-handle, if hasInHandle
//	[f32 f32]  out-handle, if hasOutHandle
func (p *Path) Encode() []byte {
	size := 1 + 4 + len(p.points)*8 + 4 + len(p.commands)
	if p.hasInHandle {
		size += 8
	}
	if p.hasOutHandle {
		size += 8
	}
	buf := make([]byte, size)
	off := 0

	var flags byte
	if p.closed {
		flags |= 1
	}
	if p.hasInHandle {
		flags |= 2
	}
	if p.hasOutHandle {
		flags |= 4
	}
	buf[off] = flags
	off++

	binary.LittleEndian.PutUint32(buf[off:], uint32(len(p.points)))
	off += 4
	for _, pt := range p.points {
		putFloat32(buf[off:], pt.X)
		putFloat32(buf[off+4:], pt.Y)
		off += 8
	}

	binary.LittleEndian.PutUint32(buf[off:], uint32(len(p.commands)))
	off += 4
	for _, c := range p.commands {
		buf[off] = byte(c)
		off++
	}

	if p.hasInHandle {
		putFloat32(buf[off:], p.inHandle.X)
		putFloat32(buf[off+4:], p.inHandle.Y)
		off += 8
	}
	if p.hasOutHandle {
		putFloat32(buf[off:], p.outHandle.X)
		putFloat32(buf[off+4:], p.outHandle.Y)
		off += 8
	}
	return buf
}

// Decode parses a path previously produced by Encode. It rejects
// malformed input without partially mutating the receiver.
func Decode(data []byte) (*Path, error) {
	if len(data) < 9 {
		return nil, ErrMalformed
	}
	off := 0
	flags := data[off]
	off++
	closed := flags&1 != 0
	hasIn := flags&2 != 0
	hasOut := flags&4 != 0

	if off+4 > len(data) {
		return nil, ErrMalformed
	}
	npoints := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if npoints < 0 || off+npoints*8 > len(data) {
		return nil, ErrMalformed
	}
	points := make([]geom.Vec2, npoints)
	for i := 0; i < npoints; i++ {
		points[i] = geom.Pt(getFloat32(data[off:]), getFloat32(data[off+4:]))
		off += 8
	}

	if off+4 > len(data) {
		return nil, ErrMalformed
	}
	ncommands := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if ncommands < 0 || off+ncommands > len(data) {
		return nil, ErrMalformed
	}
	commands := make([]Command, ncommands)
	want := 0
	for i := 0; i < ncommands; i++ {
		c := Command(data[off])
		if c > Cubic {
			return nil, ErrMalformed
		}
		if i == 0 && c != Move {
			return nil, ErrMalformed
		}
		commands[i] = c
		want += c.PointCount()
		off++
	}
	if want != npoints {
		return nil, ErrMalformed
	}

	p := &Path{points: points, commands: commands, closed: closed}
	if hasIn {
		if off+8 > len(data) {
			return nil, ErrMalformed
		}
		p.inHandle = geom.Pt(getFloat32(data[off:]), getFloat32(data[off+4:]))
		p.hasInHandle = true
		off += 8
	}
	if hasOut {
		if off+8 > len(data) {
			return nil, ErrMalformed
		}
		p.outHandle = geom.Pt(getFloat32(data[off:]), getFloat32(data[off+4:]))
		p.hasOutHandle = true
		off += 8
	}
	return p, nil
}

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func getFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
