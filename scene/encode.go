package scene

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
)

// ErrMalformed is returned when an entity snapshot fails to decode
// (spec.md §7: malformed binary input rejects the action without
// mutating anything).
var ErrMalformed = errors.New("scene: malformed entity encoding")

// component presence flags, packed into a single byte.
const (
	hasCategory byte = 1 << iota
	hasPath
	hasTransform
	hasFill
	hasStroke
	hasGroup
	hasLayer
	hasArtboard
)

// snapshot is the full set of components an entity may carry, used as
// the payload of a whole-entity AddOrRemove history action.
type snapshot struct {
	id   uuid.UUID
	tag  string
	flags byte

	category  CategoryComponent
	pathBytes []byte
	transform TransformComponent
	fill      FillComponent
	stroke    StrokeComponent
	group     GroupComponent
	layer     LayerComponent
	artboard  ArtboardComponent
}

func (sc *Scene) snapshotEntity(id uuid.UUID) snapshot {
	s := snapshot{id: id, tag: sc.reg.tags[id].Tag}
	if c, ok := sc.reg.categories[id]; ok {
		s.flags |= hasCategory
		s.category = c
	}
	if c, ok := sc.reg.paths[id]; ok && c.Path != nil {
		s.flags |= hasPath
		s.pathBytes = c.Path.Encode()
	}
	if c, ok := sc.reg.transforms[id]; ok {
		s.flags |= hasTransform
		s.transform = c
	}
	if c, ok := sc.reg.fills[id]; ok {
		s.flags |= hasFill
		s.fill = c
	}
	if c, ok := sc.reg.strokes[id]; ok {
		s.flags |= hasStroke
		s.stroke = c
	}
	if c, ok := sc.reg.groups[id]; ok {
		s.flags |= hasGroup
		s.group = c
	}
	if c, ok := sc.reg.layers[id]; ok {
		s.flags |= hasLayer
		s.layer = c
	}
	if c, ok := sc.reg.artboards[id]; ok {
		s.flags |= hasArtboard
		s.artboard = c
	}
	return s
}

// restoreEntity installs every component recorded in s into the
// registry, creating the entity's IDComponent and z-order slot if
// they are not already present.
func (sc *Scene) restoreEntity(s snapshot) {
	if _, exists := sc.reg.ids[s.id]; !exists {
		sc.reg.ids[s.id] = IDComponent{ID: s.id}
		sc.order = append(sc.order, s.id)
	}
	sc.reg.tags[s.id] = TagComponent{Tag: s.tag}
	if s.flags&hasCategory != 0 {
		sc.reg.categories[s.id] = s.category
	}
	if s.flags&hasPath != 0 {
		if p, err := path.Decode(s.pathBytes); err == nil {
			sc.reg.paths[s.id] = PathComponent{Path: p}
		}
	}
	if s.flags&hasTransform != 0 {
		sc.reg.transforms[s.id] = s.transform
	}
	if s.flags&hasFill != 0 {
		sc.reg.fills[s.id] = s.fill
	}
	if s.flags&hasStroke != 0 {
		sc.reg.strokes[s.id] = s.stroke
	}
	if s.flags&hasGroup != 0 {
		sc.reg.groups[s.id] = s.group
	}
	if s.flags&hasLayer != 0 {
		sc.reg.layers[s.id] = s.layer
	}
	if s.flags&hasArtboard != 0 {
		sc.reg.artboards[s.id] = s.artboard
	}
}

// encode serializes the snapshot to a self-contained byte slice
// suitable for storage in a history.AddOrRemove action.
func (s snapshot) encode() []byte {
	buf := []byte{}
	buf = append(buf, s.id[:]...)
	buf = appendString(buf, s.tag)
	buf = append(buf, s.flags)
	if s.flags&hasCategory != 0 {
		buf = appendU32(buf, uint32(s.category.Mask))
	}
	if s.flags&hasPath != 0 {
		buf = appendBytes(buf, s.pathBytes)
	}
	if s.flags&hasTransform != 0 {
		buf = append(buf, s.transform.Encode()...)
	}
	if s.flags&hasFill != 0 {
		buf = appendPaint(buf, s.fill.Paint)
	}
	if s.flags&hasStroke != 0 {
		buf = appendPaint(buf, s.stroke.Paint)
		buf = appendF32(buf, s.stroke.Width)
		buf = append(buf, byte(s.stroke.Cap), byte(s.stroke.Join))
		buf = appendF32(buf, s.stroke.MiterLimit)
	}
	if s.flags&hasGroup != 0 {
		buf = appendUUIDs(buf, s.group.Children)
	}
	if s.flags&hasLayer != 0 {
		buf = appendUUIDs(buf, s.layer.Children)
		buf = append(buf, byte(s.layer.BlendMode))
		buf = appendF32(buf, s.layer.Opacity)
	}
	if s.flags&hasArtboard != 0 {
		for _, c := range s.artboard.Color {
			buf = appendF32(buf, c)
		}
		buf = appendF32(buf, s.artboard.Size.X)
		buf = appendF32(buf, s.artboard.Size.Y)
	}
	return buf
}

func decodeSnapshot(data []byte) (snapshot, error) {
	var s snapshot
	r := &reader{data: data}
	var ok bool
	s.id, ok = r.uuid()
	if !ok {
		return s, ErrMalformed
	}
	s.tag, ok = r.str()
	if !ok {
		return s, ErrMalformed
	}
	s.flags, ok = r.byte()
	if !ok {
		return s, ErrMalformed
	}
	if s.flags&hasCategory != 0 {
		v, ok := r.u32()
		if !ok {
			return s, ErrMalformed
		}
		s.category = CategoryComponent{Mask: Category(v)}
	}
	if s.flags&hasPath != 0 {
		s.pathBytes, ok = r.bytes()
		if !ok {
			return s, ErrMalformed
		}
	}
	if s.flags&hasTransform != 0 {
		b, ok := r.take(24)
		if !ok {
			return s, ErrMalformed
		}
		t, ok := DecodeTransform(b)
		if !ok {
			return s, ErrMalformed
		}
		s.transform = t
	}
	if s.flags&hasFill != 0 {
		p, ok := r.paint()
		if !ok {
			return s, ErrMalformed
		}
		s.fill = FillComponent{Paint: p}
	}
	if s.flags&hasStroke != 0 {
		p, ok := r.paint()
		if !ok {
			return s, ErrMalformed
		}
		width, ok := r.f32()
		if !ok {
			return s, ErrMalformed
		}
		cap, ok := r.byte()
		if !ok {
			return s, ErrMalformed
		}
		join, ok := r.byte()
		if !ok {
			return s, ErrMalformed
		}
		miter, ok := r.f32()
		if !ok {
			return s, ErrMalformed
		}
		s.stroke = StrokeComponent{Paint: p, Width: width, Cap: Cap(cap), Join: Join(join), MiterLimit: miter}
	}
	if s.flags&hasGroup != 0 {
		ids, ok := r.uuids()
		if !ok {
			return s, ErrMalformed
		}
		s.group = GroupComponent{Children: ids}
	}
	if s.flags&hasLayer != 0 {
		ids, ok := r.uuids()
		if !ok {
			return s, ErrMalformed
		}
		blend, ok := r.byte()
		if !ok {
			return s, ErrMalformed
		}
		opacity, ok := r.f32()
		if !ok {
			return s, ErrMalformed
		}
		s.layer = LayerComponent{Children: ids, BlendMode: BlendMode(blend), Opacity: opacity}
	}
	if s.flags&hasArtboard != 0 {
		var color [4]float32
		for i := range color {
			v, ok := r.f32()
			if !ok {
				return s, ErrMalformed
			}
			color[i] = v
		}
		sx, ok := r.f32()
		if !ok {
			return s, ErrMalformed
		}
		sy, ok := r.f32()
		if !ok {
			return s, ErrMalformed
		}
		s.artboard = ArtboardComponent{Color: color, Size: geom.Pt(sx, sy)}
	}
	return s, nil
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendF32(b []byte, v float32) []byte {
	return appendU32(b, math.Float32bits(v))
}

func appendString(b []byte, s string) []byte {
	b = appendU32(b, uint32(len(s)))
	return append(b, s...)
}

func appendBytes(b []byte, data []byte) []byte {
	b = appendU32(b, uint32(len(data)))
	return append(b, data...)
}

func appendUUIDs(b []byte, ids []uuid.UUID) []byte {
	b = appendU32(b, uint32(len(ids)))
	for _, id := range ids {
		b = append(b, id[:]...)
	}
	return b
}

func appendPaint(b []byte, p Paint) []byte {
	b = append(b, byte(p.Kind))
	for _, c := range p.Color {
		b = appendF32(b, c)
	}
	b = append(b, p.Gradient[:]...)
	b = appendF32(b, p.GradientStart.X)
	b = appendF32(b, p.GradientStart.Y)
	b = appendF32(b, p.GradientEnd.X)
	b = appendF32(b, p.GradientEnd.Y)
	return b
}

// reader is a tiny cursor over a byte slice, used only by decodeSnapshot.
type reader struct {
	data []byte
	off  int
}

func (r *reader) take(n int) ([]byte, bool) {
	if r.off+n > len(r.data) || n < 0 {
		return nil, false
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, true
}

func (r *reader) byte() (byte, bool) {
	b, ok := r.take(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (r *reader) u32() (uint32, bool) {
	b, ok := r.take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (r *reader) f32() (float32, bool) {
	v, ok := r.u32()
	if !ok {
		return 0, false
	}
	return math.Float32frombits(v), true
}

func (r *reader) uuid() (uuid.UUID, bool) {
	b, ok := r.take(16)
	if !ok {
		return uuid.Nil, false
	}
	var id uuid.UUID
	copy(id[:], b)
	return id, true
}

func (r *reader) str() (string, bool) {
	n, ok := r.u32()
	if !ok {
		return "", false
	}
	b, ok := r.take(int(n))
	if !ok {
		return "", false
	}
	return string(b), true
}

func (r *reader) bytes() ([]byte, bool) {
	n, ok := r.u32()
	if !ok {
		return nil, false
	}
	b, ok := r.take(int(n))
	if !ok {
		return nil, false
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true
}

func (r *reader) uuids() ([]uuid.UUID, bool) {
	n, ok := r.u32()
	if !ok {
		return nil, false
	}
	ids := make([]uuid.UUID, n)
	for i := range ids {
		id, ok := r.uuid()
		if !ok {
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

func (r *reader) paint() (Paint, bool) {
	var p Paint
	kind, ok := r.byte()
	if !ok {
		return p, false
	}
	p.Kind = PaintKind(kind)
	for i := range p.Color {
		v, ok := r.f32()
		if !ok {
			return p, false
		}
		p.Color[i] = v
	}
	id, ok := r.uuid()
	if !ok {
		return p, false
	}
	p.Gradient = id
	sx, ok := r.f32()
	if !ok {
		return p, false
	}
	sy, ok := r.f32()
	if !ok {
		return p, false
	}
	ex, ok := r.f32()
	if !ok {
		return p, false
	}
	ey, ok := r.f32()
	if !ok {
		return p, false
	}
	p.GradientStart = geom.Pt(sx, sy)
	p.GradientEnd = geom.Pt(ex, ey)
	return p, true
}
