package scene

import (
	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/history"
	"github.com/graphick-dev/graphick/path"
)

// Entity is a lightweight accessor bound to a live id within a scene,
// mirroring the original's "(entity, scene, data*)" view (spec.md
// §3.3). It carries no state of its own beyond the id and a scene
// pointer; every mutating method routes through the scene's History so
// edits are undoable.
type Entity struct {
	id    uuid.UUID
	scene *Scene
}

// ID returns the entity's stable identifier.
func (e Entity) ID() uuid.UUID { return e.id }

// Valid reports whether the entity still exists in its scene.
func (e Entity) Valid() bool { return e.scene != nil && e.scene.HasEntity(e.id) }

// Tag returns the entity's label, or a generated placeholder if none
// was set.
func (e Entity) Tag() string {
	if t, ok := e.scene.reg.tags[e.id]; ok && t.Tag != "" {
		return t.Tag
	}
	return "Entity " + e.id.String()[:8]
}

// IsInCategory reports whether the entity's CategoryComponent includes cat.
func (e Entity) IsInCategory(cat Category) bool {
	c, ok := e.scene.reg.categories[e.id]
	return ok && c.Is(cat)
}

// IsElement reports whether the entity carries a PathComponent —
// "all entities have a TransformComponent" but only elements draw
// geometry (spec.md §3.3).
func (e Entity) IsElement() bool {
	_, ok := e.scene.reg.paths[e.id]
	return ok
}

func (e Entity) IsGroup() bool {
	_, ok := e.scene.reg.groups[e.id]
	return ok
}

func (e Entity) IsLayer() bool {
	_, ok := e.scene.reg.layers[e.id]
	return ok
}

// Path returns the entity's path and whether it has one.
func (e Entity) Path() (*path.Path, bool) {
	c, ok := e.scene.reg.paths[e.id]
	if !ok {
		return nil, false
	}
	return c.Path, true
}

// Transform returns the entity's local transform, identity if absent.
func (e Entity) Transform() TransformComponent {
	return e.scene.reg.transforms[e.id]
}

// Fill returns the entity's fill and whether it has one.
func (e Entity) Fill() (FillComponent, bool) {
	c, ok := e.scene.reg.fills[e.id]
	return c, ok
}

// Stroke returns the entity's stroke and whether it has one.
func (e Entity) Stroke() (StrokeComponent, bool) {
	c, ok := e.scene.reg.strokes[e.id]
	return c, ok
}

// ResolveGradient looks up a Gradient registered in e's scene, for a
// renderer resolving a Paint.Gradient reference at draw time.
func (e Entity) ResolveGradient(id uuid.UUID) (Gradient, bool) {
	return e.scene.Gradient(id)
}

// SetTransform replaces the entity's transform through history, so the
// change is undoable and eligible to merge with an immediately
// preceding transform edit of the same entity (spec.md §4.2).
func (e Entity) SetTransform(m TransformComponent) {
	old, hadOld := e.scene.reg.transforms[e.id]
	if !hadOld {
		old = TransformComponent{}
	}
	id := e.id
	sc := e.scene
	reg := sc.reg
	sc.History.Push(&history.Modify{
		EntityID: id,
		Target:   history.Target(KindTransform),
		OldBytes: old.Encode(),
		NewBytes: m.Encode(),
		Apply: func(data []byte) {
			if t, ok := DecodeTransform(data); ok {
				reg.transforms[id] = t
			}
			sc.InvalidateEntity(id)
		},
	}, true)
}

// SetPath replaces the entity's path through history. Path snapshots
// are taken eagerly: undo on a path-heavy edit (e.g. a drag across a
// whole segment) stores the whole before/after geometry rather than a
// per-point diff, matching spec.md §3.6's "new_bytes"/"old_bytes" model.
func (e Entity) SetPath(p *path.Path) {
	old, hadOld := e.scene.reg.paths[e.id]
	var oldBytes []byte
	if hadOld && old.Path != nil {
		oldBytes = old.Path.Encode()
	}
	id := e.id
	sc := e.scene
	reg := sc.reg
	sc.History.Push(&history.Modify{
		EntityID: id,
		Target:   history.Target(KindPath),
		OldBytes: oldBytes,
		NewBytes: p.Encode(),
		Apply: func(data []byte) {
			decoded, err := path.Decode(data)
			if err != nil {
				return
			}
			reg.paths[id] = PathComponent{Path: decoded}
			sc.InvalidateEntity(id)
		},
	}, true)
}

// AddFill attaches a FillComponent through history.
func (e Entity) AddFill(f FillComponent) {
	e.addComponent(KindFill, encodePaintComponent(f.Paint),
		func(data []byte) {
			if p, ok := decodePaintBytes(data); ok {
				e.scene.reg.fills[e.id] = FillComponent{Paint: p}
			}
		},
		func() { delete(e.scene.reg.fills, e.id) },
	)
}

// RemoveFill detaches the entity's FillComponent through history.
func (e Entity) RemoveFill() {
	f, ok := e.scene.reg.fills[e.id]
	if !ok {
		return
	}
	e.removeComponent(KindFill, encodePaintComponent(f.Paint),
		func(data []byte) {
			if p, ok := decodePaintBytes(data); ok {
				e.scene.reg.fills[e.id] = FillComponent{Paint: p}
			}
		},
		func() { delete(e.scene.reg.fills, e.id) },
	)
}

// AddStroke attaches a StrokeComponent through history.
func (e Entity) AddStroke(s StrokeComponent) {
	e.addComponent(KindStroke, encodeStrokeComponent(s),
		func(data []byte) {
			if decoded, ok := decodeStrokeBytes(data); ok {
				e.scene.reg.strokes[e.id] = decoded
			}
		},
		func() { delete(e.scene.reg.strokes, e.id) },
	)
}

// RemoveStroke detaches the entity's StrokeComponent through history.
func (e Entity) RemoveStroke() {
	s, ok := e.scene.reg.strokes[e.id]
	if !ok {
		return
	}
	e.removeComponent(KindStroke, encodeStrokeComponent(s),
		func(data []byte) {
			if decoded, ok := decodeStrokeBytes(data); ok {
				e.scene.reg.strokes[e.id] = decoded
			}
		},
		func() { delete(e.scene.reg.strokes, e.id) },
	)
}

func (e Entity) addComponent(kind Kind, encoded []byte, insert func([]byte), del func()) {
	id, sc := e.id, e.scene
	sc.History.Push(&history.AddOrRemove{
		EntityID: id,
		Target:   history.Target(kind),
		Kind:     history.Add,
		Encoded:  encoded,
		Insert:   func(data []byte) { insert(data); sc.InvalidateEntity(id) },
		Delete:   func() { del(); sc.InvalidateEntity(id) },
	}, true)
}

func (e Entity) removeComponent(kind Kind, encoded []byte, insert func([]byte), del func()) {
	id, sc := e.id, e.scene
	sc.History.Push(&history.AddOrRemove{
		EntityID: id,
		Target:   history.Target(kind),
		Kind:     history.Remove,
		Encoded:  encoded,
		Insert:   func(data []byte) { insert(data); sc.InvalidateEntity(id) },
		Delete:   func() { del(); sc.InvalidateEntity(id) },
	}, true)
}

func encodePaintComponent(p Paint) []byte {
	var buf []byte
	buf = appendPaint(buf, p)
	return buf
}

func decodePaintBytes(data []byte) (Paint, bool) {
	r := &reader{data: data}
	return r.paint()
}

func encodeStrokeComponent(s StrokeComponent) []byte {
	var buf []byte
	buf = appendPaint(buf, s.Paint)
	buf = appendF32(buf, s.Width)
	buf = append(buf, byte(s.Cap), byte(s.Join))
	buf = appendF32(buf, s.MiterLimit)
	return buf
}

func decodeStrokeBytes(data []byte) (StrokeComponent, bool) {
	r := &reader{data: data}
	p, ok := r.paint()
	if !ok {
		return StrokeComponent{}, false
	}
	width, ok := r.f32()
	if !ok {
		return StrokeComponent{}, false
	}
	cap, ok := r.byte()
	if !ok {
		return StrokeComponent{}, false
	}
	join, ok := r.byte()
	if !ok {
		return StrokeComponent{}, false
	}
	miter, ok := r.f32()
	if !ok {
		return StrokeComponent{}, false
	}
	return StrokeComponent{Paint: p, Width: width, Cap: Cap(cap), Join: Join(join), MiterLimit: miter}, true
}
