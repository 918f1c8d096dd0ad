package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/history"
	"github.com/graphick-dev/graphick/path"
)

// Scene owns a set of entities and their components, the selection,
// viewport, and history for one editable document (spec.md §4.6).
type Scene struct {
	ID uuid.UUID

	Viewport  Viewport
	Selection *Selection
	History   *history.History
	Cache     *Cache

	reg   *registry
	order []uuid.UUID

	gradients map[uuid.UUID]Gradient

	untaggedCount int
}

// New returns an empty scene, ready for entities to be created in it.
func New() *Scene {
	return &Scene{
		ID:        uuid.New(),
		Viewport:  NewViewport(),
		Selection: NewSelection(),
		History:   history.New(),
		Cache:     NewCache(),
		reg:       newRegistry(),
	}
}

// HasEntity reports whether id names a live entity.
func (s *Scene) HasEntity(id uuid.UUID) bool {
	_, ok := s.reg.ids[id]
	return ok
}

// Entity returns a view bound to id. The returned Entity is valid
// (Entity.Valid()) only if id currently exists.
func (s *Scene) Entity(id uuid.UUID) Entity {
	return Entity{id: id, scene: s}
}

// ZOrder returns the dense z-order vector of every entity, back to front.
func (s *Scene) ZOrder() []uuid.UUID {
	out := make([]uuid.UUID, len(s.order))
	copy(out, s.order)
	return out
}

// CreateEntity creates a bare entity with an IDComponent, TagComponent,
// CategoryComponent, and an identity TransformComponent, pushed as a
// single undoable AddOrRemove action (spec.md §4.6).
func (s *Scene) CreateEntity(tag string) Entity {
	id := uuid.New()
	if tag == "" {
		s.untaggedCount++
		tag = fmt.Sprintf("Entity %d", s.untaggedCount)
	}
	snap := snapshot{
		id:  id,
		tag: tag,
	}
	snap.flags |= hasCategory
	snap.category = CategoryComponent{Mask: CategorySelectable}
	snap.flags |= hasTransform
	snap.transform = TransformComponent{Matrix: geom.Identity}

	s.pushCreate(snap)
	return s.Entity(id)
}

// CreateElement creates an entity with the base components plus a
// PathComponent, optionally seeded with p (an empty path if nil).
func (s *Scene) CreateElement(p *path.Path) Entity {
	id := uuid.New()
	s.untaggedCount++
	if p == nil {
		p = path.New()
	}
	snap := snapshot{
		id:  id,
		tag: fmt.Sprintf("Path %d", s.untaggedCount),
	}
	snap.flags |= hasCategory
	snap.category = CategoryComponent{Mask: CategorySelectable}
	snap.flags |= hasTransform
	snap.transform = TransformComponent{Matrix: geom.Identity}
	snap.flags |= hasPath
	snap.pathBytes = p.Encode()

	s.pushCreate(snap)
	return s.Entity(id)
}

func (s *Scene) pushCreate(snap snapshot) {
	id := snap.id
	s.History.Push(&history.AddOrRemove{
		EntityID: id,
		Target:   history.WholeEntity,
		Kind:     history.Add,
		Encoded:  snap.encode(),
		Insert: func(encoded []byte) {
			if decoded, err := decodeSnapshot(encoded); err == nil {
				s.restoreEntity(decoded)
				s.InvalidateEntity(id)
			}
		},
		Delete: func() {
			s.InvalidateEntity(id)
			s.destroyEntity(id)
		},
	}, true)
}

// DuplicateEntity creates a copy of id's full component set under a new
// identifier, appended to the end of the z-order.
func (s *Scene) DuplicateEntity(id uuid.UUID) (Entity, bool) {
	if !s.HasEntity(id) {
		return Entity{}, false
	}
	snap := s.snapshotEntity(id)
	snap.id = uuid.New()
	snap.tag = snap.tag + " copy"
	s.pushCreate(snap)
	return s.Entity(snap.id), true
}

// DeleteEntity removes id through history, so the deletion is
// undoable and restores every component the entity carried.
func (s *Scene) DeleteEntity(id uuid.UUID) {
	if !s.HasEntity(id) {
		return
	}
	snap := s.snapshotEntity(id)
	s.History.Push(&history.AddOrRemove{
		EntityID: id,
		Target:   history.WholeEntity,
		Kind:     history.Remove,
		Encoded:  snap.encode(),
		Insert: func(encoded []byte) {
			if decoded, err := decodeSnapshot(encoded); err == nil {
				s.restoreEntity(decoded)
				s.InvalidateEntity(id)
			}
		},
		Delete: func() {
			s.InvalidateEntity(id)
			s.destroyEntity(id)
		},
	}, true)
	s.Selection.Deselect(id)
}

func (s *Scene) destroyEntity(id uuid.UUID) {
	s.reg.destroy(id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// EntityAt returns the topmost entity whose geometry contains point,
// or (uuid.Nil, false) if none does (spec.md §4.6). deep also hit-tests
// stroke bands, not just fills; threshold is a scene-space radius.
func (s *Scene) EntityAt(point geom.Vec2, deep bool, threshold float32) (uuid.UUID, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		pc, ok := s.reg.paths[id]
		if !ok || pc.Path == nil {
			continue
		}
		if !s.reg.categories[id].Is(CategorySelectable) {
			continue
		}
		xf := s.reg.transforms[id].Matrix
		stroke, hasStroke := s.reg.strokes[id]
		width := float32(0)
		if hasStroke {
			width = stroke.Width
		}
		if pc.Path.IsPointInsidePath(point, true, deep && hasStroke, xf, threshold, s.Viewport.Zoom(), width) {
			return id, true
		}
	}
	return uuid.Nil, false
}

// EntitiesIn returns every selectable entity overlapping rect, keyed
// by id, as whole-entity selection entries (spec.md §4.6). deep is
// accepted for API symmetry with EntityAt; partial (vertex-level)
// selection entries are produced by the DirectSelect tool, not here.
func (s *Scene) EntitiesIn(rect geom.Rect, deep bool) map[uuid.UUID]SelectionEntry {
	out := make(map[uuid.UUID]SelectionEntry)
	for _, id := range s.order {
		pc, ok := s.reg.paths[id]
		if !ok || pc.Path == nil {
			continue
		}
		if !s.reg.categories[id].Is(CategorySelectable) {
			continue
		}
		xf := s.reg.transforms[id].Matrix
		if pc.Path.Intersects(rect, xf, nil) {
			out[id] = SelectionEntry{Type: SelectionEntity}
		}
	}
	return out
}

// GroupSelected wraps every currently selected entity into a new
// GroupComponent entity and commits the change as a single batch.
func (s *Scene) GroupSelected() (Entity, bool) {
	ids := s.Selection.Entities()
	if len(ids) == 0 {
		return Entity{}, false
	}
	group := s.CreateEntity("Group")
	snap := s.snapshotEntity(group.ID())
	snap.flags |= hasGroup
	snap.group = GroupComponent{Children: ids}

	id := group.ID()
	reg := s.reg
	old := reg.groups[id]
	s.History.Push(&history.Modify{
		EntityID: id,
		Target:   history.Target(KindGroup),
		OldBytes: appendUUIDs(nil, old.Children),
		NewBytes: appendUUIDs(nil, ids),
		Apply: func(data []byte) {
			r := &reader{data: data}
			if children, ok := r.uuids(); ok {
				reg.groups[id] = GroupComponent{Children: children}
			}
		},
	}, true)

	s.History.EndBatch()
	s.Selection.Clear()
	s.Selection.Select(id)
	return group, true
}

// InvalidateEntity marks the cache regions covered by id's bounding
// rect invalid, recursing into group/layer children (spec.md §3.7).
func (s *Scene) InvalidateEntity(id uuid.UUID) {
	if pc, ok := s.reg.paths[id]; ok && pc.Path != nil {
		xf := s.reg.transforms[id].Matrix
		s.Cache.InvalidateRect(pc.Path.BoundingRectTransformed(xf))
	}
	if g, ok := s.reg.groups[id]; ok {
		for _, child := range g.Children {
			s.InvalidateEntity(child)
		}
	}
	if l, ok := s.reg.layers[id]; ok {
		for _, child := range l.Children {
			s.InvalidateEntity(child)
		}
	}
}
