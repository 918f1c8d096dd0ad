package scene

import "github.com/google/uuid"

// registry holds the per-component sparse storages the scene's entities
// draw from (spec.md §3.3: "a registry mapping uuid -> entity handle,
// plus per-component sparse storages"). Entities are identified
// directly by uuid.UUID; there is no separate integer handle layer,
// since every component lookup in this model is already keyed by id
// and Go's map gives sparse storage for free.
type registry struct {
	ids        map[uuid.UUID]IDComponent
	tags       map[uuid.UUID]TagComponent
	categories map[uuid.UUID]CategoryComponent
	paths      map[uuid.UUID]PathComponent
	transforms map[uuid.UUID]TransformComponent
	fills      map[uuid.UUID]FillComponent
	strokes    map[uuid.UUID]StrokeComponent
	groups     map[uuid.UUID]GroupComponent
	layers     map[uuid.UUID]LayerComponent
	artboards  map[uuid.UUID]ArtboardComponent
}

func newRegistry() *registry {
	return &registry{
		ids:        make(map[uuid.UUID]IDComponent),
		tags:       make(map[uuid.UUID]TagComponent),
		categories: make(map[uuid.UUID]CategoryComponent),
		paths:      make(map[uuid.UUID]PathComponent),
		transforms: make(map[uuid.UUID]TransformComponent),
		fills:      make(map[uuid.UUID]FillComponent),
		strokes:    make(map[uuid.UUID]StrokeComponent),
		groups:     make(map[uuid.UUID]GroupComponent),
		layers:     make(map[uuid.UUID]LayerComponent),
		artboards:  make(map[uuid.UUID]ArtboardComponent),
	}
}

// destroy drops every component belonging to id, across all storages.
func (r *registry) destroy(id uuid.UUID) {
	delete(r.ids, id)
	delete(r.tags, id)
	delete(r.categories, id)
	delete(r.paths, id)
	delete(r.transforms, id)
	delete(r.fills, id)
	delete(r.strokes, id)
	delete(r.groups, id)
	delete(r.layers, id)
	delete(r.artboards, id)
}
