// Package history implements the append-only, batched undo/redo log
// that every scene mutation passes through (spec.md §3.6, §4.2).
package history

import "github.com/google/uuid"

// Target identifies which part of an entity a history action affects:
// the whole entity, or a single named component. The scene package
// supplies the component names (e.g. "transform", "path"); history
// itself treats Target as an opaque comparable key used only to decide
// whether two Modify actions may merge.
type Target string

// WholeEntity is the Target used by AddOrRemove actions that add or
// remove an entire entity rather than a single component.
const WholeEntity Target = "entity"

// ChangeKind distinguishes the two flavors of AddOrRemove.
type ChangeKind uint8

const (
	Add ChangeKind = iota
	Remove
)

// Action is a single entry in the history log. Both variants named in
// spec.md §3.6 implement it: AddOrRemove and Modify.
type Action interface {
	// Execute applies the action's forward effect.
	Execute()
	// Revert undoes the action's effect.
	Revert()
}

// mergeKey identifies the (entity, target) pair two Modify actions
// must share to be eligible for merging.
type mergeKey struct {
	entityID uuid.UUID
	target   Target
}

// modifier is implemented only by *Modify; AddOrRemove deliberately
// does not implement it, so it is never a merge candidate (spec.md
// §4.2: "merge succeeds only between two Modify's").
type modifier interface {
	Action
	key() mergeKey
	absorb(newer Action) bool
}

// AddOrRemove records the insertion or deletion of an entity or a
// single component, carrying its encoded binary representation so the
// action can reconstruct it on revert (spec.md §3.6). Insert and
// Delete are supplied by the caller (the scene package) and perform
// the actual mutation against live storage; AddOrRemove itself only
// sequences which one runs in which direction.
type AddOrRemove struct {
	EntityID uuid.UUID
	Target   Target
	Kind     ChangeKind
	Encoded  []byte

	// Insert re-creates the entity or component from Encoded.
	Insert func(encoded []byte)
	// Delete removes the entity or component.
	Delete func()
}

func (a *AddOrRemove) Execute() {
	switch a.Kind {
	case Add:
		a.Insert(a.Encoded)
	case Remove:
		a.Delete()
	}
}

func (a *AddOrRemove) Revert() {
	switch a.Kind {
	case Add:
		a.Delete()
	case Remove:
		a.Insert(a.Encoded)
	}
}

// Modify records a change to a single component's binary
// representation, keeping both the prior and the new encoding so
// Execute/Revert can switch between them without recomputing either
// (spec.md §4.2: "execute memcpys one, revert the other").
type Modify struct {
	EntityID uuid.UUID
	Target   Target
	OldBytes []byte
	NewBytes []byte

	// Apply writes the given encoding into the live component.
	Apply func(data []byte)
}

func (m *Modify) Execute() { m.Apply(m.NewBytes) }
func (m *Modify) Revert()  { m.Apply(m.OldBytes) }

func (m *Modify) key() mergeKey { return mergeKey{entityID: m.EntityID, target: m.Target} }

// absorb folds newer's new value into m, keeping m.OldBytes as the
// original pre-batch value. Returns false if newer is not a Modify.
func (m *Modify) absorb(newer Action) bool {
	nm, ok := newer.(*Modify)
	if !ok {
		return false
	}
	m.NewBytes = nm.NewBytes
	return true
}
