package scene

import "github.com/google/uuid"

// SelectionTargetType distinguishes a fully-selected entity from a
// partial (vertex/handle-level) selection within it (spec.md §3.4).
type SelectionTargetType uint8

const (
	SelectionEntity SelectionTargetType = iota
	SelectionElement
)

// SelectionEntry records how one entity participates in the
// selection: wholly (Entity) or via specific child point indices
// (Element).
type SelectionEntry struct {
	Type         SelectionTargetType
	ChildIndices map[int]struct{}
}

func newElementEntry(indices ...int) SelectionEntry {
	e := SelectionEntry{Type: SelectionElement, ChildIndices: make(map[int]struct{}, len(indices))}
	for _, i := range indices {
		e.ChildIndices[i] = struct{}{}
	}
	return e
}

// Selection holds the scene's committed selection plus an in-progress
// rubber-band/temp selection that Sync promotes into it (spec.md §3.4).
type Selection struct {
	committed map[uuid.UUID]SelectionEntry
	temp      map[uuid.UUID]SelectionEntry
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{committed: make(map[uuid.UUID]SelectionEntry), temp: make(map[uuid.UUID]SelectionEntry)}
}

// Size returns the number of entities selected, across both sets.
func (s *Selection) Size() int { return len(s.committed) + len(s.temp) }

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool { return s.Size() == 0 }

// Has reports whether id is selected, committed or temporary.
func (s *Selection) Has(id uuid.UUID) bool {
	if _, ok := s.committed[id]; ok {
		return true
	}
	_, ok := s.temp[id]
	return ok
}

// Entry returns the selection entry for id, from whichever set holds it.
func (s *Selection) Entry(id uuid.UUID) (SelectionEntry, bool) {
	if e, ok := s.committed[id]; ok {
		return e, true
	}
	e, ok := s.temp[id]
	return e, ok
}

// Entities returns every selected id, committed and temporary combined.
func (s *Selection) Entities() []uuid.UUID {
	ids := make([]uuid.UUID, 0, s.Size())
	for id := range s.committed {
		ids = append(ids, id)
	}
	for id := range s.temp {
		ids = append(ids, id)
	}
	return ids
}

// Clear empties both the committed and temporary selection.
func (s *Selection) Clear() {
	s.committed = make(map[uuid.UUID]SelectionEntry)
	s.temp = make(map[uuid.UUID]SelectionEntry)
}

// Select commits id as a whole-entity selection.
func (s *Selection) Select(id uuid.UUID) {
	s.committed[id] = SelectionEntry{Type: SelectionEntity}
}

// SelectElement commits id as a partial selection of the given child
// point indices, merging with any indices already committed for id.
func (s *Selection) SelectElement(id uuid.UUID, indices ...int) {
	existing, ok := s.committed[id]
	if !ok || existing.Type != SelectionElement {
		s.committed[id] = newElementEntry(indices...)
		return
	}
	for _, i := range indices {
		existing.ChildIndices[i] = struct{}{}
	}
}

// Deselect removes id from the committed selection.
func (s *Selection) Deselect(id uuid.UUID) {
	delete(s.committed, id)
}

// TempSelect replaces the temporary (rubber-band) selection wholesale.
func (s *Selection) TempSelect(entries map[uuid.UUID]SelectionEntry) {
	s.temp = entries
	if s.temp == nil {
		s.temp = make(map[uuid.UUID]SelectionEntry)
	}
}

// Sync promotes the temporary selection into the committed one,
// merging child-index sets for entities present in both, then clears
// the temporary set (spec.md §3.4).
func (s *Selection) Sync() {
	for id, entry := range s.temp {
		existing, ok := s.committed[id]
		if !ok {
			s.committed[id] = entry
			continue
		}
		if existing.Type == SelectionElement && entry.Type == SelectionElement {
			for i := range entry.ChildIndices {
				existing.ChildIndices[i] = struct{}{}
			}
			continue
		}
		// A whole-entity selection subsumes a partial one.
		s.committed[id] = SelectionEntry{Type: SelectionEntity}
	}
	s.temp = make(map[uuid.UUID]SelectionEntry)
}
