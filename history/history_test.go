package history

import (
	"testing"

	"github.com/google/uuid"
)

// modifyCell builds a Modify action backed by a plain byte cell, close
// to how scene component storage will wire Apply in practice.
func modifyCell(id uuid.UUID, target Target, cell *[]byte, old, new []byte) *Modify {
	return &Modify{
		EntityID: id,
		Target:   target,
		OldBytes: old,
		NewBytes: new,
		Apply:    func(data []byte) { *cell = data },
	}
}

func TestPushExecutesAndMerges(t *testing.T) {
	h := New()
	id := uuid.New()
	var cell []byte

	h.Push(modifyCell(id, "transform", &cell, []byte{0}, []byte{1}), true)
	if string(cell) != "\x01" {
		t.Fatalf("cell = %v, want [1]", cell)
	}
	h.Push(modifyCell(id, "transform", &cell, []byte{1}, []byte{2}), true)
	if string(cell) != "\x02" {
		t.Fatalf("cell = %v, want [2]", cell)
	}
	if len(h.actions) != 1 {
		t.Fatalf("expected consecutive modifies to merge into 1 action, got %d", len(h.actions))
	}
	m := h.actions[0].(*Modify)
	if string(m.OldBytes) != "\x00" || string(m.NewBytes) != "\x02" {
		t.Fatalf("merged action old/new = %v/%v, want [0]/[2]", m.OldBytes, m.NewBytes)
	}
}

func TestMergeRequiresSameEntityAndTarget(t *testing.T) {
	h := New()
	a, b := uuid.New(), uuid.New()
	var cellA, cellB []byte

	h.Push(modifyCell(a, "transform", &cellA, nil, []byte{1}), true)
	h.Push(modifyCell(b, "transform", &cellB, nil, []byte{1}), true)
	h.Push(modifyCell(a, "fill", &cellA, nil, []byte{1}), true)

	if len(h.actions) != 3 {
		t.Fatalf("expected no merging across different entities/targets, got %d actions", len(h.actions))
	}
}

func TestUndoRedoBatch(t *testing.T) {
	h := New()
	id := uuid.New()
	var cell []byte

	h.Push(modifyCell(id, "transform", &cell, []byte{0}, []byte{1}), true)
	h.EndBatch()
	h.Push(modifyCell(id, "fill", &cell, []byte{1}, []byte{2}), true)
	h.EndBatch()

	if !h.CanUndo() || h.CanRedo() {
		t.Fatal("expected undoable, non-redoable state after two batches")
	}

	h.Undo()
	if string(cell) != "\x01" {
		t.Fatalf("after first undo cell = %v, want [1]", cell)
	}
	h.Undo()
	if string(cell) != "\x00" {
		t.Fatalf("after second undo cell = %v, want [0]", cell)
	}
	if h.CanUndo() {
		t.Fatal("should not be able to undo past the start")
	}

	h.Redo()
	if string(cell) != "\x01" {
		t.Fatalf("after first redo cell = %v, want [1]", cell)
	}
	h.Redo()
	if string(cell) != "\x02" {
		t.Fatalf("after second redo cell = %v, want [2]", cell)
	}
	if h.CanRedo() {
		t.Fatal("should not be able to redo past the tip")
	}
}

// TestUndoRedoIdempotence exercises spec.md §8 property 2: redo(undo(state)) == state.
func TestUndoRedoIdempotence(t *testing.T) {
	h := New()
	id := uuid.New()
	var cell []byte

	h.Push(modifyCell(id, "transform", &cell, []byte{0}, []byte{5}), true)
	h.EndBatch()
	want := string(cell)

	h.Undo()
	h.Redo()
	if string(cell) != want {
		t.Fatalf("redo(undo(state)) = %v, want %v", cell, want)
	}
}

func TestEndBatchNoOpWhenEmpty(t *testing.T) {
	h := New()
	before := h.BatchCount()
	h.EndBatch()
	if h.BatchCount() != before {
		t.Fatal("end_batch on an empty tail should not create a boundary")
	}
}

func TestPushSealsRedoTail(t *testing.T) {
	h := New()
	id := uuid.New()
	var cell []byte

	h.Push(modifyCell(id, "transform", &cell, []byte{0}, []byte{1}), true)
	h.EndBatch()
	h.Push(modifyCell(id, "transform", &cell, []byte{1}, []byte{2}), true)
	h.EndBatch()

	h.Undo()
	if h.BatchCount() != 2 {
		t.Fatalf("undo should not drop batches, got %d", h.BatchCount())
	}

	h.Push(modifyCell(id, "fill", &cell, []byte{1}, []byte{9}), true)
	h.EndBatch()

	if h.BatchCount() != 2 {
		t.Fatalf("pushing after undo should seal the redo tail, got %d batches", h.BatchCount())
	}
	if h.CanRedo() {
		t.Fatal("redo tail should have been discarded")
	}
}

func TestAddOrRemoveRevert(t *testing.T) {
	h := New()
	id := uuid.New()
	present := false

	a := &AddOrRemove{
		EntityID: id,
		Target:   WholeEntity,
		Kind:     Add,
		Encoded:  []byte{1, 2, 3},
		Insert:   func(encoded []byte) { present = true },
		Delete:   func() { present = false },
	}
	h.Push(a, true)
	if !present {
		t.Fatal("expected entity present after executing Add")
	}
	h.EndBatch()
	h.Undo()
	if present {
		t.Fatal("expected entity absent after reverting Add")
	}
}

func TestCancelOpenBatchRevertsWithoutTouchingCursor(t *testing.T) {
	h := New()
	id := uuid.New()
	var cell []byte

	h.Push(modifyCell(id, "transform", &cell, []byte{0}, []byte{1}), true)
	h.EndBatch()
	closedCursor := h.Cursor()

	h.Push(modifyCell(id, "fill", &cell, []byte{1}, []byte{9}), true)
	h.CancelOpenBatch()

	if string(cell) != "\x01" {
		t.Fatalf("cancel should revert the open batch's effect, cell = %v, want [1]", cell)
	}
	if h.Cursor() != closedCursor {
		t.Fatalf("cancel should not move the cursor over closed batches, got %d want %d", h.Cursor(), closedCursor)
	}
	if h.BatchCount() != closedCursor {
		t.Fatalf("cancel should not leave a new boundary, got %d batches", h.BatchCount())
	}
}

func TestAddOrRemoveNeverMerges(t *testing.T) {
	h := New()
	id := uuid.New()

	a := &AddOrRemove{EntityID: id, Target: WholeEntity, Kind: Add, Insert: func([]byte) {}, Delete: func() {}}
	b := &AddOrRemove{EntityID: id, Target: WholeEntity, Kind: Remove, Insert: func([]byte) {}, Delete: func() {}}
	h.Push(a, false)
	h.Push(b, false)

	if len(h.actions) != 2 {
		t.Fatalf("AddOrRemove actions must never merge, got %d actions", len(h.actions))
	}
}
