package history

// History is a linear undo log with batching and merging (spec.md
// §3.6, §4.2). It is append-only except for seal, which discards a
// stale redo tail the moment new history is pushed on top of it.
//
// actions is the flat, ordered log of every action ever pushed.
// batchIndices holds the start offset of every *closed* batch plus,
// as its final element, the start of the still-open batch currently
// being accumulated; batchIndices[0] is always 0. cursor counts how
// many closed batches, counting from the start, are currently applied
// — it satisfies 0 <= cursor <= len(batchIndices)-1.
type History struct {
	actions      []Action
	batchIndices []int
	cursor       int
}

// New returns an empty history.
func New() *History {
	return &History{batchIndices: []int{0}}
}

// closedBatchCount returns the number of closed (end_batch-delimited)
// batches currently in the log.
func (h *History) closedBatchCount() int {
	return len(h.batchIndices) - 1
}

// Push records action. When execute is true, action.Execute() runs
// first. Pushing always seals any stale redo tail, then attempts to
// merge into the last action of the currently open batch before
// appending a new entry.
func (h *History) Push(action Action, execute bool) {
	if execute {
		action.Execute()
	}
	h.seal()

	tailStart := h.batchIndices[len(h.batchIndices)-1]
	if len(h.actions) > tailStart {
		if next, ok := action.(modifier); ok {
			if prev, ok2 := h.actions[len(h.actions)-1].(modifier); ok2 {
				if prev.key() == next.key() && prev.absorb(action) {
					return
				}
			}
		}
	}
	h.actions = append(h.actions, action)
}

// seal discards any batches beyond the cursor, i.e. a redo tail left
// over from a previous Undo. It is a no-op once the cursor is already
// at the tip of the log.
func (h *History) seal() {
	if h.cursor >= h.closedBatchCount() {
		return
	}
	cut := h.batchIndices[h.cursor]
	h.actions = h.actions[:cut]
	h.batchIndices = h.batchIndices[:h.cursor+1]
}

// EndBatch commits a boundary after the current open batch, provided
// it is non-empty; an empty open batch leaves no boundary (spec.md
// §3.6: "no-op when the current batch is empty").
func (h *History) EndBatch() {
	tailStart := h.batchIndices[len(h.batchIndices)-1]
	if len(h.actions) == tailStart {
		return
	}
	h.batchIndices = append(h.batchIndices, len(h.actions))
	h.cursor = h.closedBatchCount()
}

// Undo reverts the most recently applied closed batch, last action
// first, and steps the cursor back by one. It no-ops at the bottom of
// the stack or while only an unclosed batch exists.
func (h *History) Undo() {
	if h.cursor == 0 {
		return
	}
	start, end := h.batchIndices[h.cursor-1], h.batchIndices[h.cursor]
	for i := end - 1; i >= start; i-- {
		h.actions[i].Revert()
	}
	h.cursor--
}

// Redo re-applies the next closed batch, first action to last, and
// steps the cursor forward by one. It no-ops at the tip of the stack.
func (h *History) Redo() {
	if h.cursor >= h.closedBatchCount() {
		return
	}
	start, end := h.batchIndices[h.cursor], h.batchIndices[h.cursor+1]
	for i := start; i < end; i++ {
		h.actions[i].Execute()
	}
	h.cursor++
}

// CancelOpenBatch reverts every action accumulated in the still-open
// batch (since the last EndBatch) and discards them, without
// affecting the undo/redo cursor over closed batches. This is the
// abort path spec.md §4.3 names ("moving tools may cancel their
// in-progress batch") for a gesture that never reaches pointer-up.
func (h *History) CancelOpenBatch() {
	tailStart := h.batchIndices[len(h.batchIndices)-1]
	for i := len(h.actions) - 1; i >= tailStart; i-- {
		h.actions[i].Revert()
	}
	h.actions = h.actions[:tailStart]
}

// CanUndo reports whether Undo has a closed batch to revert.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo has a closed batch to re-apply.
func (h *History) CanRedo() bool { return h.cursor < h.closedBatchCount() }

// Cursor returns the current batch cursor, for tests and diagnostics.
func (h *History) Cursor() int { return h.cursor }

// BatchCount returns the number of closed batches in the log.
func (h *History) BatchCount() int { return h.closedBatchCount() }

// Clear resets the history to empty, as if newly constructed.
func (h *History) Clear() {
	h.actions = nil
	h.batchIndices = []int{0}
	h.cursor = 0
}
