// Package history provides snapshot-based undo/redo over the tracked
// document partition: the open files with their groups, checklists and
// items. Transient state (selection, collapse sets, edits in progress) is
// never recorded.
//
// Each History is an explicit object held by one document store; separate
// documents and test instances never share history state.
package history

import "preflight-cli/internal/model"

const DefaultMaxEntries = 200

// entry holds the tracked partition before and after one committed
// mutation. Both sides are deep clones, so later edits cannot reach into
// recorded state.
type entry struct {
	before []model.File
	after  []model.File
}

type History struct {
	undo []entry
	redo []entry

	maxEntries int
}

func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Commit records one completed mutation. Batch operations commit once, not
// once per affected item. Any redo tail is discarded.
func (h *History) Commit(before, after []model.File) {
	h.undo = append(h.undo, entry{
		before: cloneFiles(before),
		after:  cloneFiles(after),
	})
	h.redo = nil

	if len(h.undo) > h.maxEntries {
		excess := len(h.undo) - h.maxEntries
		h.undo = h.undo[excess:]
	}
}

// Undo returns the partition value from before the most recent commit.
// The second return is false when there is nothing to undo; the caller's
// state is then unchanged.
func (h *History) Undo() ([]model.File, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return cloneFiles(e.before), true
}

// Redo returns the partition value from after the most recently undone
// commit.
func (h *History) Redo() ([]model.File, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	return cloneFiles(e.after), true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) UndoCount() int { return len(h.undo) }
func (h *History) RedoCount() int { return len(h.redo) }

// Clear drops all recorded entries, e.g. after opening a different file.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func cloneFiles(files []model.File) []model.File {
	out := make([]model.File, len(files))
	for i := range files {
		out[i] = files[i].Clone()
	}
	return out
}
