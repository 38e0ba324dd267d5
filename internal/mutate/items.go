// Package mutate implements the structural edit operations of the engine.
//
// Every function takes the current item sequence (or document value) and
// returns a new one plus a result. Operations either fully succeed or return
// the input unchanged with Changed=false: invalid ids, stale indices and
// depth-boundary violations are expected conditions, not errors, because UI
// state may lag the model by one event.
package mutate

import "preflight-cli/internal/model"

// Result reports the outcome shared by all item operations.
type Result struct {
	Changed bool
	// ID is the id of the item created by Insert/Duplicate, or the id the
	// operation acted on otherwise.
	ID string
}

func indexOf(items []model.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

// Insert creates a new item of the given kind immediately after afterIdx.
// afterIdx = -1 inserts at the very start; afterIdx = len(items)-1 appends.
// Anything outside [-1, len(items)-1] is a no-op. The new item's depth
// matches the item preceding its new position (0 at the start); neighboring
// depths are never rewritten. newID is the identity for the created item,
// supplied by the caller so the operation stays a pure function of its
// inputs.
func Insert(items []model.Item, kind model.ItemKind, afterIdx int, newID string) ([]model.Item, Result) {
	if afterIdx < -1 || afterIdx >= len(items) {
		return items, Result{}
	}

	depth := 0
	if afterIdx >= 0 {
		depth = items[afterIdx].Depth
	}

	it := model.Item{
		ID:    newID,
		Kind:  kind,
		Depth: depth,
	}

	out := make([]model.Item, 0, len(items)+1)
	out = append(out, cloneItems(items[:afterIdx+1])...)
	out = append(out, it)
	out = append(out, cloneItems(items[afterIdx+1:])...)
	return out, Result{Changed: true, ID: it.ID}
}

// Remove deletes exactly one item. Inferred descendants stay in the sequence
// at their existing depths; their depth is not renormalized.
func Remove(items []model.Item, id string) ([]model.Item, Result) {
	i := indexOf(items, id)
	if i < 0 {
		return items, Result{}
	}
	out := make([]model.Item, 0, len(items)-1)
	out = append(out, cloneItems(items[:i])...)
	out = append(out, cloneItems(items[i+1:])...)
	return out, Result{Changed: true, ID: id}
}

// Duplicate clones a single item (fresh id, identical fields) and inserts
// the copy immediately after the original. Descendants are not duplicated.
func Duplicate(items []model.Item, id, newID string) ([]model.Item, Result) {
	i := indexOf(items, id)
	if i < 0 {
		return items, Result{}
	}
	dup := items[i].Clone()
	dup.ID = newID

	out := make([]model.Item, 0, len(items)+1)
	out = append(out, cloneItems(items[:i+1])...)
	out = append(out, dup)
	out = append(out, cloneItems(items[i+1:])...)
	return out, Result{Changed: true, ID: dup.ID}
}

// SetDepth changes one item's depth by exactly one level. A result outside
// [0, MaxDepth] is refused. Descendant depths are not adjusted: an item may
// end up deeper than its nominal parent +1, which the resolver and renderer
// tolerate.
func SetDepth(items []model.Item, id string, delta int) ([]model.Item, Result) {
	if delta != 1 && delta != -1 {
		return items, Result{}
	}
	i := indexOf(items, id)
	if i < 0 {
		return items, Result{}
	}
	next := items[i].Depth + delta
	if next < 0 || next > model.MaxDepth {
		return items, Result{}
	}
	out := cloneItems(items)
	out[i].Depth = next
	return out, Result{Changed: true, ID: id}
}

// Reorder moves the item at from to position to in the flat sequence,
// leaving every depth unchanged. Out-of-range indices are a no-op.
func Reorder(items []model.Item, from, to int) ([]model.Item, Result) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return items, Result{}
	}
	if from == to {
		return items, Result{}
	}
	out := cloneItems(items)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)

	rest := make([]model.Item, 0, len(items))
	rest = append(rest, out[:to]...)
	rest = append(rest, moved)
	rest = append(rest, out[to:]...)
	return rest, Result{Changed: true, ID: moved.ID}
}

// ReorderBatch moves a set of (possibly non-contiguous) items as one block,
// preserving their relative order. targetIdx is the insertion point in the
// sequence with the moved items removed (a drop index); it is clamped to
// that sequence's bounds. Unknown ids are ignored; an empty effective set
// or a move that leaves the order unchanged is a no-op.
func ReorderBatch(items []model.Item, selectedIDs []string, targetIdx int) ([]model.Item, Result) {
	sel := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		if indexOf(items, id) >= 0 {
			sel[id] = true
		}
	}
	if len(sel) == 0 {
		return items, Result{}
	}

	moved := make([]model.Item, 0, len(sel))
	rest := make([]model.Item, 0, len(items)-len(sel))
	for i := range items {
		if sel[items[i].ID] {
			moved = append(moved, items[i].Clone())
		} else {
			rest = append(rest, items[i].Clone())
		}
	}

	if targetIdx < 0 {
		targetIdx = 0
	}
	if targetIdx > len(rest) {
		targetIdx = len(rest)
	}

	out := make([]model.Item, 0, len(items))
	out = append(out, rest[:targetIdx]...)
	out = append(out, moved...)
	out = append(out, rest[targetIdx:]...)

	for i := range items {
		if items[i].ID != out[i].ID {
			return out, Result{Changed: true, ID: moved[0].ID}
		}
	}
	return items, Result{}
}

// SetText updates an item's challenge and response text. Response text on a
// non-challenge_response item is stored as-is; it is simply not meaningful.
func SetText(items []model.Item, id, challenge, response string) ([]model.Item, Result) {
	i := indexOf(items, id)
	if i < 0 {
		return items, Result{}
	}
	if items[i].Challenge == challenge && items[i].Response == response {
		return items, Result{}
	}
	out := cloneItems(items)
	out[i].Challenge = challenge
	out[i].Response = response
	return out, Result{Changed: true, ID: id}
}
