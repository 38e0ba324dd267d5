// Package outline derives checklist hierarchy from the flat item sequence.
//
// Items never store parent/child references; everything here is recomputed
// from (position, depth, kind) in a single pass. Two containment rules
// coexist: a title item owns everything up to the next title at or above its
// depth (section rule), any other item owns the following run of strictly
// deeper items (depth rule). Both ChildCount and VisibleIndices go through
// the same stopsContainment policy so the rules cannot drift apart.
package outline

import "preflight-cli/internal/model"

// stopsContainment reports whether candidate ends the span of descendants
// owned by an item with the given depth and kind.
func stopsContainment(ownerDepth int, ownerKind model.ItemKind, candidate model.Item) bool {
	if ownerKind == model.KindTitle {
		return candidate.Kind == model.KindTitle && candidate.Depth <= ownerDepth
	}
	return candidate.Depth <= ownerDepth
}

// ChildCount returns how many following items are descendants of items[i].
// Out-of-range indices yield 0.
func ChildCount(items []model.Item, i int) int {
	if i < 0 || i >= len(items) {
		return 0
	}
	owner := items[i]
	n := 0
	for j := i + 1; j < len(items); j++ {
		if stopsContainment(owner.Depth, owner.Kind, items[j]) {
			break
		}
		n++
	}
	return n
}

// ParentIndex returns the position of the nearest preceding item with
// strictly lower depth, or -1 if items[i] has no parent.
func ParentIndex(items []model.Item, i int) int {
	if i < 0 || i >= len(items) {
		return -1
	}
	for j := i - 1; j >= 0; j-- {
		if items[j].Depth < items[i].Depth {
			return j
		}
	}
	return -1
}

// VisibleIndices returns the positions of items not hidden by any collapsed
// ancestor, in one linear scan. collapsed holds the ids of collapsed items;
// a collapsed item that is itself hidden contributes nothing extra.
func VisibleIndices(items []model.Item, collapsed map[string]bool) []int {
	out := make([]int, 0, len(items))

	// Skipping state: while active, items are hidden until one stops the
	// collapsing item's containment span.
	skipping := false
	var skipDepth int
	var skipKind model.ItemKind

	for i, it := range items {
		if skipping && stopsContainment(skipDepth, skipKind, it) {
			skipping = false
		}
		if skipping {
			continue
		}
		out = append(out, i)
		if collapsed[it.ID] {
			skipping = true
			skipDepth = it.Depth
			skipKind = it.Kind
		}
	}
	return out
}

// VisibleIDs is VisibleIndices projected onto item ids, in document order.
func VisibleIDs(items []model.Item, collapsed map[string]bool) []string {
	idxs := VisibleIndices(items, collapsed)
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = items[idx].ID
	}
	return out
}
