// Package selection tracks the active item and the optional multi-item
// range selection. Ranges are computed over the resolver's visible-id list
// only, so collapsed-away items can never enter a selection.
package selection

// Selection is the per-document selection state. The zero value is ready to
// use: no active item, no multi-selection.
type Selection struct {
	active string
	ids    map[string]bool
}

func New() *Selection {
	return &Selection{ids: map[string]bool{}}
}

// Active returns the active item id, or "" if none.
func (s *Selection) Active() string { return s.active }

// IDs returns the current multi-selection as a set. The returned map is the
// internal one; callers must not mutate it.
func (s *Selection) IDs() map[string]bool { return s.ids }

// Contains reports membership in the multi-selection.
func (s *Selection) Contains(id string) bool { return s.ids[id] }

// Len returns the size of the multi-selection.
func (s *Selection) Len() int { return len(s.ids) }

// SelectSingle makes id the active item and clears any multi-selection.
func (s *Selection) SelectSingle(id string) {
	s.active = id
	s.ids = map[string]bool{}
}

// SelectRange selects the inclusive span between the current active item
// (the anchor) and targetID within visibleIDs. With no prior active item the
// anchor is targetID itself. The active item afterward is always targetID,
// whichever side of the anchor it lies on. A target that is not visible
// leaves the selection unchanged.
func (s *Selection) SelectRange(targetID string, visibleIDs []string) {
	ti := indexOf(visibleIDs, targetID)
	if ti < 0 {
		return
	}

	anchor := s.active
	ai := indexOf(visibleIDs, anchor)
	if anchor == "" || ai < 0 {
		ai = ti
	}

	lo, hi := ai, ti
	if lo > hi {
		lo, hi = hi, lo
	}

	ids := make(map[string]bool, hi-lo+1)
	for _, id := range visibleIDs[lo : hi+1] {
		ids[id] = true
	}
	s.ids = ids
	s.active = targetID
}

// Scope resolves the operand set for a batch-capable command: the whole
// selection when targetID is a member of a multi-selection larger than one,
// otherwise just targetID. order supplies document order for the returned
// slice. Every batch command (duplicate, delete, reorder) goes through this
// so the rule exists exactly once.
func (s *Selection) Scope(targetID string, order []string) []string {
	if s.Len() > 1 && s.Contains(targetID) {
		out := make([]string, 0, s.Len())
		for _, id := range order {
			if s.ids[id] {
				out = append(out, id)
			}
		}
		// Selected ids missing from order (shouldn't happen after Prune)
		// are dropped rather than returned in arbitrary order.
		return out
	}
	return []string{targetID}
}

// Prune drops the active pointer and any selected ids for which exists
// reports false. Called after every removal so no dangling reference
// survives a mutation.
func (s *Selection) Prune(exists func(id string) bool) {
	if s.active != "" && !exists(s.active) {
		s.active = ""
	}
	for id := range s.ids {
		if !exists(id) {
			delete(s.ids, id)
		}
	}
}

// Clear drops both the active item and the multi-selection.
func (s *Selection) Clear() {
	s.active = ""
	s.ids = map[string]bool{}
}

func indexOf(ids []string, id string) int {
	for i := range ids {
		if ids[i] == id {
			return i
		}
	}
	return -1
}
