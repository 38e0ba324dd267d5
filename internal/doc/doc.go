// Package doc holds the open files and coordinates every edit against them.
//
// The Store is the single mutation entry point: each edit runs a pure
// operation from internal/mutate against a cloned partition, commits the
// before/after pair to history, marks the touched file dirty and re-validates
// selection and collapse state. View state (collapse toggles, selection
// moves) bypasses history and the dirty flag entirely.
//
// A Store is confined to one goroutine. The TUI update loop and the CLI both
// call it synchronously; there is no internal locking.
package doc

import (
	"preflight-cli/internal/history"
	"preflight-cli/internal/ids"
	"preflight-cli/internal/model"
	"preflight-cli/internal/mutate"
	"preflight-cli/internal/outline"
	"preflight-cli/internal/selection"
)

type Store struct {
	files     []model.File
	collapsed map[string]map[string]bool // checklist id -> collapsed item ids
	sel       *selection.Selection
	hist      *history.History

	// newID is swappable so tests get deterministic identifiers.
	newID func(prefix string) string

	curFile      string
	curChecklist string
}

func New() *Store {
	return &Store{
		collapsed: map[string]map[string]bool{},
		sel:       selection.New(),
		hist:      history.New(0),
		newID:     ids.New,
	}
}

// Files returns the open files. Callers must treat the result as read-only;
// every mutation goes through a Store method.
func (s *Store) Files() []model.File { return s.files }

func (s *Store) File(fileID string) (model.File, bool) {
	for i := range s.files {
		if s.files[i].ID == fileID {
			return s.files[i], true
		}
	}
	return model.File{}, false
}

// Add opens a file. History is cleared: earlier snapshots do not contain the
// new file and undoing across the open would silently drop it.
func (s *Store) Add(f model.File) {
	s.files = append(s.files, f)
	s.hist.Clear()
}

// Close drops an open file along with its collapse state. History is cleared
// for the same reason as in Add.
func (s *Store) Close(fileID string) bool {
	for i := range s.files {
		if s.files[i].ID == fileID {
			s.files = append(s.files[:i], s.files[i+1:]...)
			s.hist.Clear()
			s.reconcile()
			return true
		}
	}
	return false
}

// MarkSaved clears the dirty flag after a successful write to disk.
func (s *Store) MarkSaved(fileID string) {
	for i := range s.files {
		if s.files[i].ID == fileID {
			s.files[i].Dirty = false
		}
	}
}

// SetCurrent points the editor at one checklist. The selection is cleared:
// anchors and ranges are meaningless across checklists.
func (s *Store) SetCurrent(fileID, checklistID string) bool {
	if fi, _, _ := s.locate(fileID, checklistID); fi < 0 {
		return false
	}
	s.curFile = fileID
	s.curChecklist = checklistID
	s.sel.Clear()
	return true
}

func (s *Store) Current() (fileID, checklistID string) {
	return s.curFile, s.curChecklist
}

func (s *Store) CurrentChecklist() (model.Checklist, bool) {
	fi, gi, ci := s.locate(s.curFile, s.curChecklist)
	if fi < 0 {
		return model.Checklist{}, false
	}
	return s.files[fi].Groups[gi].Checklists[ci], true
}

// --- item edits on the current checklist ---

func (s *Store) InsertItem(kind model.ItemKind, afterIdx int) mutate.Result {
	return s.updateItems(func(items []model.Item) ([]model.Item, mutate.Result) {
		return mutate.Insert(items, kind, afterIdx, s.freshID(ids.PrefixItem))
	})
}

func (s *Store) SetItemText(id, challenge, response string) mutate.Result {
	return s.updateItems(func(items []model.Item) ([]model.Item, mutate.Result) {
		return mutate.SetText(items, id, challenge, response)
	})
}

func (s *Store) Indent(id string) mutate.Result {
	return s.updateItems(func(items []model.Item) ([]model.Item, mutate.Result) {
		return mutate.SetDepth(items, id, 1)
	})
}

func (s *Store) Outdent(id string) mutate.Result {
	return s.updateItems(func(items []model.Item) ([]model.Item, mutate.Result) {
		return mutate.SetDepth(items, id, -1)
	})
}

func (s *Store) MoveItem(from, to int) mutate.Result {
	return s.updateItems(func(items []model.Item) ([]model.Item, mutate.Result) {
		return mutate.Reorder(items, from, to)
	})
}

// RemoveItems deletes the target item, widened to the whole multi-selection
// when the target is part of one. The batch commits as a single history
// entry.
func (s *Store) RemoveItems(targetID string) mutate.Result {
	scope := s.sel.Scope(targetID, s.currentItemIDs())
	return s.updateItems(func(items []model.Item) ([]model.Item, mutate.Result) {
		changed := false
		for _, id := range scope {
			var r mutate.Result
			items, r = mutate.Remove(items, id)
			changed = changed || r.Changed
		}
		if !changed {
			return items, mutate.Result{}
		}
		return items, mutate.Result{Changed: true, ID: targetID}
	})
}

// DuplicateItems clones the target item, or every item of the selection when
// the target is a member. Each copy lands immediately after its original;
// the returned ID is the copy of the target.
func (s *Store) DuplicateItems(targetID string) mutate.Result {
	scope := s.sel.Scope(targetID, s.currentItemIDs())
	return s.updateItems(func(items []model.Item) ([]model.Item, mutate.Result) {
		changed := false
		targetCopy := ""
		for _, id := range scope {
			var r mutate.Result
			items, r = mutate.Duplicate(items, id, s.freshID(ids.PrefixItem))
			if r.Changed {
				changed = true
				if id == targetID {
					targetCopy = r.ID
				}
			}
		}
		if !changed {
			return items, mutate.Result{}
		}
		return items, mutate.Result{Changed: true, ID: targetCopy}
	})
}

// MoveItems reorders the target item, widened to the selection, to the drop
// index targetIdx. Relative order within the moved block is preserved.
func (s *Store) MoveItems(targetID string, targetIdx int) mutate.Result {
	scope := s.sel.Scope(targetID, s.currentItemIDs())
	return s.updateItems(func(items []model.Item) ([]model.Item, mutate.Result) {
		return mutate.ReorderBatch(items, scope, targetIdx)
	})
}

// --- checklist edits ---

func (s *Store) MoveChecklist(fileID, sourceGroupID, targetGroupID, checklistID string, targetIdx int) mutate.Result {
	fi := s.fileIndex(fileID)
	if fi < 0 {
		return mutate.Result{}
	}
	out, res := mutate.MoveChecklist(s.files[fi], sourceGroupID, targetGroupID, checklistID, targetIdx)
	if !res.Changed {
		return res
	}
	next := cloneFiles(s.files)
	next[fi] = out
	s.commit(next, fileID)
	return res
}

func (s *Store) CopyChecklist(fileID, sourceGroupID, targetGroupID, checklistID string, targetIdx int) mutate.Result {
	fi := s.fileIndex(fileID)
	if fi < 0 {
		return mutate.Result{}
	}
	out, res := mutate.CopyChecklist(s.files[fi], sourceGroupID, targetGroupID, checklistID, targetIdx, s.idGen())
	if !res.Changed {
		return res
	}
	next := cloneFiles(s.files)
	next[fi] = out
	s.commit(next, fileID)
	return res
}

// MoveChecklistAcrossFiles relocates a checklist between two open files. Both
// files change under a single history entry, so one undo restores both.
func (s *Store) MoveChecklistAcrossFiles(srcFileID, dstFileID, sourceGroupID, targetGroupID, checklistID string, targetIdx int) mutate.Result {
	si := s.fileIndex(srcFileID)
	di := s.fileIndex(dstFileID)
	if si < 0 || di < 0 || si == di {
		return mutate.Result{}
	}
	outSrc, outDst, res := mutate.MoveChecklistAcrossFiles(
		s.files[si], s.files[di], sourceGroupID, targetGroupID, checklistID, targetIdx)
	if !res.Changed {
		return res
	}
	next := cloneFiles(s.files)
	next[si] = outSrc
	next[di] = outDst
	s.commit(next, srcFileID, dstFileID)
	return res
}

func (s *Store) CopyChecklistAcrossFiles(srcFileID, dstFileID, sourceGroupID, targetGroupID, checklistID string, targetIdx int) mutate.Result {
	si := s.fileIndex(srcFileID)
	di := s.fileIndex(dstFileID)
	if si < 0 || di < 0 || si == di {
		return mutate.Result{}
	}
	outDst, res := mutate.CopyChecklistAcrossFiles(
		s.files[si], s.files[di], sourceGroupID, targetGroupID, checklistID, targetIdx, s.idGen())
	if !res.Changed {
		return res
	}
	next := cloneFiles(s.files)
	next[di] = outDst
	s.commit(next, dstFileID)
	return res
}

func (s *Store) AddGroup(fileID, name string, category model.GroupCategory) mutate.Result {
	return s.updateFile(fileID, func(f model.File) (model.File, mutate.Result) {
		return mutate.AddGroup(f, name, category, s.freshID(ids.PrefixGroup))
	})
}

func (s *Store) AddChecklist(fileID, groupID, name string) mutate.Result {
	return s.updateFile(fileID, func(f model.File) (model.File, mutate.Result) {
		return mutate.AddChecklist(f, groupID, name, s.freshID(ids.PrefixChecklist))
	})
}

func (s *Store) RenameChecklist(fileID, checklistID, name string) mutate.Result {
	return s.updateFile(fileID, func(f model.File) (model.File, mutate.Result) {
		return mutate.RenameChecklist(f, checklistID, name)
	})
}

func (s *Store) RemoveChecklist(fileID, checklistID string) mutate.Result {
	return s.updateFile(fileID, func(f model.File) (model.File, mutate.Result) {
		return mutate.RemoveChecklist(f, checklistID)
	})
}

// --- view state: collapse and visibility ---

// ToggleCollapse flips the collapsed state of an item in the current
// checklist. Collapsing an item without descendants is a no-op; expanding is
// always allowed. View state never enters history and never dirties the
// file.
func (s *Store) ToggleCollapse(itemID string) bool {
	ckl, ok := s.CurrentChecklist()
	if !ok {
		return false
	}
	i := ckl.IndexOf(itemID)
	if i < 0 {
		return false
	}

	set := s.collapsed[s.curChecklist]
	if set[itemID] {
		delete(set, itemID)
		return true
	}
	if outline.ChildCount(ckl.Items, i) == 0 {
		return false
	}
	if set == nil {
		set = map[string]bool{}
		s.collapsed[s.curChecklist] = set
	}
	set[itemID] = true
	return true
}

func (s *Store) IsCollapsed(itemID string) bool {
	return s.collapsed[s.curChecklist][itemID]
}

// CollapsedIDs returns the collapse set of a checklist for persistence.
func (s *Store) CollapsedIDs(checklistID string) []string {
	out := make([]string, 0, len(s.collapsed[checklistID]))
	for id := range s.collapsed[checklistID] {
		out = append(out, id)
	}
	return out
}

// SetCollapsed seeds a checklist's collapse set, e.g. from persisted UI
// state. Unknown item ids are dropped on the next reconcile.
func (s *Store) SetCollapsed(checklistID string, itemIDs []string) {
	set := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		set[id] = true
	}
	s.collapsed[checklistID] = set
}

// VisibleItems returns the current checklist's items not hidden by any
// collapsed ancestor, in document order.
func (s *Store) VisibleItems() []model.Item {
	ckl, ok := s.CurrentChecklist()
	if !ok {
		return nil
	}
	idxs := outline.VisibleIndices(ckl.Items, s.collapsed[s.curChecklist])
	out := make([]model.Item, len(idxs))
	for i, idx := range idxs {
		out[i] = ckl.Items[idx]
	}
	return out
}

func (s *Store) VisibleIDs() []string {
	ckl, ok := s.CurrentChecklist()
	if !ok {
		return nil
	}
	return outline.VisibleIDs(ckl.Items, s.collapsed[s.curChecklist])
}

// --- selection ---

func (s *Store) Selection() *selection.Selection { return s.sel }

func (s *Store) SelectSingle(itemID string) bool {
	ckl, ok := s.CurrentChecklist()
	if !ok || ckl.IndexOf(itemID) < 0 {
		return false
	}
	s.sel.SelectSingle(itemID)
	return true
}

// SelectRange extends the selection from the current anchor to targetID over
// the visible items only.
func (s *Store) SelectRange(targetID string) {
	s.sel.SelectRange(targetID, s.VisibleIDs())
}

// --- history ---

func (s *Store) CanUndo() bool { return s.hist.CanUndo() }
func (s *Store) CanRedo() bool { return s.hist.CanRedo() }

// Undo restores the files to their state before the last committed edit.
// Every file is marked dirty because the restored state may differ from what
// is on disk; selection and collapse entries that no longer resolve are
// dropped.
func (s *Store) Undo() bool {
	prev, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.files = prev
	s.markAllDirty()
	s.reconcile()
	return true
}

func (s *Store) Redo() bool {
	next, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.files = next
	s.markAllDirty()
	s.reconcile()
	return true
}

// --- internals ---

func (s *Store) fileIndex(fileID string) int {
	for i := range s.files {
		if s.files[i].ID == fileID {
			return i
		}
	}
	return -1
}

func (s *Store) locate(fileID, checklistID string) (fi, gi, ci int) {
	fi = s.fileIndex(fileID)
	if fi < 0 {
		return -1, -1, -1
	}
	f := &s.files[fi]
	for gi = range f.Groups {
		for ci = range f.Groups[gi].Checklists {
			if f.Groups[gi].Checklists[ci].ID == checklistID {
				return fi, gi, ci
			}
		}
	}
	return -1, -1, -1
}

func (s *Store) currentItemIDs() []string {
	ckl, ok := s.CurrentChecklist()
	if !ok {
		return nil
	}
	out := make([]string, len(ckl.Items))
	for i := range ckl.Items {
		out[i] = ckl.Items[i].ID
	}
	return out
}

// updateItems runs one edit against the current checklist's item sequence.
// A no-op result leaves the store untouched; a change commits exactly one
// history entry.
func (s *Store) updateItems(op func(items []model.Item) ([]model.Item, mutate.Result)) mutate.Result {
	fi, gi, ci := s.locate(s.curFile, s.curChecklist)
	if fi < 0 {
		return mutate.Result{}
	}
	next := cloneFiles(s.files)
	out, res := op(next[fi].Groups[gi].Checklists[ci].Items)
	if !res.Changed {
		return res
	}
	next[fi].Groups[gi].Checklists[ci].Items = out
	s.commit(next, s.curFile)
	return res
}

// updateFile runs one edit against a whole file value, with the same
// no-op/commit contract as updateItems.
func (s *Store) updateFile(fileID string, op func(f model.File) (model.File, mutate.Result)) mutate.Result {
	fi := s.fileIndex(fileID)
	if fi < 0 {
		return mutate.Result{}
	}
	out, res := op(s.files[fi])
	if !res.Changed {
		return res
	}
	next := cloneFiles(s.files)
	next[fi] = out
	s.commit(next, fileID)
	return res
}

func (s *Store) commit(next []model.File, changedFileIDs ...string) {
	s.hist.Commit(s.files, next)
	s.files = next
	for _, id := range changedFileIDs {
		if i := s.fileIndex(id); i >= 0 {
			s.files[i].Dirty = true
		}
	}
	s.reconcile()
}

func (s *Store) markAllDirty() {
	for i := range s.files {
		s.files[i].Dirty = true
	}
}

// reconcile drops selection and collapse entries that no longer resolve
// against the open files. Runs after every commit, undo, redo and close.
func (s *Store) reconcile() {
	itemsByChecklist := map[string]map[string]bool{}
	for i := range s.files {
		for _, g := range s.files[i].Groups {
			for _, c := range g.Checklists {
				set := make(map[string]bool, len(c.Items))
				for _, it := range c.Items {
					set[it.ID] = true
				}
				itemsByChecklist[c.ID] = set
			}
		}
	}

	for cklID, set := range s.collapsed {
		live, ok := itemsByChecklist[cklID]
		if !ok {
			delete(s.collapsed, cklID)
			continue
		}
		for id := range set {
			if !live[id] {
				delete(set, id)
			}
		}
	}

	cur, ok := itemsByChecklist[s.curChecklist]
	if !ok {
		s.curFile = ""
		s.curChecklist = ""
		s.sel.Clear()
		return
	}
	s.sel.Prune(func(id string) bool { return cur[id] })
}

// idGen adapts the store's id source to the copy operations, with a
// uniqueness retry against everything currently open.
func (s *Store) idGen() mutate.IDs {
	return mutate.IDs{
		NewChecklistID: func() string { return s.freshID(ids.PrefixChecklist) },
		NewItemID:      func() string { return s.freshID(ids.PrefixItem) },
	}
}

func (s *Store) freshID(prefix string) string {
	for {
		id := s.newID(prefix)
		if !s.idInUse(id) {
			return id
		}
	}
}

func (s *Store) idInUse(id string) bool {
	for i := range s.files {
		f := &s.files[i]
		if f.ID == id {
			return true
		}
		for _, g := range f.Groups {
			if g.ID == id {
				return true
			}
			for _, c := range g.Checklists {
				if c.ID == id {
					return true
				}
				for _, it := range c.Items {
					if it.ID == id {
						return true
					}
				}
			}
		}
	}
	return false
}

func cloneFiles(files []model.File) []model.File {
	out := make([]model.File, len(files))
	for i := range files {
		out[i] = files[i].Clone()
	}
	return out
}
