package mutate

import "preflight-cli/internal/model"

// IDs supplies fresh identifiers to operations that clone checklists.
// Wired to the random-id scheme by the document layer; tests pass
// deterministic generators.
type IDs struct {
	NewChecklistID func() string
	NewItemID      func() string
}

func groupIndex(f model.File, groupID string) int {
	for i := range f.Groups {
		if f.Groups[i].ID == groupID {
			return i
		}
	}
	return -1
}

func checklistIndex(g model.Group, checklistID string) int {
	for i := range g.Checklists {
		if g.Checklists[i].ID == checklistID {
			return i
		}
	}
	return -1
}

func insertChecklist(g model.Group, c model.Checklist, targetIdx int) model.Group {
	if targetIdx < 0 || targetIdx > len(g.Checklists) {
		targetIdx = len(g.Checklists)
	}
	out := make([]model.Checklist, 0, len(g.Checklists)+1)
	out = append(out, g.Checklists[:targetIdx]...)
	out = append(out, c)
	out = append(out, g.Checklists[targetIdx:]...)
	g.Checklists = out
	return g
}

// MoveChecklist relocates a whole checklist (its full item sequence intact)
// from one group to another within the same file. targetIdx < 0 appends.
// Because all relative depths move with the sequence, no depth
// renormalization is needed. Unknown group or checklist ids are a no-op.
func MoveChecklist(f model.File, sourceGroupID, targetGroupID, checklistID string, targetIdx int) (model.File, Result) {
	si := groupIndex(f, sourceGroupID)
	ti := groupIndex(f, targetGroupID)
	if si < 0 || ti < 0 {
		return f, Result{}
	}
	ci := checklistIndex(f.Groups[si], checklistID)
	if ci < 0 {
		return f, Result{}
	}

	out := f.Clone()
	moved := out.Groups[si].Checklists[ci]
	out.Groups[si].Checklists = append(
		out.Groups[si].Checklists[:ci],
		out.Groups[si].Checklists[ci+1:]...,
	)
	if si == ti && targetIdx > len(out.Groups[ti].Checklists) {
		targetIdx = len(out.Groups[ti].Checklists)
	}
	out.Groups[ti] = insertChecklist(out.Groups[ti], moved, targetIdx)
	return out, Result{Changed: true, ID: checklistID}
}

// CopyChecklist clones a checklist into a target group with fresh ids for
// the checklist and every item. The source is untouched.
func CopyChecklist(f model.File, sourceGroupID, targetGroupID, checklistID string, targetIdx int, gen IDs) (model.File, Result) {
	si := groupIndex(f, sourceGroupID)
	ti := groupIndex(f, targetGroupID)
	if si < 0 || ti < 0 {
		return f, Result{}
	}
	ci := checklistIndex(f.Groups[si], checklistID)
	if ci < 0 {
		return f, Result{}
	}

	out := f.Clone()
	dup := reidentifyChecklist(out.Groups[si].Checklists[ci].Clone(), gen)
	out.Groups[ti] = insertChecklist(out.Groups[ti], dup, targetIdx)
	return out, Result{Changed: true, ID: dup.ID}
}

// MoveChecklistAcrossFiles relocates a checklist between groups of two
// different files. Both updated files are returned; a failed lookup leaves
// both unchanged.
func MoveChecklistAcrossFiles(src, dst model.File, sourceGroupID, targetGroupID, checklistID string, targetIdx int) (model.File, model.File, Result) {
	si := groupIndex(src, sourceGroupID)
	ti := groupIndex(dst, targetGroupID)
	if si < 0 || ti < 0 {
		return src, dst, Result{}
	}
	ci := checklistIndex(src.Groups[si], checklistID)
	if ci < 0 {
		return src, dst, Result{}
	}

	outSrc := src.Clone()
	outDst := dst.Clone()
	moved := outSrc.Groups[si].Checklists[ci]
	outSrc.Groups[si].Checklists = append(
		outSrc.Groups[si].Checklists[:ci],
		outSrc.Groups[si].Checklists[ci+1:]...,
	)
	outDst.Groups[ti] = insertChecklist(outDst.Groups[ti], moved, targetIdx)
	return outSrc, outDst, Result{Changed: true, ID: checklistID}
}

// CopyChecklistAcrossFiles clones a checklist into a group of another file
// with fresh ids throughout.
func CopyChecklistAcrossFiles(src, dst model.File, sourceGroupID, targetGroupID, checklistID string, targetIdx int, gen IDs) (model.File, Result) {
	si := groupIndex(src, sourceGroupID)
	ti := groupIndex(dst, targetGroupID)
	if si < 0 || ti < 0 {
		return dst, Result{}
	}
	ci := checklistIndex(src.Groups[si], checklistID)
	if ci < 0 {
		return dst, Result{}
	}

	outDst := dst.Clone()
	dup := reidentifyChecklist(src.Groups[si].Checklists[ci].Clone(), gen)
	outDst.Groups[ti] = insertChecklist(outDst.Groups[ti], dup, targetIdx)
	return outDst, Result{Changed: true, ID: dup.ID}
}

// AddGroup appends an empty group to the file. An existing group with the
// same name is not an error; names are labels, ids are identity.
func AddGroup(f model.File, name string, category model.GroupCategory, newID string) (model.File, Result) {
	out := f.Clone()
	out.Groups = append(out.Groups, model.Group{
		ID:         newID,
		Name:       name,
		Category:   category,
		Checklists: []model.Checklist{},
	})
	return out, Result{Changed: true, ID: newID}
}

// AddChecklist appends an empty checklist to a group.
func AddChecklist(f model.File, groupID, name, newID string) (model.File, Result) {
	gi := groupIndex(f, groupID)
	if gi < 0 {
		return f, Result{}
	}
	out := f.Clone()
	out.Groups[gi].Checklists = append(out.Groups[gi].Checklists, model.Checklist{
		ID:    newID,
		Name:  name,
		Items: []model.Item{},
	})
	return out, Result{Changed: true, ID: newID}
}

// RenameChecklist sets a checklist's name. Identical names are a no-op.
func RenameChecklist(f model.File, checklistID, name string) (model.File, Result) {
	for gi := range f.Groups {
		ci := checklistIndex(f.Groups[gi], checklistID)
		if ci < 0 {
			continue
		}
		if f.Groups[gi].Checklists[ci].Name == name {
			return f, Result{}
		}
		out := f.Clone()
		out.Groups[gi].Checklists[ci].Name = name
		return out, Result{Changed: true, ID: checklistID}
	}
	return f, Result{}
}

// RemoveChecklist deletes a checklist and its whole item sequence.
func RemoveChecklist(f model.File, checklistID string) (model.File, Result) {
	for gi := range f.Groups {
		ci := checklistIndex(f.Groups[gi], checklistID)
		if ci < 0 {
			continue
		}
		out := f.Clone()
		out.Groups[gi].Checklists = append(
			out.Groups[gi].Checklists[:ci],
			out.Groups[gi].Checklists[ci+1:]...,
		)
		return out, Result{Changed: true, ID: checklistID}
	}
	return f, Result{}
}

func reidentifyChecklist(c model.Checklist, gen IDs) model.Checklist {
	c.ID = gen.NewChecklistID()
	for i := range c.Items {
		c.Items[i].ID = gen.NewItemID()
	}
	return c
}
