package mutate

import (
	"fmt"
	"reflect"
	"testing"

	"preflight-cli/internal/model"
)

func fileFixture() model.File {
	return model.File{
		ID:   "file-1",
		Name: "N123AB",
		Groups: []model.Group{
			{
				ID:       "grp-normal",
				Name:     "Normal",
				Category: model.CategoryNormal,
				Checklists: []model.Checklist{
					{ID: "ckl-pre", Name: "Preflight", Items: []model.Item{
						item("cabin", model.KindTitle, 0),
						item("a", model.KindChallengeResponse, 1),
						item("b-note", model.KindNote, 2),
					}},
					{ID: "ckl-taxi", Name: "Taxi", Items: []model.Item{
						item("t1", model.KindChallengeResponse, 0),
					}},
				},
			},
			{
				ID:       "grp-emer",
				Name:     "Emergency",
				Category: model.CategoryEmergency,
				Checklists: []model.Checklist{
					{ID: "ckl-fire", Name: "Engine Fire", Items: []model.Item{
						item("f1", model.KindChallengeResponse, 0),
					}},
				},
			},
		},
	}
}

func checklistIDs(g model.Group) []string {
	out := make([]string, len(g.Checklists))
	for i := range g.Checklists {
		out[i] = g.Checklists[i].ID
	}
	return out
}

func testGen(checklistID string) IDs {
	n := 0
	return IDs{
		NewChecklistID: func() string { return checklistID },
		NewItemID: func() string {
			n++
			return fmt.Sprintf("item-%d", n)
		},
	}
}

func TestMoveChecklist(t *testing.T) {
	f := fileFixture()

	out, res := MoveChecklist(f, "grp-normal", "grp-emer", "ckl-pre", 0)
	if !res.Changed {
		t.Fatalf("expected changed")
	}
	if got := checklistIDs(out.Groups[0]); !reflect.DeepEqual(got, []string{"ckl-taxi"}) {
		t.Fatalf("source group = %v", got)
	}
	if got := checklistIDs(out.Groups[1]); !reflect.DeepEqual(got, []string{"ckl-pre", "ckl-fire"}) {
		t.Fatalf("target group = %v", got)
	}

	// The item sequence, including relative depths, moves intact.
	moved := out.Groups[1].Checklists[0]
	if len(moved.Items) != 3 || moved.Items[2].Depth != 2 {
		t.Fatalf("item sequence changed: %+v", moved.Items)
	}

	// The input file is untouched.
	if got := checklistIDs(f.Groups[0]); !reflect.DeepEqual(got, []string{"ckl-pre", "ckl-taxi"}) {
		t.Fatalf("input mutated: %v", got)
	}
}

func TestMoveChecklistAppendsWhenIndexNegative(t *testing.T) {
	f := fileFixture()
	out, res := MoveChecklist(f, "grp-normal", "grp-emer", "ckl-taxi", -1)
	if !res.Changed {
		t.Fatalf("expected changed")
	}
	if got := checklistIDs(out.Groups[1]); !reflect.DeepEqual(got, []string{"ckl-fire", "ckl-taxi"}) {
		t.Fatalf("target group = %v", got)
	}
}

func TestMoveChecklistUnknownIDs(t *testing.T) {
	f := fileFixture()
	if _, res := MoveChecklist(f, "grp-normal", "nope", "ckl-pre", 0); res.Changed {
		t.Fatalf("unknown target group must be a no-op")
	}
	if _, res := MoveChecklist(f, "grp-normal", "grp-emer", "nope", 0); res.Changed {
		t.Fatalf("unknown checklist must be a no-op")
	}
}

func TestCopyChecklistFreshIDs(t *testing.T) {
	f := fileFixture()

	out, res := CopyChecklist(f, "grp-normal", "grp-emer", "ckl-pre", -1, testGen("ckl-copy"))
	if !res.Changed || res.ID != "ckl-copy" {
		t.Fatalf("res = %+v", res)
	}

	// Source untouched.
	if got := checklistIDs(out.Groups[0]); !reflect.DeepEqual(got, []string{"ckl-pre", "ckl-taxi"}) {
		t.Fatalf("source group = %v", got)
	}

	dup := out.Groups[1].Checklists[1]
	src := out.Groups[0].Checklists[0]
	if dup.Name != src.Name || len(dup.Items) != len(src.Items) {
		t.Fatalf("copy differs: %+v", dup)
	}
	for i := range dup.Items {
		if dup.Items[i].ID == src.Items[i].ID {
			t.Fatalf("item %d kept its id", i)
		}
		if dup.Items[i].Depth != src.Items[i].Depth || dup.Items[i].Challenge != src.Items[i].Challenge {
			t.Fatalf("item %d fields differ", i)
		}
	}
}

func TestAddGroupAndChecklist(t *testing.T) {
	f := fileFixture()

	out, res := AddGroup(f, "Abnormal", model.CategoryAbnormal, "grp-abn")
	if !res.Changed || res.ID != "grp-abn" {
		t.Fatalf("res = %+v", res)
	}
	if len(out.Groups) != 3 || out.Groups[2].Category != model.CategoryAbnormal {
		t.Fatalf("groups = %+v", out.Groups)
	}

	out, res = AddChecklist(out, "grp-abn", "Alternator Failure", "ckl-alt")
	if !res.Changed || res.ID != "ckl-alt" {
		t.Fatalf("res = %+v", res)
	}
	if got := checklistIDs(out.Groups[2]); !reflect.DeepEqual(got, []string{"ckl-alt"}) {
		t.Fatalf("checklists = %v", got)
	}

	if _, res := AddChecklist(f, "nope", "x", "ckl-x"); res.Changed {
		t.Fatalf("unknown group must be a no-op")
	}
	if len(f.Groups) != 2 {
		t.Fatalf("input mutated")
	}
}

func TestRenameChecklist(t *testing.T) {
	f := fileFixture()

	out, res := RenameChecklist(f, "ckl-pre", "Before Start")
	if !res.Changed || out.Groups[0].Checklists[0].Name != "Before Start" {
		t.Fatalf("rename failed: %+v", res)
	}
	if _, res := RenameChecklist(f, "ckl-pre", "Preflight"); res.Changed {
		t.Fatalf("identical name must be a no-op")
	}
	if _, res := RenameChecklist(f, "nope", "x"); res.Changed {
		t.Fatalf("unknown checklist must be a no-op")
	}
}

func TestRemoveChecklist(t *testing.T) {
	f := fileFixture()

	out, res := RemoveChecklist(f, "ckl-pre")
	if !res.Changed {
		t.Fatalf("expected changed")
	}
	if got := checklistIDs(out.Groups[0]); !reflect.DeepEqual(got, []string{"ckl-taxi"}) {
		t.Fatalf("checklists = %v", got)
	}
	if _, res := RemoveChecklist(f, "nope"); res.Changed {
		t.Fatalf("unknown checklist must be a no-op")
	}
}

func TestMoveChecklistAcrossFiles(t *testing.T) {
	src := fileFixture()
	dst := model.File{
		ID: "file-2",
		Groups: []model.Group{
			{ID: "grp-x", Category: model.CategoryNormal},
		},
	}

	outSrc, outDst, res := MoveChecklistAcrossFiles(src, dst, "grp-normal", "grp-x", "ckl-pre", -1)
	if !res.Changed {
		t.Fatalf("expected changed")
	}
	if got := checklistIDs(outSrc.Groups[0]); !reflect.DeepEqual(got, []string{"ckl-taxi"}) {
		t.Fatalf("source = %v", got)
	}
	if got := checklistIDs(outDst.Groups[0]); !reflect.DeepEqual(got, []string{"ckl-pre"}) {
		t.Fatalf("dest = %v", got)
	}

	if _, _, res := MoveChecklistAcrossFiles(src, dst, "grp-normal", "nope", "ckl-pre", -1); res.Changed {
		t.Fatalf("unknown group must be a no-op")
	}
}

func TestCopyChecklistAcrossFiles(t *testing.T) {
	src := fileFixture()
	dst := model.File{
		ID:     "file-2",
		Groups: []model.Group{{ID: "grp-x", Category: model.CategoryNormal}},
	}

	outDst, res := CopyChecklistAcrossFiles(src, dst, "grp-normal", "grp-x", "ckl-pre", -1, testGen("ckl-copy2"))
	if !res.Changed || res.ID != "ckl-copy2" {
		t.Fatalf("res = %+v", res)
	}
	if got := checklistIDs(outDst.Groups[0]); !reflect.DeepEqual(got, []string{"ckl-copy2"}) {
		t.Fatalf("dest = %v", got)
	}
	// Source file value is untouched.
	if got := checklistIDs(src.Groups[0]); !reflect.DeepEqual(got, []string{"ckl-pre", "ckl-taxi"}) {
		t.Fatalf("source mutated: %v", got)
	}
}
