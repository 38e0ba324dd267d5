package mutate

import (
	"reflect"
	"testing"

	"preflight-cli/internal/model"
	"preflight-cli/internal/outline"
)

func item(id string, kind model.ItemKind, depth int) model.Item {
	return model.Item{ID: id, Kind: kind, Challenge: id, Depth: depth}
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func fixture() []model.Item {
	return []model.Item{
		item("cabin", model.KindTitle, 0),
		item("a", model.KindChallengeResponse, 1),
		item("b", model.KindChallengeResponse, 1),
		item("b-note", model.KindNote, 2),
		item("c", model.KindChallengeOnly, 0),
	}
}

func TestInsertDepthMatchesPreceding(t *testing.T) {
	items := fixture()

	out, res := Insert(items, model.KindChallengeResponse, 2, "new-1") // after "b" (d1)
	if !res.Changed || res.ID == "" {
		t.Fatalf("expected changed insert; got %+v", res)
	}
	if got := out[3].ID; got != res.ID {
		t.Fatalf("inserted at wrong position: %v", ids(out))
	}
	if out[3].Depth != 1 {
		t.Fatalf("depth = %d; want 1 (preceding item's depth)", out[3].Depth)
	}
	if len(out) != len(items)+1 {
		t.Fatalf("len = %d; want %d", len(out), len(items)+1)
	}
}

func TestInsertAtStartAndEnd(t *testing.T) {
	items := fixture()

	out, res := Insert(items, model.KindNote, -1, "new-1")
	if !res.Changed || out[0].ID != res.ID || out[0].Depth != 0 {
		t.Fatalf("insert at start: %v depth=%d", ids(out), out[0].Depth)
	}

	out, res = Insert(items, model.KindNote, len(items)-1, "new-2")
	last := out[len(out)-1]
	if !res.Changed || last.ID != res.ID {
		t.Fatalf("insert at end: %v", ids(out))
	}
	if last.Depth != 0 { // preceding item "c" has depth 0
		t.Fatalf("depth = %d; want 0", last.Depth)
	}

	if _, res := Insert(items, model.KindNote, len(items), "new-3"); res.Changed {
		t.Fatalf("out-of-range insert must be a no-op")
	}

	var empty []model.Item
	out, res = Insert(empty, model.KindTitle, -1, "new-4")
	if !res.Changed || len(out) != 1 || out[0].Depth != 0 {
		t.Fatalf("insert into empty: %v", out)
	}
}

func TestInsertDoesNotMutateInput(t *testing.T) {
	items := fixture()
	before := make([]model.Item, len(items))
	copy(before, items)

	_, _ = Insert(items, model.KindNote, 0, "new-1")
	if !reflect.DeepEqual(items, before) {
		t.Fatalf("input mutated")
	}
}

func TestRemoveLeavesDescendants(t *testing.T) {
	items := fixture()

	// Removing "b" must not cascade to "b-note"; its depth stays 2 even
	// though its inferred parent is now "a".
	out, res := Remove(items, "b")
	if !res.Changed {
		t.Fatalf("expected changed")
	}
	want := []string{"cabin", "a", "b-note", "c"}
	if !reflect.DeepEqual(ids(out), want) {
		t.Fatalf("ids = %v; want %v", ids(out), want)
	}
	if out[2].Depth != 2 {
		t.Fatalf("descendant depth renormalized: %d", out[2].Depth)
	}

	if _, res := Remove(items, "nope"); res.Changed {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestDuplicateSingleItem(t *testing.T) {
	items := []model.Item{
		item("cabin", model.KindTitle, 0),
		item("a", model.KindChallengeResponse, 1),
		item("b", model.KindChallengeResponse, 1),
	}

	out, res := Duplicate(items, "b", "new-1")
	if !res.Changed {
		t.Fatalf("expected changed")
	}
	if len(out) != 4 {
		t.Fatalf("len = %d; want 4", len(out))
	}
	dup := out[3]
	if dup.ID == "b" || dup.ID != res.ID {
		t.Fatalf("duplicate id not fresh: %q", dup.ID)
	}
	if dup.Challenge != "b" || dup.Depth != 1 {
		t.Fatalf("duplicate fields differ: %+v", dup)
	}

	// The worked example: after duplicating B the title owns three items.
	if got := outline.ChildCount(out, 0); got != 3 {
		t.Fatalf("ChildCount = %d; want 3", got)
	}

	// Descendants are not duplicated.
	out2, _ := Duplicate(fixture(), "b", "new-2")
	want := []string{"cabin", "a", "b", "new-2", "b-note", "c"}
	if !reflect.DeepEqual(ids(out2), want) {
		t.Fatalf("ids = %v; want %v", ids(out2), want)
	}
}

func TestSetDepth(t *testing.T) {
	items := fixture()

	out, res := SetDepth(items, "a", 1)
	if !res.Changed || out[1].Depth != 2 {
		t.Fatalf("indent failed: %+v", out[1])
	}

	// +1 then -1 restores the original depth.
	back, res := SetDepth(out, "a", -1)
	if !res.Changed || back[1].Depth != 1 {
		t.Fatalf("outdent failed: %+v", back[1])
	}
	if !reflect.DeepEqual(back, items) {
		t.Fatalf("round trip differs")
	}
}

func TestSetDepthBoundaries(t *testing.T) {
	items := fixture()

	if _, res := SetDepth(items, "cabin", -1); res.Changed {
		t.Fatalf("outdent at depth 0 must be a no-op")
	}

	deep := []model.Item{item("x", model.KindChallengeResponse, model.MaxDepth)}
	if _, res := SetDepth(deep, "x", 1); res.Changed {
		t.Fatalf("indent at max depth must be a no-op")
	}

	if _, res := SetDepth(items, "a", 2); res.Changed {
		t.Fatalf("delta other than +/-1 must be a no-op")
	}
	if _, res := SetDepth(items, "nope", 1); res.Changed {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestSetDepthBesideTitleIsDocumentedBehavior(t *testing.T) {
	// Indenting a depth-0 item whose only preceding lower-or-equal item is
	// the title succeeds; no intermediate parent is required.
	items := []model.Item{
		item("cabin", model.KindTitle, 0),
		item("a", model.KindChallengeResponse, 0),
	}
	out, res := SetDepth(items, "a", 1)
	if !res.Changed || out[1].Depth != 1 {
		t.Fatalf("expected depth 1; got %+v", out[1])
	}
}

func TestReorder(t *testing.T) {
	items := fixture()

	out, res := Reorder(items, 1, 3)
	if !res.Changed {
		t.Fatalf("expected changed")
	}
	want := []string{"cabin", "b", "b-note", "a", "c"}
	if !reflect.DeepEqual(ids(out), want) {
		t.Fatalf("ids = %v; want %v", ids(out), want)
	}
	// Depths travel with their items.
	if out[3].Depth != 1 {
		t.Fatalf("depth changed on reorder: %d", out[3].Depth)
	}

	// reorder(a,b) then reorder(b,a) restores the original order.
	back, _ := Reorder(out, 3, 1)
	if !reflect.DeepEqual(back, items) {
		t.Fatalf("round trip differs: %v", ids(back))
	}
}

func TestReorderOutOfRange(t *testing.T) {
	items := fixture()
	cases := [][2]int{{-1, 2}, {2, -1}, {0, 99}, {99, 0}, {2, 2}}
	for _, c := range cases {
		if _, res := Reorder(items, c[0], c[1]); res.Changed {
			t.Fatalf("Reorder(%d,%d) must be a no-op", c[0], c[1])
		}
	}
}

func TestReorderBatch(t *testing.T) {
	items := fixture()

	// Move the non-contiguous set {a, c} as one block to drop index 1
	// (after "cabin" in the remaining sequence), preserving relative order.
	out, res := ReorderBatch(items, []string{"c", "a"}, 1)
	if !res.Changed {
		t.Fatalf("expected changed")
	}
	want := []string{"cabin", "a", "c", "b", "b-note"}
	if !reflect.DeepEqual(ids(out), want) {
		t.Fatalf("ids = %v; want %v", ids(out), want)
	}

	// Unknown ids are dropped from the set.
	out2, res2 := ReorderBatch(items, []string{"a", "ghost"}, 0)
	if !res2.Changed {
		t.Fatalf("expected changed")
	}
	if !reflect.DeepEqual(ids(out2), []string{"a", "cabin", "b", "b-note", "c"}) {
		t.Fatalf("ids = %v", ids(out2))
	}

	if _, res := ReorderBatch(items, []string{"ghost"}, 0); res.Changed {
		t.Fatalf("all-unknown set must be a no-op")
	}

	// Target index beyond the remainder clamps to the end.
	out3, _ := ReorderBatch(items, []string{"cabin"}, 99)
	if !reflect.DeepEqual(ids(out3), []string{"a", "b", "b-note", "c", "cabin"}) {
		t.Fatalf("ids = %v", ids(out3))
	}
}

func TestReorderBatchIdentityIsNoOp(t *testing.T) {
	items := fixture()

	// Dropping the block at its own position leaves the order unchanged and
	// must not report a change.
	if _, res := ReorderBatch(items, []string{"a", "b"}, 1); res.Changed {
		t.Fatalf("identity block move must be a no-op")
	}
	if _, res := ReorderBatch(items, []string{"cabin"}, 0); res.Changed {
		t.Fatalf("identity single move must be a no-op")
	}
	// Clamping past the end with the last item selected is also an identity.
	if _, res := ReorderBatch(items, []string{"c"}, 99); res.Changed {
		t.Fatalf("clamped identity move must be a no-op")
	}
}

func TestSetText(t *testing.T) {
	items := fixture()

	out, res := SetText(items, "a", "Landing gear", "DOWN")
	if !res.Changed || out[1].Challenge != "Landing gear" || out[1].Response != "DOWN" {
		t.Fatalf("SetText: %+v", out[1])
	}
	if items[1].Challenge != "a" {
		t.Fatalf("input mutated")
	}

	if _, res := SetText(items, "a", "a", ""); res.Changed {
		t.Fatalf("identical text must be a no-op")
	}
	if _, res := SetText(items, "nope", "x", ""); res.Changed {
		t.Fatalf("unknown id must be a no-op")
	}
}
