package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: preflight %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope with data key; got:\n%s", string(stdout))
	}
	return env
}

func data(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	d, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("data is not an object: %#v", env["data"])
	}
	return d
}

func TestCLISmoke(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "init")
	mustRun(t, "--dir", dir, "files", "create", "N123AB", "--make", "Cessna", "--model", "172S")

	// The fresh file carries one "Main" checklist in a "Normal" group.
	lists := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "checklists", "list"))
	groups := lists["groups"].([]any)
	if len(groups) != 1 {
		t.Fatalf("groups = %#v", groups)
	}

	// Build up a small checklist by name reference.
	a := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "items", "add",
		"--checklist", "Main", "--kind", "title", "--challenge", "CABIN"))
	if a["changed"] != true {
		t.Fatalf("add: %#v", a)
	}
	b := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "items", "add",
		"--checklist", "Main", "--challenge", "Master switch", "--response", "ON"))
	bID, _ := b["id"].(string)
	if bID == "" {
		t.Fatalf("add did not return an id: %#v", b)
	}
	mustRun(t, "--dir", dir, "--file", "N123AB", "items", "indent", bID, "--checklist", "Main")

	items := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "items", "list", "--checklist", "Main"))
	rows := items["items"].([]any)
	if len(rows) != 2 {
		t.Fatalf("items = %#v", rows)
	}
	second := rows[1].(map[string]any)
	if second["challenge"] != "Master switch" || second["response"] != "ON" {
		t.Fatalf("item fields: %#v", second)
	}
	if second["depth"] != float64(1) {
		t.Fatalf("indent did not persist: %#v", second)
	}

	// Edits survive separate invocations because every command round-trips
	// through the workspace files.
	set := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "items", "set", bID,
		"--checklist", "Main", "--response", "CHECK ON"))
	if set["changed"] != true {
		t.Fatalf("set: %#v", set)
	}
	noop := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "items", "set", bID,
		"--checklist", "Main", "--response", "CHECK ON"))
	if noop["changed"] != false {
		t.Fatalf("no-op edit must report changed=false: %#v", noop)
	}
}

func TestCLIChecklistTransfer(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "files", "create", "N123AB")
	mustRun(t, "--dir", dir, "files", "create", "N456CD")

	grp := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "checklists", "add-group",
		"--name", "Emergency", "--category", "emergency"))
	grpID, _ := grp["id"].(string)
	if grpID == "" {
		t.Fatalf("add-group: %#v", grp)
	}

	added := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "checklists", "add",
		"--name", "Engine Fire", "--group", grpID))
	cklID, _ := added["id"].(string)
	if cklID == "" {
		t.Fatalf("add: %#v", added)
	}

	// Copy it into the other file's only group.
	other := data(t, mustRun(t, "--dir", dir, "--file", "N456CD", "checklists", "list"))
	otherGroup := other["groups"].([]any)[0].(map[string]any)
	otherGroupID := otherGroup["id"].(string)

	copied := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "checklists", "copy", cklID,
		"--to-file", "N456CD", "--to-group", otherGroupID))
	if copied["changed"] != true {
		t.Fatalf("copy: %#v", copied)
	}
	if copied["id"] == cklID {
		t.Fatalf("copy kept the source id")
	}

	// Source still has it; target gained one.
	srcLists := data(t, mustRun(t, "--dir", dir, "--file", "N123AB", "checklists", "list"))
	if n := countChecklists(srcLists); n != 2 {
		t.Fatalf("source checklists = %d; want 2", n)
	}
	dstLists := data(t, mustRun(t, "--dir", dir, "--file", "N456CD", "checklists", "list"))
	if n := countChecklists(dstLists); n != 2 {
		t.Fatalf("target checklists = %d; want 2", n)
	}
}

func countChecklists(listData map[string]any) int {
	n := 0
	for _, g := range listData["groups"].([]any) {
		n += len(g.(map[string]any)["checklists"].([]any))
	}
	return n
}
