package beads

import (
	"errors"
	"strings"
	"testing"
)

type fakeRunner struct {
	responses map[string]string
	err       error
	calls     [][]string
}

func (f *fakeRunner) Run(args ...string) (string, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return "", f.err
	}
	return f.responses[strings.Join(args, " ")], nil
}

func TestChildrenParsesReadyOutput(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"bd ready --parent root --json": `[
			{"id": "a", "issue_type": "task", "status": "open", "priority": 2},
			{"id": "b", "issue_type": "epic", "status": "open", "priority": null}
		]`,
	}}
	adapter := New(runner)

	nodes, err := adapter.Children("root")
	if err != nil {
		t.Fatalf("Children returned error: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].ID != "a" || nodes[0].Priority == nil || *nodes[0].Priority != 2 {
		t.Fatalf("unexpected first node %+v", nodes[0])
	}
	if nodes[1].Priority != nil {
		t.Fatalf("null priority should stay nil, got %+v", nodes[1])
	}
}

func TestChildrenRejectsMalformedPayload(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"bd ready --parent root --json": `[{"id": 42}]`,
	}}
	adapter := New(runner)

	if _, err := adapter.Children("root"); err == nil {
		t.Fatal("expected schema violation error")
	} else if !strings.Contains(err.Error(), "bd ready") {
		t.Fatalf("error should name the source command: %v", err)
	}
}

func TestChildrenPropagatesRunnerError(t *testing.T) {
	wantErr := errors.New("bd not found")
	adapter := New(&fakeRunner{err: wantErr})

	if _, err := adapter.Children("root"); !errors.Is(err, wantErr) {
		t.Fatalf("expected runner error, got %v", err)
	}
}

func TestShowReturnsFirstIssue(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"bd show bead-1 --json": `[{"id": "bead-1", "title": "Add login", "description": "desc", "acceptance_criteria": "ac", "status": "open"}]`,
	}}
	adapter := New(runner)

	task, err := adapter.Show("bead-1")
	if err != nil {
		t.Fatalf("Show returned error: %v", err)
	}
	if task.Title != "Add login" || task.AcceptanceCriteria != "ac" || task.Status != "open" {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestShowEmptyListIsAnError(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"bd show missing --json": `[]`,
	}}
	adapter := New(runner)

	if _, err := adapter.Show("missing"); err == nil {
		t.Fatal("expected error for missing issue")
	}
}

func TestTreeAssemblesNestedEpics(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"bd ready --parent root --json": `[
			{"id": "e1", "issue_type": "epic", "status": "open", "priority": 1},
			{"id": "t1", "issue_type": "task", "status": "open", "priority": 2}
		]`,
		"bd ready --parent e1 --json": `[
			{"id": "t2", "issue_type": "task", "status": "open"}
		]`,
	}}
	adapter := New(runner)

	tree, err := adapter.Tree("root")
	if err != nil {
		t.Fatalf("Tree returned error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
	if len(tree.Children[0].Children) != 1 || tree.Children[0].Children[0].ID != "t2" {
		t.Fatalf("epic subtree not populated: %+v", tree.Children[0])
	}
}

func TestMutationsUseExpectedArgs(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{}}
	adapter := New(runner)

	if err := adapter.UpdateStatus("bead-1", "in_progress"); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if err := adapter.Close("bead-1"); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := adapter.Sync(); err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}

	want := [][]string{
		{"bd", "update", "bead-1", "--status", "in_progress"},
		{"bd", "close", "bead-1"},
		{"bd", "sync"},
	}
	if len(runner.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), runner.calls)
	}
	for i := range want {
		if strings.Join(runner.calls[i], " ") != strings.Join(want[i], " ") {
			t.Fatalf("call %d = %v, want %v", i, runner.calls[i], want[i])
		}
	}
}
