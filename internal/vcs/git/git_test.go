package git

import (
	"errors"
	"strings"
	"testing"
)

type fakeRunner struct {
	output string
	err    error
	calls  []string
}

func (f *fakeRunner) Run(name string, args ...string) (string, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	return f.output, f.err
}

func TestIsDirtyTrimsPorcelainOutput(t *testing.T) {
	runner := &fakeRunner{output: "\n  \n"}
	adapter := New(runner)

	dirty, err := adapter.IsDirty()
	if err != nil {
		t.Fatalf("IsDirty returned error: %v", err)
	}
	if dirty {
		t.Fatal("whitespace-only status should not be dirty")
	}

	runner.output = " M main.go\n"
	dirty, err = adapter.IsDirty()
	if err != nil {
		t.Fatalf("IsDirty returned error: %v", err)
	}
	if !dirty {
		t.Fatal("pending change should be dirty")
	}
}

func TestRevParseHeadTrimsNewline(t *testing.T) {
	runner := &fakeRunner{output: "abc123\n"}
	adapter := New(runner)

	sha, err := adapter.RevParseHead()
	if err != nil {
		t.Fatalf("RevParseHead returned error: %v", err)
	}
	if sha != "abc123" {
		t.Fatalf("expected trimmed sha, got %q", sha)
	}
}

func TestAdapterArgs(t *testing.T) {
	runner := &fakeRunner{}
	adapter := New(runner)

	_ = adapter.AddAll()
	_ = adapter.Commit("feat: add login")
	_ = adapter.RestoreAll()
	_ = adapter.CleanAll()

	want := []string{
		"git add .",
		"git commit -m feat: add login",
		"git restore .",
		"git clean -fd",
	}
	if len(runner.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), runner.calls)
	}
	for i := range want {
		if runner.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, runner.calls[i], want[i])
		}
	}
}

func TestErrorsPropagate(t *testing.T) {
	wantErr := errors.New("not a repository")
	adapter := New(&fakeRunner{err: wantErr})

	if _, err := adapter.IsDirty(); !errors.Is(err, wantErr) {
		t.Fatalf("expected runner error, got %v", err)
	}
	if _, err := adapter.RevParseHead(); !errors.Is(err, wantErr) {
		t.Fatalf("expected runner error, got %v", err)
	}
}
