package opencode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateAgentMissingFile(t *testing.T) {
	err := ValidateAgent(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "missing yolo agent file") {
		t.Fatalf("expected missing-file error, got %v", err)
	}
}

func TestValidateAgentRequiresPermissionAllow(t *testing.T) {
	repoRoot := t.TempDir()
	agentPath := filepath.Join(repoRoot, ".opencode", "agent", "yolo.md")
	if err := os.MkdirAll(filepath.Dir(agentPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(agentPath, []byte("# yolo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateAgent(repoRoot); err == nil || !strings.Contains(err.Error(), "permission") {
		t.Fatalf("expected permission error, got %v", err)
	}

	if err := os.WriteFile(agentPath, []byte("# yolo\npermission: allow\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateAgent(repoRoot); err != nil {
		t.Fatalf("valid agent rejected: %v", err)
	}
}

func TestInitAgentCopiesTemplate(t *testing.T) {
	repoRoot := t.TempDir()
	template := "# yolo\npermission: allow\n"
	if err := os.WriteFile(filepath.Join(repoRoot, "yolo.md"), []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitAgent(repoRoot); err != nil {
		t.Fatalf("InitAgent returned error: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(repoRoot, ".opencode", "agent", "yolo.md"))
	if err != nil || string(content) != template {
		t.Fatalf("template not copied: %q %v", content, err)
	}
	if err := ValidateAgent(repoRoot); err != nil {
		t.Fatalf("initialized agent should validate: %v", err)
	}
}
