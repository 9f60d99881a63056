// Package logging writes the runner's append-only summary log and the
// per-command transcripts.
package logging

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const summaryRelPath = "runner-logs/beadrunner.jsonl"

type summaryEntry struct {
	Timestamp string `json:"timestamp"`
	IssueID   string `json:"issue_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CommitSHA string `json:"commit_sha"`
}

// AppendSummary appends one audit entry under the repository's
// runner-logs directory. Entries are never rewritten; the file is the
// chronological record of terminal outcomes.
func AppendSummary(repoRoot string, issueID string, title string, status string, commitSHA string) error {
	logPath := filepath.Join(repoRoot, filepath.FromSlash(summaryRelPath))
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}
	if commitSHA == "" {
		commitSHA = readHeadSHA(repoRoot)
	}
	entry := summaryEntry{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		IssueID:   issueID,
		Title:     title,
		Status:    status,
		CommitSHA: commitSHA,
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.Write(append(payload, '\n'))
	return err
}

func readHeadSHA(repoRoot string) string {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = repoRoot
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
