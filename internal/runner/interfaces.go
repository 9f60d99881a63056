package runner

import "beadrunner/internal/backlog"

// Task is the resolved record for a selected backlog id.
type Task struct {
	ID                 string
	Title              string
	Description        string
	AcceptanceCriteria string
	Status             string
}

// BacklogClient is the backlog store surface the executor consumes.
// Children serves the walker; the rest mutate or resolve single issues.
type BacklogClient interface {
	backlog.ChildLookup
	Tree(rootID string) (backlog.Node, error)
	Show(id string) (Task, error)
	UpdateStatus(id string, status string) error
	Close(id string) error
	Sync() error
}

type PromptBuilder interface {
	Build(issueID string, title string, description string, acceptance string) string
}

// AgentRunner dispatches the coding agent. Command reports the argv the
// dispatch would use, for dry-run previews.
type AgentRunner interface {
	Command(repoRoot string, prompt string, model string) []string
	Run(issueID string, repoRoot string, prompt string, model string, configRoot string, configDir string, logPath string) error
}

type GitClient interface {
	AddAll() error
	IsDirty() (bool, error)
	Commit(message string) error
	RevParseHead() (string, error)
}

// AuditLogger appends one immutable summary entry per terminal
// sub-outcome.
type AuditLogger interface {
	Append(repoRoot string, issueID string, title string, status string, commitSHA string) error
}
