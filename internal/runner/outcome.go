package runner

// Outcome is the terminal result of one execution attempt. The set is
// closed; the loop and the tests switch over it exhaustively.
type Outcome string

const (
	OutcomeNoTasks   Outcome = "no_tasks"
	OutcomeDryRun    Outcome = "dry_run"
	OutcomeCompleted Outcome = "completed"
	OutcomeBlocked   Outcome = "blocked"
)

func (o Outcome) String() string {
	return string(o)
}
