package runner

// RunLoop chains executions until the backlog is exhausted, a dry-run
// preview happens, max completed tasks are reached, or a stop is
// requested. Blocked outcomes do not count toward max; the next
// selection skips them because their status is no longer open.
func RunLoop(opts Options, deps Deps, max int, runOnce func(Options, Deps) (Outcome, error)) (int, error) {
	if runOnce == nil {
		runOnce = RunOnce
	}

	completed := 0
	for {
		if opts.Stop.Requested() {
			return completed, nil
		}
		if max > 0 && completed >= max {
			return completed, nil
		}

		opts.Progress.Completed = completed
		outcome, err := runOnce(opts, deps)
		if err != nil {
			return completed, err
		}

		switch outcome {
		case OutcomeCompleted:
			completed++
		case OutcomeBlocked:
			// Keep going; the next call selects a different open task.
		case OutcomeNoTasks, OutcomeDryRun:
			return completed, nil
		default:
			return completed, nil
		}
	}
}
