package runner

import "time"

type EventType string

const (
	EventSelectTask    EventType = "select_task"
	EventTrackerUpdate EventType = "tracker_update"
	EventAgentStart    EventType = "agent_start"
	EventAgentEnd      EventType = "agent_end"
	EventGitAdd        EventType = "git_add"
	EventGitStatus     EventType = "git_status"
	EventGitCommit     EventType = "git_commit"
	EventTrackerClose  EventType = "tracker_close"
	EventTrackerVerify EventType = "tracker_verify"
	EventTrackerSync   EventType = "tracker_sync"
)

type Event struct {
	Type              EventType `json:"type"`
	IssueID           string    `json:"issue_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Model             string    `json:"model"`
	ProgressCompleted int       `json:"progress_completed"`
	ProgressTotal     int       `json:"progress_total"`
	EmittedAt         time.Time `json:"emitted_at"`
}

type EventEmitter interface {
	Emit(event Event)
}
