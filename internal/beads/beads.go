// Package beads adapts the bd CLI to the runner's backlog surface.
package beads

import (
	"encoding/json"
	"fmt"

	"beadrunner/internal/backlog"
	"beadrunner/internal/runner"
)

type Runner interface {
	Run(args ...string) (string, error)
}

type Adapter struct {
	runner Runner
}

func New(runner Runner) *Adapter {
	return &Adapter{runner: runner}
}

// Children lists the issues directly under parentID, serving the
// walker's live ChildLookup.
func (a *Adapter) Children(parentID string) ([]backlog.Node, error) {
	output, err := a.runner.Run("bd", "ready", "--parent", parentID, "--json")
	if err != nil {
		return nil, err
	}
	if err := validatePayload(nodeListSchema, output, "bd ready"); err != nil {
		return nil, err
	}
	var nodes []backlog.Node
	if err := json.Unmarshal([]byte(output), &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Tree materializes the subtree under rootID by querying children per
// parent. Used only for the progress denominator.
func (a *Adapter) Tree(rootID string) (backlog.Node, error) {
	root := backlog.Node{ID: rootID, IssueType: backlog.TypeEpic, Status: backlog.StatusOpen}
	children, err := a.Children(rootID)
	if err != nil {
		return backlog.Node{}, err
	}
	for _, child := range children {
		if child.IsEpic() && len(child.Children) == 0 && child.ID != "" {
			subtree, err := a.Tree(child.ID)
			if err != nil {
				return backlog.Node{}, err
			}
			child.Children = subtree.Children
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}

type showIssue struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
	Status             string `json:"status"`
}

func (a *Adapter) Show(id string) (runner.Task, error) {
	output, err := a.runner.Run("bd", "show", id, "--json")
	if err != nil {
		return runner.Task{}, err
	}
	if err := validatePayload(showSchema, output, "bd show"); err != nil {
		return runner.Task{}, err
	}
	var issues []showIssue
	if err := json.Unmarshal([]byte(output), &issues); err != nil {
		return runner.Task{}, err
	}
	if len(issues) == 0 {
		return runner.Task{}, fmt.Errorf("bd show %s returned no issue", id)
	}
	issue := issues[0]
	return runner.Task{
		ID:                 issue.ID,
		Title:              issue.Title,
		Description:        issue.Description,
		AcceptanceCriteria: issue.AcceptanceCriteria,
		Status:             issue.Status,
	}, nil
}

func (a *Adapter) UpdateStatus(id string, status string) error {
	_, err := a.runner.Run("bd", "update", id, "--status", status)
	return err
}

func (a *Adapter) Close(id string) error {
	_, err := a.runner.Run("bd", "close", id)
	return err
}

func (a *Adapter) Sync() error {
	_, err := a.runner.Run("bd", "sync")
	return err
}
