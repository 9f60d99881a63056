package backlog

import "sort"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusBlocked    = "blocked"
	StatusClosed     = "closed"

	TypeEpic = "epic"
	TypeTask = "task"
)

// Node is one issue in the backlog tree. Children are populated only on
// epics; a nil Priority sorts after every explicit priority.
type Node struct {
	ID        string `json:"id"`
	IssueType string `json:"issue_type"`
	Status    string `json:"status"`
	Priority  *int   `json:"priority"`
	Children  []Node `json:"children"`
}

func (n Node) IsEpic() bool {
	return n.IssueType == TypeEpic
}

// IsTask reports whether the node is an executable unit of work.
// Unrecognized issue types are neither selected nor recursed into.
func (n Node) IsTask() bool {
	return n.IssueType == TypeTask
}

// ChildLookup resolves the children of a backlog node. It is the single
// capability the walker needs; implementations may serve an in-memory
// tree or query the live store per parent.
type ChildLookup interface {
	Children(parentID string) ([]Node, error)
}

type ChildLookupFunc func(parentID string) ([]Node, error)

func (f ChildLookupFunc) Children(parentID string) ([]Node, error) {
	return f(parentID)
}

// SelectLeaf walks the tree under rootID depth-first in priority order
// and returns the id of the first open leaf task, or "" when no open
// leaf is reachable. Epics that yield nothing are skipped in favor of
// the next sibling.
func SelectLeaf(rootID string, lookup ChildLookup) (string, error) {
	children, err := lookup.Children(rootID)
	if err != nil {
		return "", err
	}
	for _, item := range sortedByPriority(children) {
		if item.Status != StatusOpen || item.ID == "" {
			continue
		}
		if item.IsTask() {
			return item.ID, nil
		}
		if item.IsEpic() {
			leaf, err := SelectLeaf(item.ID, lookup)
			if err != nil {
				return "", err
			}
			if leaf != "" {
				return leaf, nil
			}
		}
	}
	return "", nil
}

// TreeLookup indexes a materialized tree so SelectLeaf can walk it
// without touching the store. The root's own children are served under
// root.ID.
func TreeLookup(root Node) ChildLookup {
	index := map[string][]Node{}
	var walk func(node Node)
	walk = func(node Node) {
		if node.ID != "" {
			index[node.ID] = node.Children
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(root)
	return ChildLookupFunc(func(parentID string) ([]Node, error) {
		return index[parentID], nil
	})
}

// CountOpenLeaves reports how many open leaf tasks remain under root,
// root included when it is itself a leaf.
func CountOpenLeaves(root Node) int {
	if root.IsTask() {
		if root.Status == StatusOpen {
			return 1
		}
		return 0
	}
	total := 0
	for _, child := range root.Children {
		total += CountOpenLeaves(child)
	}
	return total
}

// sortedByPriority orders by ascending priority with missing priorities
// last. The sort is stable so ties keep backlog order.
func sortedByPriority(items []Node) []Node {
	sorted := make([]Node, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityLess(sorted[i], sorted[j])
	})
	return sorted
}

func priorityLess(a Node, b Node) bool {
	if a.Priority == nil {
		return false
	}
	if b.Priority == nil {
		return true
	}
	return *a.Priority < *b.Priority
}
