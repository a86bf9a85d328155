package model

import "strings"

// Status is the workflow state the tracker reports for an issue.
// Well-known constants are provided below, but workflows are extensible;
// any unrecognized status is treated as open work.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusReopened   Status = "Reopened"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Done reports whether the status marks finished work. Done issues are
// dropped from the graph entirely: no node, no edges. The comparison is
// case-insensitive because trackers disagree on capitalization.
func (s Status) Done() bool {
	return strings.EqualFold(string(s), string(StatusClosed)) ||
		strings.EqualFold(string(s), string(StatusResolved))
}

// Issue is one tracker item as returned by the issue source.
// Immutable once fetched.
type Issue struct {
	Key          string   `json:"key"`
	Summary      string   `json:"summary"`
	Status       Status   `json:"status"`
	Priority     string   `json:"priority,omitempty"`
	Assignee     string   `json:"assignee,omitempty"`
	Type         string   `json:"type,omitempty"`
	Link         string   `json:"link,omitempty"`
	Subtasks     []string `json:"subtasks,omitempty"`
	OutwardLinks []string `json:"outward_links,omitempty"`
}

// Children returns every identifier this issue points at, sub-tasks first,
// then outward links, preserving tracker order within each group.
func (i *Issue) Children() []string {
	if len(i.Subtasks) == 0 && len(i.OutwardLinks) == 0 {
		return nil
	}
	out := make([]string, 0, len(i.Subtasks)+len(i.OutwardLinks))
	out = append(out, i.Subtasks...)
	out = append(out, i.OutwardLinks...)
	return out
}
