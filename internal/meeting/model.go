package meeting

import "time"

const (
	DefaultOwner    = "Unassigned"
	DefaultDeadline = "Not specified"
)

// Record is the persisted result of one successful pipeline run.
type Record struct {
	ID         string       `json:"id"`
	Filename   string       `json:"filename"`
	Transcript string       `json:"transcript"`
	Summary    string       `json:"summary"`
	Decisions  []string     `json:"decisions"`
	Actions    []ActionItem `json:"actions"`
	CreatedAt  time.Time    `json:"created_at"`
}

// ActionItem is a task extracted from the transcript.
type ActionItem struct {
	Task     string `json:"task"`
	Owner    string `json:"owner"`
	Deadline string `json:"deadline"`
}

// NewActionItem applies the owner and deadline defaults.
func NewActionItem(task, owner, deadline string) ActionItem {
	if owner == "" {
		owner = DefaultOwner
	}
	if deadline == "" {
		deadline = DefaultDeadline
	}
	return ActionItem{Task: task, Owner: owner, Deadline: deadline}
}

// Segment is one chronological chunk of recognized speech.
type Segment struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// StructuredSummary is the three-part model output.
type StructuredSummary struct {
	Summary      string
	KeyDecisions []string
	ActionItems  []ActionItem
}

// Normalize replaces nil sequences with empty ones.
func (s StructuredSummary) Normalize() StructuredSummary {
	if s.KeyDecisions == nil {
		s.KeyDecisions = []string{}
	}
	if s.ActionItems == nil {
		s.ActionItems = []ActionItem{}
	}
	return s
}
