package assignment

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a learner's work on an assignment.
// The locked flag is a visibility overlay on top of it, not a status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusChecked   Status = "checked"
)

var AllStatuses = []Status{StatusPending, StatusSubmitted, StatusChecked}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusChecked:
		return true
	}
	return false
}

// Assignment is a catalog entry. Admin-authored, read-only to learners.
type Assignment struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	DayLabel        string    `json:"day_label"`
	Title           string    `json:"title"`
	Summary         []string  `json:"summary"`
	DueLabel        string    `json:"due_label"`
	BaseStatus      Status    `json:"base_status"`
	LockedByDefault bool      `json:"locked_by_default"`
	UnlockCost      int       `json:"unlock_cost"`
	HintCost        int       `json:"hint_cost"`
	IsCurrentDay    bool      `json:"is_current_day"`
	Hints           []string  `json:"hints"`
	DisplayOrder    int       `json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Progress is the mutable per-(user, assignment) record. It is created
// lazily on first interaction; while absent, the assignment's defaults
// apply.
type Progress struct {
	ID                  string     `json:"id"`
	AssignmentID        string     `json:"assignment_id"`
	UserID              string     `json:"user_id"`
	Status              Status     `json:"status"`
	Locked              bool       `json:"locked"`
	HintsUnlocked       bool       `json:"hints_unlocked"`
	SubmissionLink      *string    `json:"submission_link"`
	SubmissionNotes     *string    `json:"submission_notes"`
	SubmissionFiles     []string   `json:"submission_files"`
	SubmittedAt         *time.Time `json:"submitted_at"`
	Feedback            *string    `json:"feedback"`
	ReviewedBy          *string    `json:"reviewed_by"`
	ReviewedAt          *time.Time `json:"reviewed_at"`
	CoinsSpentOnUnlocks int        `json:"coins_spent_on_unlocks"`
	CoinsSpentOnHints   int        `json:"coins_spent_on_hints"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// newProgress seeds a progress row from the catalog entry's defaults.
func newProgress(asg Assignment, userID string, now time.Time) Progress {
	return Progress{
		AssignmentID: asg.ID,
		UserID:       userID,
		Status:       asg.BaseStatus,
		Locked:       asg.LockedByDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasSubmissionData reports whether the row already carries a link or at
// least one uploaded file.
func (p Progress) HasSubmissionData() bool {
	if p.SubmissionLink != nil && strings.TrimSpace(*p.SubmissionLink) != "" {
		return true
	}
	return len(p.SubmissionFiles) > 0
}

// NewAssignment is the payload for authoring a catalog entry (admin CLI /
// seeds).
type NewAssignment struct {
	Slug            string   `json:"slug" validate:"required"`
	DayLabel        string   `json:"day_label" validate:"required"`
	Title           string   `json:"title" validate:"required"`
	Summary         []string `json:"summary"`
	DueLabel        string   `json:"due_label"`
	BaseStatus      Status   `json:"base_status" validate:"omitempty,oneof=pending submitted checked"`
	LockedByDefault bool     `json:"locked_by_default"`
	UnlockCost      int      `json:"unlock_cost" validate:"min=0"`
	HintCost        int      `json:"hint_cost" validate:"min=0"`
	IsCurrentDay    bool     `json:"is_current_day"`
	Hints           []string `json:"hints"`
	DisplayOrder    int      `json:"display_order"`
}
