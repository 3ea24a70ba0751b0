package assignment

import (
	"strings"
	"time"
)

// ReviewRow is one line of the admin's per-learner overview: the catalog
// entry plus that learner's progress row, if any. A row without progress
// has nothing to review.
type ReviewRow struct {
	Assignment Assignment `json:"assignment"`
	Progress   *Progress  `json:"progress"`
}

func (r ReviewRow) Reviewable() bool { return r.Progress != nil }

// ReviewEdit is the admin's pending (status, feedback) pair for a row.
type ReviewEdit struct {
	Status   Status `json:"status" validate:"required,oneof=pending submitted checked"`
	Feedback string `json:"feedback"`
}

// Dirty reports whether the edit differs from the persisted row: a status
// change, or feedback whose trimmed text changed. Saving a clean row is
// pointless and is rejected upstream.
func (e ReviewEdit) Dirty(prog Progress) bool {
	if e.Status != prog.Status {
		return true
	}
	var persisted string
	if prog.Feedback != nil {
		persisted = strings.TrimSpace(*prog.Feedback)
	}
	return strings.TrimSpace(e.Feedback) != persisted
}

// ApplyReview stamps the edit onto the row: status, trimmed feedback
// (empty stored as absent), reviewer and review time.
func ApplyReview(prog Progress, edit ReviewEdit, reviewerID string, now time.Time) Progress {
	prog.Status = edit.Status
	if fb := strings.TrimSpace(edit.Feedback); fb != "" {
		prog.Feedback = &fb
	} else {
		prog.Feedback = nil
	}
	prog.ReviewedBy = &reviewerID
	prog.ReviewedAt = &now
	prog.UpdatedAt = now
	return prog
}
