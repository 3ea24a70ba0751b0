package assignment

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingSubmission = errors.New("missing link or files")
	ErrAlreadyChecked    = errors.New("assignment has already been checked")
	ErrLocked            = errors.New("assignment is locked")
)

// Submission is a learner's submit/resubmit payload. Files are object
// storage paths resolved by the caller before the state change is applied.
type Submission struct {
	Link  string   `json:"link" validate:"omitempty,url"`
	Notes string   `json:"notes"`
	Files []string `json:"-"`
}

// CanSubmit reports whether the row accepts submissions at all: locked and
// already-checked rows reject them. Callers run this before any side effect
// (file uploads in particular) so a rejected submit leaves nothing behind.
func (p Progress) CanSubmit() error {
	if p.Locked {
		return ErrLocked
	}
	if p.Status == StatusChecked {
		return ErrAlreadyChecked
	}
	return nil
}

// ApplySubmission advances Pending -> Submitted, or refreshes an existing
// submission (Submitted -> Submitted). It rejects empty submissions before
// any persistence happens and never downgrades a checked row.
func ApplySubmission(prog Progress, sub Submission, now time.Time) (Progress, error) {
	if err := prog.CanSubmit(); err != nil {
		return prog, err
	}

	link := strings.TrimSpace(sub.Link)
	if link == "" && len(sub.Files) == 0 && !prog.HasSubmissionData() {
		return prog, ErrMissingSubmission
	}

	if link != "" {
		prog.SubmissionLink = &link
	}
	if notes := strings.TrimSpace(sub.Notes); notes != "" {
		prog.SubmissionNotes = &notes
	}
	prog.SubmissionFiles = append(prog.SubmissionFiles, sub.Files...)
	prog.Status = StatusSubmitted
	prog.SubmittedAt = &now
	return prog, nil
}
