package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/assignment"
)

const (
	assignmentCols = "id, slug, day_label, title, summary, due_label, base_status, " +
		"locked_by_default, unlock_cost, hint_cost, is_current_day, hints, display_order, " +
		"created_at, updated_at"
	progressCols = "id, assignment_id, user_id, status, locked, hints_unlocked, " +
		"submission_link, submission_notes, submission_files, submitted_at, feedback, " +
		"reviewed_by, reviewed_at, coins_spent_on_unlocks, coins_spent_on_hints, " +
		"created_at, updated_at"
)

type assignmentRepository struct {
	exec core.DBExecutor
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(exec core.DBExecutor) *assignmentRepository {
	return &assignmentRepository{exec: exec}
}

func (repo assignmentRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

type assignmentRow struct {
	ID              string         `db:"id"`
	Slug            string         `db:"slug"`
	DayLabel        string         `db:"day_label"`
	Title           string         `db:"title"`
	Summary         pq.StringArray `db:"summary"`
	DueLabel        string         `db:"due_label"`
	BaseStatus      string         `db:"base_status"`
	LockedByDefault bool           `db:"locked_by_default"`
	UnlockCost      int            `db:"unlock_cost"`
	HintCost        int            `db:"hint_cost"`
	IsCurrentDay    bool           `db:"is_current_day"`
	Hints           pq.StringArray `db:"hints"`
	DisplayOrder    int            `db:"display_order"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (repo assignmentRepository) unwrap(row assignmentRow) assignment.Assignment {
	return assignment.Assignment{
		ID:              row.ID,
		Slug:            row.Slug,
		DayLabel:        row.DayLabel,
		Title:           row.Title,
		Summary:         row.Summary,
		DueLabel:        row.DueLabel,
		BaseStatus:      assignment.Status(row.BaseStatus),
		LockedByDefault: row.LockedByDefault,
		UnlockCost:      row.UnlockCost,
		HintCost:        row.HintCost,
		IsCurrentDay:    row.IsCurrentDay,
		Hints:           row.Hints,
		DisplayOrder:    row.DisplayOrder,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type progressRow struct {
	ID                  string         `db:"id"`
	AssignmentID        string         `db:"assignment_id"`
	UserID              string         `db:"user_id"`
	Status              string         `db:"status"`
	Locked              bool           `db:"locked"`
	HintsUnlocked       bool           `db:"hints_unlocked"`
	SubmissionLink      null.String    `db:"submission_link"`
	SubmissionNotes     null.String    `db:"submission_notes"`
	SubmissionFiles     pq.StringArray `db:"submission_files"`
	SubmittedAt         null.Time      `db:"submitted_at"`
	Feedback            null.String    `db:"feedback"`
	ReviewedBy          null.String    `db:"reviewed_by"`
	ReviewedAt          null.Time      `db:"reviewed_at"`
	CoinsSpentOnUnlocks int            `db:"coins_spent_on_unlocks"`
	CoinsSpentOnHints   int            `db:"coins_spent_on_hints"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (repo assignmentRepository) wrapProgress(prog assignment.Progress) progressRow {
	return progressRow{
		ID:                  prog.ID,
		AssignmentID:        prog.AssignmentID,
		UserID:              prog.UserID,
		Status:              string(prog.Status),
		Locked:              prog.Locked,
		HintsUnlocked:       prog.HintsUnlocked,
		SubmissionLink:      null.StringFromPtr(prog.SubmissionLink),
		SubmissionNotes:     null.StringFromPtr(prog.SubmissionNotes),
		SubmissionFiles:     prog.SubmissionFiles,
		SubmittedAt:         null.TimeFromPtr(prog.SubmittedAt),
		Feedback:            null.StringFromPtr(prog.Feedback),
		ReviewedBy:          null.StringFromPtr(prog.ReviewedBy),
		ReviewedAt:          null.TimeFromPtr(prog.ReviewedAt),
		CoinsSpentOnUnlocks: prog.CoinsSpentOnUnlocks,
		CoinsSpentOnHints:   prog.CoinsSpentOnHints,
		CreatedAt:           prog.CreatedAt.UTC(),
		UpdatedAt:           prog.UpdatedAt.UTC(),
	}
}

func (repo assignmentRepository) unwrapProgress(row progressRow) assignment.Progress {
	return assignment.Progress{
		ID:                  row.ID,
		AssignmentID:        row.AssignmentID,
		UserID:              row.UserID,
		Status:              assignment.Status(row.Status),
		Locked:              row.Locked,
		HintsUnlocked:       row.HintsUnlocked,
		SubmissionLink:      row.SubmissionLink.Ptr(),
		SubmissionNotes:     row.SubmissionNotes.Ptr(),
		SubmissionFiles:     row.SubmissionFiles,
		SubmittedAt:         row.SubmittedAt.Ptr(),
		Feedback:            row.Feedback.Ptr(),
		ReviewedBy:          row.ReviewedBy.Ptr(),
		ReviewedAt:          row.ReviewedAt.Ptr(),
		CoinsSpentOnUnlocks: row.CoinsSpentOnUnlocks,
		CoinsSpentOnHints:   row.CoinsSpentOnHints,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

func (repo assignmentRepository) QueryAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	var rows []assignmentRow
	q := fmt.Sprintf("SELECT %s FROM assignments ORDER BY display_order", assignmentCols)
	if err := repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, repo.unwrap(row))
	}
	return assignments, nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id string) (assignment.Assignment, error) {
	var row assignmentRow
	q := fmt.Sprintf("SELECT %s FROM assignments WHERE id = $1", assignmentCols)
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return repo.unwrap(row), nil
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	asg.ID = uuid.New().String()
	q := `
	INSERT INTO assignments
		(id, slug, day_label, title, summary, due_label, base_status, locked_by_default,
		 unlock_cost, hint_cost, is_current_day, hints, display_order, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := repo.getExec(exec).ExecContext(
		ctx, q, asg.ID, asg.Slug, asg.DayLabel, asg.Title, pq.StringArray(asg.Summary), asg.DueLabel,
		string(asg.BaseStatus), asg.LockedByDefault, asg.UnlockCost, asg.HintCost, asg.IsCurrentDay,
		pq.StringArray(asg.Hints), asg.DisplayOrder, asg.CreatedAt.UTC(), asg.UpdatedAt.UTC(),
	); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo assignmentRepository) GetProgress(ctx context.Context, assignmentID, userID string, exec ...core.DBExecutor) (assignment.Progress, error) {
	var row progressRow
	q := fmt.Sprintf("SELECT %s FROM assignment_progress WHERE assignment_id = $1 AND user_id = $2", progressCols)
	if err := repo.getExec(exec).GetContext(ctx, &row, q, assignmentID, userID); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Progress{}, assignment.ErrProgressNotFound
		}
		return assignment.Progress{}, errors.Wrap(err, "getting progress")
	}
	return repo.unwrapProgress(row), nil
}

func (repo assignmentRepository) QueryProgressByUser(ctx context.Context, userID string, exec ...core.DBExecutor) ([]assignment.Progress, error) {
	var rows []progressRow
	q := fmt.Sprintf("SELECT %s FROM assignment_progress WHERE user_id = $1", progressCols)
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}
	progress := make([]assignment.Progress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, repo.unwrapProgress(row))
	}
	return progress, nil
}

func (repo assignmentRepository) UpsertProgress(ctx context.Context, prog assignment.Progress, exec ...core.DBExecutor) (assignment.Progress, error) {
	if prog.ID == "" {
		prog.ID = uuid.New().String()
	}
	row := repo.wrapProgress(prog)
	q := `
	INSERT INTO assignment_progress
		(id, assignment_id, user_id, status, locked, hints_unlocked, submission_link,
		 submission_notes, submission_files, submitted_at, feedback, reviewed_by, reviewed_at,
		 coins_spent_on_unlocks, coins_spent_on_hints, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (assignment_id, user_id) DO UPDATE
	SET status = EXCLUDED.status,
		locked = EXCLUDED.locked,
		hints_unlocked = EXCLUDED.hints_unlocked,
		submission_link = EXCLUDED.submission_link,
		submission_notes = EXCLUDED.submission_notes,
		submission_files = EXCLUDED.submission_files,
		submitted_at = EXCLUDED.submitted_at,
		feedback = EXCLUDED.feedback,
		reviewed_by = EXCLUDED.reviewed_by,
		reviewed_at = EXCLUDED.reviewed_at,
		coins_spent_on_unlocks = EXCLUDED.coins_spent_on_unlocks,
		coins_spent_on_hints = EXCLUDED.coins_spent_on_hints,
		updated_at = EXCLUDED.updated_at`
	if _, err := repo.getExec(exec).ExecContext(
		ctx, q, row.ID, row.AssignmentID, row.UserID, row.Status, row.Locked, row.HintsUnlocked,
		row.SubmissionLink, row.SubmissionNotes, row.SubmissionFiles, row.SubmittedAt, row.Feedback,
		row.ReviewedBy, row.ReviewedAt, row.CoinsSpentOnUnlocks, row.CoinsSpentOnHints,
		row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return assignment.Progress{}, errors.Wrap(err, "upserting progress")
	}
	return prog, nil
}
