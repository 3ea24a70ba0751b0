package assignment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("assignment not found")
	ErrProgressNotFound = errors.New("progress not found")
	ErrNoSubmission     = errors.New("nothing to review yet")

	// NowFunc returns the current time; swapped out in tests.
	NowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	Repository interface {
		// QueryAssignments returns the catalog ordered by display order.
		QueryAssignments(ctx context.Context) ([]Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		CreateAssignment(ctx context.Context, asg Assignment, exec ...core.DBExecutor) (Assignment, error)
		GetProgress(ctx context.Context, assignmentID, userID string, exec ...core.DBExecutor) (Progress, error)
		QueryProgressByUser(ctx context.Context, userID string, exec ...core.DBExecutor) ([]Progress, error)
		// UpsertProgress inserts or updates the row keyed by (assignment_id, user_id).
		UpsertProgress(ctx context.Context, prog Progress, exec ...core.DBExecutor) (Progress, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		userRepo user.Repository
		files    core.FileStore
		mailSvc  core.EmailService
	}

	// DashboardView is the learner's full dashboard snapshot, rebuilt
	// wholesale from fresh reads on every request.
	DashboardView struct {
		Profile  user.Profile `json:"profile"`
		Cards    []Card       `json:"cards"`
		Metrics  Metrics      `json:"metrics"`
		Expanded []string     `json:"expanded"`
	}

	// Upload is a submission file pending storage.
	Upload struct {
		Filename    string
		ContentType string
		Content     io.Reader
	}
)

func NewService(db core.DB, repo Repository, userRepo user.Repository, files core.FileStore, mailSvc core.EmailService) *Service {
	return &Service{db: db, repo: repo, userRepo: userRepo, files: files, mailSvc: mailSvc}
}

// Create authors a new catalog entry (admin CLI / seeds).
func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := NowFunc()
	status := na.BaseStatus
	if status == "" {
		status = StatusPending
	}
	asg := Assignment{
		Slug:            na.Slug,
		DayLabel:        na.DayLabel,
		Title:           na.Title,
		Summary:         na.Summary,
		DueLabel:        na.DueLabel,
		BaseStatus:      status,
		LockedByDefault: na.LockedByDefault,
		UnlockCost:      na.UnlockCost,
		HintCost:        na.HintCost,
		IsCurrentDay:    na.IsCurrentDay,
		Hints:           na.Hints,
		DisplayOrder:    na.DisplayOrder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *Service) Catalog(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx)
}

// Dashboard assembles the learner's view model from fresh reads and
// reconciles the client's card-expansion memory against it.
func (svc *Service) Dashboard(ctx context.Context, userID string, prevExpanded []string, prevLocked map[string]bool) (DashboardView, error) {
	prof, err := svc.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return DashboardView{}, err
	}
	assignments, err := svc.repo.QueryAssignments(ctx)
	if err != nil {
		return DashboardView{}, err
	}
	rows, err := svc.repo.QueryProgressByUser(ctx, userID)
	if err != nil {
		return DashboardView{}, err
	}

	progByAsg := make(map[string]Progress, len(rows))
	for _, p := range rows {
		progByAsg[p.AssignmentID] = p
	}
	cards := BuildCards(assignments, progByAsg)
	return DashboardView{
		Profile:  prof,
		Cards:    cards,
		Metrics:  ComputeMetrics(cards),
		Expanded: ReconcileExpanded(prevExpanded, prevLocked, cards),
	}, nil
}

// Unlock debits the unlock cost and clears the locked overlay, both writes
// in one transaction against the row-locked profile balance.
func (svc *Service) Unlock(ctx context.Context, userID, assignmentID string) error {
	return svc.purchase(ctx, userID, assignmentID, ApplyUnlock)
}

// UnlockHints debits the hint cost and reveals the hint list.
func (svc *Service) UnlockHints(ctx context.Context, userID, assignmentID string) error {
	return svc.purchase(ctx, userID, assignmentID, ApplyHints)
}

func (svc *Service) purchase(
	ctx context.Context, userID, assignmentID string,
	apply func(balance int, asg Assignment, prog Progress) (int, Progress, error),
) error {
	asg, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	tx, err := svc.db.Beginx()
	if err != nil {
		return pkgerrors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	prof, err := svc.userRepo.GetProfileForUpdate(ctx, userID, tx)
	if err != nil {
		return err
	}
	prog, err := svc.progressOrDefault(ctx, asg, userID, tx)
	if err != nil {
		return err
	}

	newBalance, updated, err := apply(prof.CoinsBalance, asg, prog)
	if err != nil {
		return err
	}

	now := NowFunc()
	updated.UpdatedAt = now
	if _, err = svc.repo.UpsertProgress(ctx, updated, tx); err != nil {
		return err
	}
	prof.CoinsBalance = newBalance
	prof.UpdatedAt = now
	if _, err = svc.userRepo.UpdateProfile(ctx, prof, tx); err != nil {
		return err
	}
	return pkgerrors.Wrap(tx.Commit(), "committing transaction")
}

// Submit records the submission, storing any uploaded files first. Uploads
// only start once the row's guards pass, so a locked or already-checked
// rejection leaves no orphaned objects; a failed upload aborts with no state
// change.
func (svc *Service) Submit(ctx context.Context, userID, assignmentID string, sub Submission, uploads []Upload) (Progress, error) {
	asg, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return Progress{}, err
	}

	tx, err := svc.db.Beginx()
	if err != nil {
		return Progress{}, pkgerrors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	prog, err := svc.progressOrDefault(ctx, asg, userID, tx)
	if err != nil {
		return Progress{}, err
	}
	if err = prog.CanSubmit(); err != nil {
		return Progress{}, err
	}

	for _, up := range uploads {
		path := core.MakeObjectPath(userID, assignmentID, up.Filename)
		if err = svc.files.Upload(ctx, path, up.ContentType, up.Content); err != nil {
			return Progress{}, pkgerrors.Wrapf(err, "uploading %s", up.Filename)
		}
		sub.Files = append(sub.Files, svc.files.PublicURL(path))
	}

	now := NowFunc()
	updated, err := ApplySubmission(prog, sub, now)
	if err != nil {
		return Progress{}, err
	}
	updated.UpdatedAt = now
	if updated, err = svc.repo.UpsertProgress(ctx, updated, tx); err != nil {
		return Progress{}, err
	}
	if err = tx.Commit(); err != nil {
		return Progress{}, pkgerrors.Wrap(err, "committing transaction")
	}
	return updated, nil
}

// ReviewOverview joins the catalog with learnerID's progress rows for the
// admin review screen.
func (svc *Service) ReviewOverview(ctx context.Context, learnerID string) ([]ReviewRow, error) {
	assignments, err := svc.repo.QueryAssignments(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := svc.repo.QueryProgressByUser(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	progByAsg := make(map[string]Progress, len(rows))
	for _, p := range rows {
		progByAsg[p.AssignmentID] = p
	}
	overview := make([]ReviewRow, 0, len(assignments))
	for _, asg := range assignments {
		row := ReviewRow{Assignment: asg}
		if p, ok := progByAsg[asg.ID]; ok {
			prog := p
			row.Progress = &prog
		}
		overview = append(overview, row)
	}
	return overview, nil
}

// SaveReview persists the admin's status/feedback edit on an existing
// progress row. A row the learner never touched is not reviewable. A clean
// edit is a no-op.
func (svc *Service) SaveReview(ctx context.Context, reviewerID, learnerID, assignmentID string, edit ReviewEdit) (Progress, error) {
	prog, err := svc.repo.GetProgress(ctx, assignmentID, learnerID)
	if err != nil {
		if err == ErrProgressNotFound {
			return Progress{}, ErrNoSubmission
		}
		return Progress{}, err
	}
	if !edit.Dirty(prog) {
		return prog, nil
	}

	updated := ApplyReview(prog, edit, reviewerID, NowFunc())
	if updated, err = svc.repo.UpsertProgress(ctx, updated); err != nil {
		return Progress{}, err
	}
	svc.notifyReviewed(ctx, learnerID, updated)
	return updated, nil
}

// notifyReviewed emails the learner when their work has been checked with
// feedback. Accounts without a contact address are skipped.
func (svc *Service) notifyReviewed(ctx context.Context, learnerID string, prog Progress) {
	if prog.Status != StatusChecked || prog.Feedback == nil {
		return
	}
	usr, err := svc.userRepo.GetUser(ctx, user.GetFilter{ID: learnerID})
	if err != nil || usr.Email == nil {
		return
	}
	asg, err := svc.repo.GetAssignment(ctx, prog.AssignmentID)
	if err != nil {
		return
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName, Address: *usr.Email}},
		Subject:      fmt.Sprintf("%s has been checked", asg.Title),
		TemplateName: "assignment-reviewed",
		TemplateData: struct {
			Name     string
			Title    string
			Feedback string
		}{usr.FullName, asg.Title, *prog.Feedback},
	})
}

func (svc *Service) progressOrDefault(ctx context.Context, asg Assignment, userID string, tx core.DBExecutor) (Progress, error) {
	prog, err := svc.repo.GetProgress(ctx, asg.ID, userID, tx)
	if err == ErrProgressNotFound {
		return newProgress(asg, userID, NowFunc()), nil
	}
	return prog, err
}
