package user

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/hamasa/core"
)

var (
	// errors
	ErrNotFound   = errors.New("user not found")
	ErrCodeExists = errors.New("a user with this access code already exists")

	// NowFunc returns the current time; swapped out in tests.
	NowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	Repository interface {
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		// FilterUsers applies AND on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on User.FullName or User.Code.
		FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetProfile(ctx context.Context, userID string, exec ...core.DBExecutor) (Profile, error)
		// GetProfileForUpdate locks the profile row for the duration of the transaction.
		GetProfileForUpdate(ctx context.Context, userID string, tx core.DBExecutor) (Profile, error)
		CreateProfile(ctx context.Context, prof Profile, exec ...core.DBExecutor) (Profile, error)
		UpdateProfile(ctx context.Context, prof Profile, exec ...core.DBExecutor) (Profile, error)
		CreateLoginEvent(ctx context.Context, evt LoginEvent, exec ...core.DBExecutor) error
		QueryLearners(ctx context.Context) ([]Learner, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Create provisions an account; learners also get a fresh profile.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	nu.Normalize()
	if _, err := svc.repo.GetUser(ctx, GetFilter{Code: nu.Code}); err == nil {
		return User{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
	} else if err != ErrNotFound {
		return User{}, err
	}

	now := NowFunc()
	usr := User{
		Code:      nu.Code,
		Role:      nu.Role,
		FullName:  nu.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.Email != "" {
		usr.Email = &nu.Email
	}

	tx, err := svc.db.Beginx()
	if err != nil {
		return User{}, pkgerrors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if usr, err = svc.repo.CreateUser(ctx, usr, tx); err != nil {
		return User{}, err
	}
	if usr.IsLearner() {
		prof := Profile{
			UserID:       usr.ID,
			DisplayName:  nu.DisplayName,
			CoinsBalance: nu.StartingCoins,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err = svc.repo.CreateProfile(ctx, prof, tx); err != nil {
			return User{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return User{}, pkgerrors.Wrap(err, "committing transaction")
	}
	return usr, nil
}

// Authenticate resolves an access code to its account and, for learners,
// records the check-in (login event, check-in counter, streak, last login)
// in a single transaction. clientNote is kept on the login event for audit.
func (svc *Service) Authenticate(ctx context.Context, code, clientNote string) (User, *Profile, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Code: NormalizeCode(code)})
	if err != nil {
		return User{}, nil, err
	}

	now := NowFunc()
	tx, err := svc.db.Beginx()
	if err != nil {
		return User{}, nil, pkgerrors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	evt := LoginEvent{UserID: usr.ID, LoggedInAt: now}
	if note := strings.TrimSpace(clientNote); note != "" {
		evt.ClientNotes = &note
	}
	if err = svc.repo.CreateLoginEvent(ctx, evt, tx); err != nil {
		return User{}, nil, err
	}

	var prof *Profile
	if usr.IsLearner() {
		locked, err := svc.repo.GetProfileForUpdate(ctx, usr.ID, tx)
		if err != nil {
			return User{}, nil, err
		}
		srvConf := core.Conf.Server
		updated := locked.ApplyCheckIn(now, srvConf.SessionCutoverHour, srvConf.SessionCutoverTZOffset)
		updated.UpdatedAt = now
		if updated, err = svc.repo.UpdateProfile(ctx, updated, tx); err != nil {
			return User{}, nil, err
		}
		prof = &updated
	}

	if err = tx.Commit(); err != nil {
		return User{}, nil, pkgerrors.Wrap(err, "committing transaction")
	}
	return usr, prof, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetProfile(ctx context.Context, userID string) (Profile, error) {
	return svc.repo.GetProfile(ctx, userID)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(ctx, filter)
}

// QueryLearners lists every learner with their profile, for admin views.
func (svc *Service) QueryLearners(ctx context.Context) ([]Learner, error) {
	return svc.repo.QueryLearners(ctx)
}
