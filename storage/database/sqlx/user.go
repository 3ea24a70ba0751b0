package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/user"
)

const (
	userCols    = "id, code, role, full_name, email, created_at, updated_at"
	profileCols = "id, user_id, display_name, avatar_url, coins_balance, streak_days, " +
		"badges_earned, total_check_ins, last_login_at, created_at, updated_at"
)

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

func (repo userRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

type userRow struct {
	ID        string      `db:"id"`
	Code      string      `db:"code"`
	Role      string      `db:"role"`
	FullName  string      `db:"full_name"`
	Email     null.String `db:"email"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (repo userRepository) wrap(usr user.User) userRow {
	return userRow{
		ID:        usr.ID,
		Code:      usr.Code,
		Role:      usr.Role,
		FullName:  usr.FullName,
		Email:     null.StringFromPtr(usr.Email),
		CreatedAt: usr.CreatedAt.UTC(),
		UpdatedAt: usr.UpdatedAt.UTC(),
	}
}

func (repo userRepository) unwrap(row userRow) user.User {
	return user.User{
		ID:        row.ID,
		Code:      row.Code,
		Role:      row.Role,
		FullName:  row.FullName,
		Email:     row.Email.Ptr(),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type profileRow struct {
	ID            string      `db:"id"`
	UserID        string      `db:"user_id"`
	DisplayName   string      `db:"display_name"`
	AvatarURL     null.String `db:"avatar_url"`
	CoinsBalance  int         `db:"coins_balance"`
	StreakDays    int         `db:"streak_days"`
	BadgesEarned  int         `db:"badges_earned"`
	TotalCheckIns int         `db:"total_check_ins"`
	LastLoginAt   null.Time   `db:"last_login_at"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (repo userRepository) wrapProfile(prof user.Profile) profileRow {
	return profileRow{
		ID:            prof.ID,
		UserID:        prof.UserID,
		DisplayName:   prof.DisplayName,
		AvatarURL:     null.StringFromPtr(prof.AvatarURL),
		CoinsBalance:  prof.CoinsBalance,
		StreakDays:    prof.StreakDays,
		BadgesEarned:  prof.BadgesEarned,
		TotalCheckIns: prof.TotalCheckIns,
		LastLoginAt:   null.TimeFromPtr(prof.LastLoginAt),
		CreatedAt:     prof.CreatedAt.UTC(),
		UpdatedAt:     prof.UpdatedAt.UTC(),
	}
}

func (repo userRepository) unwrapProfile(row profileRow) user.Profile {
	return user.Profile{
		ID:            row.ID,
		UserID:        row.UserID,
		DisplayName:   row.DisplayName,
		AvatarURL:     row.AvatarURL.Ptr(),
		CoinsBalance:  row.CoinsBalance,
		StreakDays:    row.StreakDays,
		BadgesEarned:  row.BadgesEarned,
		TotalCheckIns: row.TotalCheckIns,
		LastLoginAt:   row.LastLoginAt.Ptr(),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		cond string
		arg  string
	)
	switch {
	case filter.ID != "":
		cond, arg = "id = $1", filter.ID
	case filter.Code != "":
		cond, arg = "code = $1", filter.Code
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	q := fmt.Sprintf("SELECT %s FROM users WHERE %s", userCols, cond)
	if err := repo.exec.GetContext(ctx, &row, q, arg); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user")
	}
	return repo.unwrap(row), nil
}

func (repo userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := fmt.Sprintf("SELECT %s FROM users WHERE 1=1", userCols)
	var args []interface{}
	if filter.Role != "" {
		args = append(args, filter.Role)
		q += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q += fmt.Sprintf(" AND (full_name ILIKE $%d OR code ILIKE $%d)", len(args), len(args))
	}
	q += " ORDER BY full_name"

	var rows []userRow
	if err := repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, repo.unwrap(row))
	}
	return users, nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	row := repo.wrap(usr)
	q := `
	INSERT INTO users (id, code, role, full_name, email, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := repo.getExec(exec).ExecContext(
		ctx, q, row.ID, row.Code, row.Role, row.FullName, row.Email, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetProfile(ctx context.Context, userID string, exec ...core.DBExecutor) (user.Profile, error) {
	var row profileRow
	q := fmt.Sprintf("SELECT %s FROM learner_profiles WHERE user_id = $1", profileCols)
	if err := repo.getExec(exec).GetContext(ctx, &row, q, userID); err != nil {
		return user.Profile{}, repo.trapNoRowsErr(err, "getting profile")
	}
	return repo.unwrapProfile(row), nil
}

func (repo userRepository) GetProfileForUpdate(ctx context.Context, userID string, tx core.DBExecutor) (user.Profile, error) {
	var row profileRow
	q := fmt.Sprintf("SELECT %s FROM learner_profiles WHERE user_id = $1 FOR UPDATE", profileCols)
	if err := tx.GetContext(ctx, &row, q, userID); err != nil {
		return user.Profile{}, repo.trapNoRowsErr(err, "locking profile")
	}
	return repo.unwrapProfile(row), nil
}

func (repo userRepository) CreateProfile(ctx context.Context, prof user.Profile, exec ...core.DBExecutor) (user.Profile, error) {
	prof.ID = uuid.New().String()
	row := repo.wrapProfile(prof)
	q := `
	INSERT INTO learner_profiles
		(id, user_id, display_name, avatar_url, coins_balance, streak_days,
		 badges_earned, total_check_ins, last_login_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := repo.getExec(exec).ExecContext(
		ctx, q, row.ID, row.UserID, row.DisplayName, row.AvatarURL, row.CoinsBalance, row.StreakDays,
		row.BadgesEarned, row.TotalCheckIns, row.LastLoginAt, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return user.Profile{}, errors.Wrap(err, "inserting profile")
	}
	return prof, nil
}

func (repo userRepository) UpdateProfile(ctx context.Context, prof user.Profile, exec ...core.DBExecutor) (user.Profile, error) {
	row := repo.wrapProfile(prof)
	q := `
	UPDATE learner_profiles
	SET display_name = $2, avatar_url = $3, coins_balance = $4, streak_days = $5,
		badges_earned = $6, total_check_ins = $7, last_login_at = $8, updated_at = $9
	WHERE user_id = $1`
	res, err := repo.getExec(exec).ExecContext(
		ctx, q, row.UserID, row.DisplayName, row.AvatarURL, row.CoinsBalance, row.StreakDays,
		row.BadgesEarned, row.TotalCheckIns, row.LastLoginAt, row.UpdatedAt,
	)
	if err != nil {
		return user.Profile{}, errors.Wrap(err, "updating profile")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.Profile{}, user.ErrNotFound
	}
	return prof, nil
}

func (repo userRepository) CreateLoginEvent(ctx context.Context, evt user.LoginEvent, exec ...core.DBExecutor) error {
	q := "INSERT INTO login_events (id, user_id, logged_in_at, client_notes) VALUES ($1, $2, $3, $4)"
	if _, err := repo.getExec(exec).ExecContext(
		ctx, q, uuid.New().String(), evt.UserID, evt.LoggedInAt.UTC(), evt.ClientNotes,
	); err != nil {
		return errors.Wrap(err, "inserting login event")
	}
	return nil
}

func (repo userRepository) QueryLearners(ctx context.Context) ([]user.Learner, error) {
	users, err := repo.FilterUsers(ctx, user.QueryFilter{Role: user.RoleLearner})
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	q := fmt.Sprintf("SELECT %s FROM learner_profiles", profileCols)
	if err = repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying profiles")
	}
	profByUser := make(map[string]user.Profile, len(rows))
	for _, row := range rows {
		profByUser[row.UserID] = repo.unwrapProfile(row)
	}

	learners := make([]user.Learner, 0, len(users))
	for _, usr := range users {
		learners = append(learners, user.Learner{User: usr, Profile: profByUser[usr.ID]})
	}
	return learners, nil
}
