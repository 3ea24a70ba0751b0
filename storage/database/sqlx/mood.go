package sqlxrepos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/mood"
)

const moodCols = "id, user_id, emotion, motivation, energy, created_at"

type moodRepository struct {
	exec core.DBExecutor
}

var _ mood.Repository = (*moodRepository)(nil) // interface compliance check

func NewMoodRepository(exec core.DBExecutor) *moodRepository {
	return &moodRepository{exec: exec}
}

func (repo moodRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

type moodRow struct {
	ID         string      `db:"id"`
	UserID     string      `db:"user_id"`
	Emotion    null.String `db:"emotion"`
	Motivation null.String `db:"motivation"`
	Energy     null.String `db:"energy"`
	CreatedAt  time.Time   `db:"created_at"`
}

func (repo moodRepository) unwrap(row moodRow) mood.Entry {
	return mood.Entry{
		ID:         row.ID,
		UserID:     row.UserID,
		Emotion:    row.Emotion.Ptr(),
		Motivation: row.Motivation.Ptr(),
		Energy:     row.Energy.Ptr(),
		CreatedAt:  row.CreatedAt,
	}
}

func (repo moodRepository) CreateEntry(ctx context.Context, entry mood.Entry, exec ...core.DBExecutor) (mood.Entry, error) {
	entry.ID = uuid.New().String()
	q := `
	INSERT INTO mood_entries (id, user_id, emotion, motivation, energy, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := repo.getExec(exec).ExecContext(
		ctx, q, entry.ID, entry.UserID, null.StringFromPtr(entry.Emotion),
		null.StringFromPtr(entry.Motivation), null.StringFromPtr(entry.Energy), entry.CreatedAt.UTC(),
	); err != nil {
		return mood.Entry{}, errors.Wrap(err, "inserting mood entry")
	}
	return entry, nil
}

func (repo moodRepository) QueryEntries(ctx context.Context, userID string, limit int) ([]mood.Entry, error) {
	var rows []moodRow
	q := fmt.Sprintf("SELECT %s FROM mood_entries WHERE user_id = $1 ORDER BY created_at DESC", moodCols)
	args := []interface{}{userID}
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if err := repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying mood entries")
	}
	entries := make([]mood.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, repo.unwrap(row))
	}
	return entries, nil
}
