package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/mood"
)

type moodRepository struct {
	db *DB
}

var _ mood.Repository = (*moodRepository)(nil) // interface compliance check

func NewMoodRepository(db *DB) *moodRepository {
	return &moodRepository{db: db}
}

func (repo *moodRepository) CreateEntry(ctx context.Context, entry mood.Entry, exec ...core.DBExecutor) (mood.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	entry.ID = uuid.New().String()
	repo.db.moods = append(repo.db.moods, entry)
	return entry, nil
}

func (repo *moodRepository) QueryEntries(ctx context.Context, userID string, limit int) ([]mood.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var entries []mood.Entry
	for i := len(repo.db.moods) - 1; i >= 0; i-- { // most recent first
		if repo.db.moods[i].UserID != userID {
			continue
		}
		entries = append(entries, repo.db.moods[i])
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}
