package mood

import (
	"context"
	"time"

	"github.com/trezcool/hamasa/core"
)

// NowFunc returns the current time; swapped out in tests.
var NowFunc = func() time.Time { return time.Now().UTC() }

type (
	Repository interface {
		CreateEntry(ctx context.Context, entry Entry, exec ...core.DBExecutor) (Entry, error)
		// QueryEntries returns a user's entries, most recent first.
		QueryEntries(ctx context.Context, userID string, limit int) ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Log records a check-in for userID. Skipped steps stay null.
func (svc *Service) Log(ctx context.Context, userID string, ne NewEntry) (Entry, error) {
	entry := Entry{
		UserID:     userID,
		Emotion:    optional(ne.Emotion),
		Motivation: optional(ne.Motivation),
		Energy:     optional(ne.Energy),
		CreatedAt:  NowFunc(),
	}
	return svc.repo.CreateEntry(ctx, entry)
}

func (svc *Service) History(ctx context.Context, userID string, limit int) ([]Entry, error) {
	return svc.repo.QueryEntries(ctx, userID, limit)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
