package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]assignment.Assignment, len(repo.db.assignments))
	copy(assignments, repo.db.assignments)
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].DisplayOrder < assignments[j].DisplayOrder
	})
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, asg := range repo.db.assignments {
		if asg.ID == id {
			return asg, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	asg.ID = uuid.New().String()
	repo.db.assignments = append(repo.db.assignments, asg)
	return asg, nil
}

func (repo *assignmentRepository) GetProgress(ctx context.Context, assignmentID, userID string, exec ...core.DBExecutor) (assignment.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prog, ok := repo.db.progress[progressKey(assignmentID, userID)]; ok {
		return prog, nil
	}
	return assignment.Progress{}, assignment.ErrProgressNotFound
}

func (repo *assignmentRepository) QueryProgressByUser(ctx context.Context, userID string, exec ...core.DBExecutor) ([]assignment.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var progress []assignment.Progress
	for _, prog := range repo.db.progress {
		if prog.UserID == userID {
			progress = append(progress, prog)
		}
	}
	return progress, nil
}

func (repo *assignmentRepository) UpsertProgress(ctx context.Context, prog assignment.Progress, exec ...core.DBExecutor) (assignment.Progress, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := progressKey(prog.AssignmentID, prog.UserID)
	if existing, ok := repo.db.progress[key]; ok {
		prog.ID = existing.ID
		prog.CreatedAt = existing.CreatedAt
	} else if prog.ID == "" {
		prog.ID = uuid.New().String()
	}
	repo.db.progress[key] = prog
	return prog, nil
}
