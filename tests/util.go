package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/hamasa/core/assignment"
	"github.com/trezcool/hamasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	code, name, role string,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Code:      user.NormalizeCode(code),
		Role:      role,
		FullName:  name,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateLearner provisions a learner account along with its profile.
func CreateLearner(
	t *testing.T,
	repo user.Repository,
	code, name string,
	coins int,
	createdAt ...time.Time,
) (user.User, user.Profile) {
	t.Helper()

	usr := CreateUser(t, repo, code, name, user.RoleLearner, createdAt...)
	prof := user.Profile{
		UserID:       usr.ID,
		DisplayName:  name,
		CoinsBalance: coins,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
	prof, err := repo.CreateProfile(context.Background(), prof)
	if err != nil {
		t.Fatalf("CreateLearner() failed: %v", err)
	}
	return usr, prof
}

func CreateAssignment(t *testing.T, repo assignment.Repository, asg assignment.Assignment) assignment.Assignment {
	t.Helper()

	tstamp := time.Now().UTC()
	if asg.CreatedAt.IsZero() {
		asg.CreatedAt = tstamp
		asg.UpdatedAt = tstamp
	}
	if asg.BaseStatus == "" {
		asg.BaseStatus = assignment.StatusPending
	}
	asg, err := repo.CreateAssignment(context.Background(), asg)
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func CreateProgress(t *testing.T, repo assignment.Repository, prog assignment.Progress) assignment.Progress {
	t.Helper()

	tstamp := time.Now().UTC()
	if prog.CreatedAt.IsZero() {
		prog.CreatedAt = tstamp
		prog.UpdatedAt = tstamp
	}
	if prog.Status == "" {
		prog.Status = assignment.StatusPending
	}
	prog, err := repo.UpsertProgress(context.Background(), prog)
	if err != nil {
		t.Fatalf("CreateProgress() failed: %v", err)
	}
	return prog
}
