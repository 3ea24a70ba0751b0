package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.ID != "" {
		if usr, ok := repo.db.users[filter.ID]; ok {
			return usr, nil
		}
		return user.User{}, user.ErrNotFound
	}
	if filter.Code != "" {
		for _, usr := range repo.db.users {
			if usr.Code == filter.Code {
				return usr, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]user.User, 0, len(repo.db.users))
	search := strings.ToLower(filter.Search)
	for _, usr := range repo.db.users {
		if filter.Role != "" && usr.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(usr.FullName), search) &&
			!strings.Contains(strings.ToLower(usr.Code), search) {
			continue
		}
		users = append(users, usr)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })
	return users, nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr.ID = uuid.New().String()
	repo.db.users[usr.ID] = usr
	return usr, nil
}

func (repo *userRepository) GetProfile(ctx context.Context, userID string, exec ...core.DBExecutor) (user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prof, ok := repo.db.profiles[userID]; ok {
		return prof, nil
	}
	return user.Profile{}, user.ErrNotFound
}

func (repo *userRepository) GetProfileForUpdate(ctx context.Context, userID string, tx core.DBExecutor) (user.Profile, error) {
	return repo.GetProfile(ctx, userID)
}

func (repo *userRepository) CreateProfile(ctx context.Context, prof user.Profile, exec ...core.DBExecutor) (user.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prof.ID = uuid.New().String()
	repo.db.profiles[prof.UserID] = prof
	return prof, nil
}

func (repo *userRepository) UpdateProfile(ctx context.Context, prof user.Profile, exec ...core.DBExecutor) (user.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.profiles[prof.UserID]; !ok {
		return user.Profile{}, user.ErrNotFound
	}
	repo.db.profiles[prof.UserID] = prof
	return prof, nil
}

func (repo *userRepository) CreateLoginEvent(ctx context.Context, evt user.LoginEvent, exec ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	evt.ID = uuid.New().String()
	repo.db.loginEvents = append(repo.db.loginEvents, evt)
	return nil
}

func (repo *userRepository) QueryLearners(ctx context.Context) ([]user.Learner, error) {
	users, err := repo.FilterUsers(ctx, user.QueryFilter{Role: user.RoleLearner})
	if err != nil {
		return nil, err
	}

	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	learners := make([]user.Learner, 0, len(users))
	for _, usr := range users {
		learners = append(learners, user.Learner{User: usr, Profile: repo.db.profiles[usr.ID]})
	}
	return learners, nil
}
