package memory

import (
	"context"
	"sync"

	"github.com/presenzelab/presenze-backend-go/internal/domain/schedule"
	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]user.User)}
}

// Put seeds a user; test setup only.
func (r *UserRepository) Put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, ids []string) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []user.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

type ShiftRepository struct {
	mu     sync.Mutex
	shifts map[string]schedule.Shift
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{shifts: make(map[string]schedule.Shift)}
}

// Put seeds a shift; test setup only.
func (r *ShiftRepository) Put(s schedule.Shift) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts[s.UserID] = s
}

func (r *ShiftRepository) GetByUserID(_ context.Context, userID string) (schedule.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.shifts[userID]; ok {
		return s, nil
	}
	def := schedule.Default()
	def.UserID = userID
	return def, nil
}
