// Package memory holds an in-memory UserRepository used by tests. It
// mirrors the Postgres behavior: case-insensitive email uniqueness,
// password hash omitted unless requested, writes serialized under a lock.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mediat/accounts/internal/domain"
	"github.com/mediat/accounts/internal/repository"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findByEmailLocked(user.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string, withPassword bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findByEmailLocked(email)
	if u == nil {
		return nil, nil
	}
	clone := *u
	if !withPassword {
		clone.PasswordHash = ""
	}
	return &clone, nil
}

func (r *UserRepo) UpdateFields(_ context.Context, id uuid.UUID, update repository.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if update.Email != nil {
		if other := r.findByEmailLocked(*update.Email); other != nil && other.ID != id {
			return nil, repository.ErrDuplicateEmail
		}
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Photo != nil {
		u.Photo = *update.Photo
	}
	r.users[id] = u

	u.PasswordHash = ""
	return &u, nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// StoredHash exposes the raw hash for assertions.
func (r *UserRepo) StoredHash(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].PasswordHash
}

// Len reports the number of stored records.
func (r *UserRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *UserRepo) findByEmailLocked(email string) *domain.User {
	email = strings.ToLower(email)
	for _, u := range r.users {
		if strings.ToLower(u.Email) == email {
			clone := u
			return &clone
		}
	}
	return nil
}
