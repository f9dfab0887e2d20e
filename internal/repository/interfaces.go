package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mediat/accounts/internal/domain"
)

var (
	// ErrDuplicateEmail is returned by Create and UpdateFields when the
	// email unique index rejects a write.
	ErrDuplicateEmail = errors.New("email already taken")
	// ErrNotFound is returned by writes that matched no record.
	ErrNotFound = errors.New("user not found")
)

// UserUpdate carries the fields a profile update may touch. Nil means
// "leave unchanged". The password hash deliberately has no field here;
// it can only change through UpdatePassword.
type UserUpdate struct {
	Name  *string
	Email *string
	Photo *string
}

// UserRepository is the persistence contract for user records. Lookups
// return (nil, nil) when no record matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByEmail omits the password hash unless withPassword is set.
	GetByEmail(ctx context.Context, email string, withPassword bool) (*domain.User, error)
	UpdateFields(ctx context.Context, id uuid.UUID, update UserUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
