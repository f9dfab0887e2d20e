package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mediat/accounts/internal/domain"
	"github.com/mediat/accounts/internal/password"
	"github.com/mediat/accounts/internal/repository"
	"github.com/mediat/accounts/internal/token"
	"github.com/mediat/accounts/pkg/validator"
)

var (
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials deliberately covers both the unknown-email and
	// wrong-password cases so a caller cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	// ErrUserGone marks a valid token whose account has since been deleted.
	ErrUserGone = errors.New("the user belonging to this token no longer exists")
)

type AuthService struct {
	users  repository.UserRepository
	hasher password.Hasher
	tokens *token.Manager
}

func NewAuthService(users repository.UserRepository, hasher password.Hasher, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

type SignupInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordChangeInput struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// ProfileUpdate is the client-editable subset of a user record. Photo is
// set by the upload pipeline, never directly from the request body.
type ProfileUpdate struct {
	Name  *string
	Email *string
	Photo *string
}

type AuthResult struct {
	User  *domain.User
	Token string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if errs := validator.ValidateSignup(input.Name, input.Email, input.Password, input.PasswordConfirm); errs.HasErrors() {
		return nil, errs
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Photo:        domain.DefaultPhoto,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &AuthResult{User: user, Token: tok}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if errs := validator.ValidateLogin(input.Email, input.Password); errs.HasErrors() {
		return nil, errs
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(input.Email), true)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	user.PasswordHash = ""
	return &AuthResult{User: user, Token: tok}, nil
}

// Authenticate resolves a bearer token to a live user record. It is the
// precondition every protected operation runs behind.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	userID, _, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserGone
	}
	return user, nil
}

// UpdatePassword verifies the current password of the authenticated user,
// stores the new hash, and returns a fresh token. Default projections omit
// the hash, so the record is re-fetched with it first.
func (s *AuthService) UpdatePassword(ctx context.Context, user *domain.User, input PasswordChangeInput) (string, error) {
	if errs := validator.ValidatePasswordChange(input.PasswordCurrent, input.Password, input.PasswordConfirm); errs.HasErrors() {
		return "", errs
	}

	withHash, err := s.users.GetByEmail(ctx, user.Email, true)
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if withHash == nil {
		return "", ErrUserNotFound
	}

	if !s.hasher.Verify(input.PasswordCurrent, withHash.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("updating password: %w", err)
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return tok, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error) {
	if errs := validator.ValidateProfileUpdate(update.Name, update.Email); errs.HasErrors() {
		return nil, errs
	}

	fields := repository.UserUpdate{Photo: update.Photo}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		fields.Name = &name
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		fields.Email = &email
	}

	user, err := s.users.UpdateFields(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
