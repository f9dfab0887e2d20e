package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediat/accounts/internal/domain"
	"github.com/mediat/accounts/internal/password"
	"github.com/mediat/accounts/internal/repository/memory"
	"github.com/mediat/accounts/internal/token"
	"github.com/mediat/accounts/pkg/validator"
)

func newTestService(t *testing.T) (*AuthService, *memory.UserRepo) {
	t.Helper()
	repo := memory.NewUserRepo()
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := token.NewManager("test-secret", time.Hour)
	return NewAuthService(repo, hasher, tokens), repo
}

func signupInput() SignupInput {
	return SignupInput{
		Name:            "A",
		Email:           "a@x.com",
		Password:        "secret12",
		PasswordConfirm: "secret12",
	}
}

func TestSignup(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "a@x.com", result.User.Email)
	assert.Equal(t, domain.DefaultPhoto, result.User.Photo)

	hash := repo.StoredHash(result.User.ID)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret12", hash)
	assert.True(t, password.NewHasher(bcrypt.MinCost).Verify("secret12", hash))
}

func TestSignupNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Signup(context.Background(), SignupInput{
		Name: "A", Email: "  A@X.Com ", Password: "secret12", PasswordConfirm: "secret12",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", result.User.Email)
}

func TestSignupConfirmMismatch(t *testing.T) {
	svc, repo := newTestService(t)

	input := signupInput()
	input.PasswordConfirm = "secret13"

	_, err := svc.Signup(context.Background(), input)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "passwordConfirm")
	assert.Equal(t, 0, repo.Len())
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, repo.Len())
}

func TestSignupConcurrentDuplicateEmail(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Signup(ctx, signupInput())
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, ErrEmailTaken):
			duplicates++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)
	assert.Equal(t, 1, repo.Len())
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"correct credentials", "a@x.com", "secret12", nil},
		{"wrong password", "a@x.com", "secret13", ErrInvalidCredentials},
		{"unknown email", "b@x.com", "secret12", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(ctx, LoginInput{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.Empty(t, result.User.PasswordHash)
		})
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, result.User.ID))

	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrUserGone)
}

func TestUpdatePassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)
	oldHash := repo.StoredHash(result.User.ID)

	newToken, err := svc.UpdatePassword(ctx, result.User, PasswordChangeInput{
		PasswordCurrent: "secret12",
		Password:        "newsecret1",
		PasswordConfirm: "newsecret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, newToken)
	assert.NotEqual(t, oldHash, repo.StoredHash(result.User.ID))

	// New password works, old one does not.
	_, err = svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "newsecret1"})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "secret12"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)
	oldHash := repo.StoredHash(result.User.ID)

	_, err = svc.UpdatePassword(ctx, result.User, PasswordChangeInput{
		PasswordCurrent: "wrong999",
		Password:        "newsecret1",
		PasswordConfirm: "newsecret1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, oldHash, repo.StoredHash(result.User.ID))
}

func TestUpdateProfile(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)
	oldHash := repo.StoredHash(result.User.ID)

	name := "B"
	email := "B@y.com"
	photo := "user-x-1.jpeg"
	updated, err := svc.UpdateProfile(ctx, result.User.ID, ProfileUpdate{
		Name: &name, Email: &email, Photo: &photo,
	})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, "b@y.com", updated.Email)
	assert.Equal(t, "user-x-1.jpeg", updated.Photo)
	assert.Equal(t, oldHash, repo.StoredHash(result.User.ID))
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	other, err := svc.Signup(ctx, SignupInput{
		Name: "B", Email: "b@x.com", Password: "secret12", PasswordConfirm: "secret12",
	})
	require.NoError(t, err)

	email := "a@x.com"
	_, err = svc.UpdateProfile(ctx, other.User.ID, ProfileUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, result.User.ID))
	assert.Equal(t, 0, repo.Len())

	// Login for the deleted account fails with the generic error.
	_, err = svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "secret12"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, svc.Delete(ctx, result.User.ID), ErrUserNotFound)
}
