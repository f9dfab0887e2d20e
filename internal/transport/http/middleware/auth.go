package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mediat/accounts/internal/domain"
	"github.com/mediat/accounts/internal/service"
	"github.com/mediat/accounts/internal/token"
)

type contextKey string

const userKey contextKey = "user"

// Auth guards protected routes: it requires a `Bearer` token, verifies it,
// checks the account still exists, and attaches the resolved user to the
// request context.
func Auth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "You are not logged in. Please log in to get access")
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")

			user, err := auth.Authenticate(r.Context(), tokenStr)
			switch {
			case errors.Is(err, service.ErrUserGone):
				unauthorized(w, "The user belonging to this token no longer exists")
				return
			case errors.Is(err, token.ErrInvalidToken):
				unauthorized(w, "Invalid or expired token")
				return
			case err != nil:
				writeFail(w, http.StatusInternalServerError, "error", "Something went wrong")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the user attached by Auth, or nil on an unguarded
// route.
func CurrentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

type failBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func unauthorized(w http.ResponseWriter, message string) {
	writeFail(w, http.StatusUnauthorized, "fail", message)
}

func writeFail(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(failBody{Status: kind, Message: message})
}
