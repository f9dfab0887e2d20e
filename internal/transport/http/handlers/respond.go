package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mediat/accounts/internal/imaging"
	"github.com/mediat/accounts/internal/service"
	"github.com/mediat/accounts/pkg/validator"
)

// Response envelopes: {status:"success", token?, data?} on success,
// {status:"fail"|"error", message} otherwise. 4xx is "fail", 5xx "error".

type successBody struct {
	Status string `json:"status"`
	Token  string `json:"token,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type failBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, token string, data any) {
	writeJSON(w, status, successBody{Status: "success", Token: token, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	kind := "fail"
	if status >= http.StatusInternalServerError {
		kind = "error"
	}
	writeJSON(w, status, failBody{Status: kind, Message: message})
}

// respondError is the single funnel mapping service failures to HTTP
// responses. Unexpected errors become an opaque 500.
func respondError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeFail(w, http.StatusBadRequest, verrs.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeFail(w, http.StatusBadRequest, "Email address is already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeFail(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrUserNotFound):
		writeFail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, imaging.ErrNotImage):
		writeFail(w, http.StatusBadRequest, "Not an image. Please upload only images")
	default:
		slog.Error("request failed", "error", err)
		writeFail(w, http.StatusInternalServerError, "Something went wrong")
	}
}
