package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mediat/accounts/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.auth.Signup(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, result.Token, map[string]any{"newUser": result.User})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result.Token, nil)
}
