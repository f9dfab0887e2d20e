package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mediat/accounts/internal/imaging"
	"github.com/mediat/accounts/internal/service"
	"github.com/mediat/accounts/internal/transport/http/middleware"
)

// maxUploadSize bounds the multipart form held in memory during a photo
// upload.
const maxUploadSize = 10 << 20

type UserHandler struct {
	auth   *service.AuthService
	images *imaging.Processor
}

func NewUserHandler(auth *service.AuthService, images *imaging.Processor) *UserHandler {
	return &UserHandler{auth: auth, images: images}
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	var input service.PasswordChangeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.UpdatePassword(r.Context(), user, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeFail(w, http.StatusUnauthorized, "Your current password is wrong")
			return
		}
		respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, token, nil)
}

// UpdateUser accepts JSON or multipart/form-data. Multipart requests may
// carry a single "photo" file; everything except name, email, and the
// processed photo is ignored, and any password field is rejected outright.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	var update service.ProfileUpdate
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		update, err = h.parseMultipartUpdate(r)
	} else {
		update, err = parseJSONUpdate(r)
	}
	if err != nil {
		switch {
		case errors.Is(err, errPasswordField):
			writeFail(w, http.StatusBadRequest, "Password can't be updated in this route")
		case errors.Is(err, errBadBody):
			writeFail(w, http.StatusBadRequest, "Invalid request body")
		default:
			respondError(w, err)
		}
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user.ID, update)
	if err != nil {
		respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"user": updated})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	if err := h.auth.Delete(r.Context(), user.ID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var (
	errPasswordField = errors.New("password field in profile update")
	errBadBody       = errors.New("invalid request body")
)

func parseJSONUpdate(r *http.Request) (service.ProfileUpdate, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return service.ProfileUpdate{}, errBadBody
	}

	if _, ok := body["password"]; ok {
		return service.ProfileUpdate{}, errPasswordField
	}
	if _, ok := body["passwordConfirm"]; ok {
		return service.ProfileUpdate{}, errPasswordField
	}

	var update service.ProfileUpdate
	if v, ok := body["name"].(string); ok {
		update.Name = &v
	}
	if v, ok := body["email"].(string); ok {
		update.Email = &v
	}
	return update, nil
}

func (h *UserHandler) parseMultipartUpdate(r *http.Request) (service.ProfileUpdate, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return service.ProfileUpdate{}, errBadBody
	}

	if r.PostForm.Has("password") || r.PostForm.Has("passwordConfirm") {
		return service.ProfileUpdate{}, errPasswordField
	}

	var update service.ProfileUpdate
	if r.PostForm.Has("name") {
		v := r.PostFormValue("name")
		update.Name = &v
	}
	if r.PostForm.Has("email") {
		v := r.PostFormValue("email")
		update.Email = &v
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return update, nil
	}
	if err != nil {
		return service.ProfileUpdate{}, errBadBody
	}
	defer file.Close()

	user := middleware.CurrentUser(r.Context())
	filename, err := h.images.Save(file, header.Header.Get("Content-Type"), user.ID)
	if err != nil {
		return service.ProfileUpdate{}, err
	}
	update.Photo = &filename
	return update, nil
}
