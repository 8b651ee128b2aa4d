package http

import (
	"net/http"

	"tinytribe-backend/internal/auth"
	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/service"
)

type ProfileHandler struct {
	users       service.UserService
	maxBodySize int64
}

func NewProfileHandler(users service.UserService, maxFileSizeMB int64) *ProfileHandler {
	return &ProfileHandler{
		users:       users,
		maxBodySize: maxFileSizeMB * 1024 * 1024,
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	profile, err := h.users.GetProfile(r.Context(), id.Key())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var profile domain.Profile
	if !decodeBody(w, r, &profile) {
		return
	}
	if profile.Email == "" {
		profile.Email = id.Email
	}
	if profile.Name == "" {
		profile.Name = id.Name
	}

	if err := h.users.SaveProfile(r.Context(), id.Key(), &profile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UploadPhoto streams the request body straight into storage and returns the
// resulting URL. No image processing happens here.
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	body := http.MaxBytesReader(w, r.Body, h.maxBodySize)
	url, err := h.users.UploadPhoto(r.Context(), id.Key(), r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
