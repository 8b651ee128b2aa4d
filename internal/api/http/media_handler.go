package http

import (
	"io"
	"net/http"
	"path/filepath"

	"tinytribe-backend/internal/storage"

	"github.com/gorilla/mux"
)

// MediaHandler serves stored photos back to clients when the local storage
// backend is in use.
type MediaHandler struct {
	storage storage.StorageInterface
}

func NewMediaHandler(store storage.StorageInterface) *MediaHandler {
	return &MediaHandler{storage: store}
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	file, err := h.storage.Open(r.Context(), key)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}
