package http

import (
	"net/http"
	"time"

	"tinytribe-backend/internal/auth"
	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/service"

	"github.com/gorilla/mux"
)

type RequestHandler struct {
	requests service.RequestService
}

func NewRequestHandler(requests service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

type createRequestRequest struct {
	Date   string `json:"date"`
	Urgent bool   `json:"urgent"`
	Note   string `json:"note"`
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createRequestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.requests.CreateRequest(r.Context(), service.Actor{Identity: id.Key(), Name: id.Name}, mux.Vars(r)["id"], req.Date, req.Urgent, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RequestHandler) ListWeek(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	week := r.URL.Query().Get("week")
	if week == "" {
		week = time.Now().Format("2006-01-02")
	}

	requests, err := h.requests.ListWeek(r.Context(), id.Key(), mux.Vars(r)["id"], week)
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []domain.ChildcareRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *RequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.requests.CancelRequest(r.Context(), id.Key(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
