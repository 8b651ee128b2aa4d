package http

import (
	"errors"
	"net/http"

	"tinytribe-backend/internal/auth"
	"tinytribe-backend/internal/invite"
	"tinytribe-backend/internal/logger"
	"tinytribe-backend/internal/session"
)

// SessionHandler drives the pending-invite resolver. The client forwards
// every deep link it receives, reports sign-in completion, and reports
// sign-out; the resolver decides whether a join happens now, later, or not
// at all.
type SessionHandler struct {
	registry *session.Registry
}

func NewSessionHandler(registry *session.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

type deepLinkRequest struct {
	URL string `json:"url"`
}

type resolverResponse struct {
	Status  session.Outcome `json:"status"`
	GroupID string          `json:"group_id,omitempty"`
}

// DeepLink runs behind optional auth: the link may arrive before sign-in.
func (h *SessionHandler) DeepLink(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-Session-ID header is required"})
		return
	}

	var req deepLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var identity string
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		identity = id.Key()
	}

	outcome, err := h.registry.Get(sessionID).HandleInviteURL(r.Context(), identity, req.URL)
	if err != nil {
		if errors.Is(err, invite.ErrMalformed) {
			// Not an invite for us; possibly some other deep link. Non-fatal.
			logger.Debug("Ignoring deep link that is not an invite", "error", err)
			writeJSON(w, http.StatusOK, resolverResponse{Status: session.OutcomeIgnored})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolverResponse{Status: outcome})
}

// Authenticated is called by the client once sign-in completes, so a held
// invite can be redeemed.
func (h *SessionHandler) Authenticated(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-Session-ID header is required"})
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())

	outcome, groupID, err := h.registry.Get(sessionID).OnAuthenticated(r.Context(), id.Key())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolverResponse{Status: outcome, GroupID: groupID})
}

// SignOut drops the session and whatever invite it was holding.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-Session-ID header is required"})
		return
	}

	h.registry.Drop(sessionID)
	w.WriteHeader(http.StatusNoContent)
}
