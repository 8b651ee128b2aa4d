package http

import (
	"net/http"

	"tinytribe-backend/internal/auth"

	"github.com/gorilla/mux"
)

// NewRouter wires all handlers onto a mux router.
func NewRouter(
	authMw *auth.Middleware,
	groups *GroupHandler,
	requests *RequestHandler,
	profiles *ProfileHandler,
	sessions *SessionHandler,
	media *MediaHandler,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Deep links arrive with or without a signed-in user.
	api.Handle("/deeplink", authMw.Optional(http.HandlerFunc(sessions.DeepLink))).Methods("POST")
	// Sign-out only needs the session id; the token may already be gone.
	api.Handle("/session/signout", http.HandlerFunc(sessions.SignOut)).Methods("POST")
	// Photos are served by stable URL; no token on image fetches.
	api.Handle("/media/{key:.+}", http.HandlerFunc(media.Get)).Methods("GET")

	authed := api.NewRoute().Subrouter()
	authed.Use(authMw.Require)

	authed.HandleFunc("/session/authenticated", sessions.Authenticated).Methods("POST")

	authed.HandleFunc("/groups", groups.Create).Methods("POST")
	authed.HandleFunc("/groups", groups.List).Methods("GET")
	authed.HandleFunc("/groups/{id}", groups.Get).Methods("GET")
	authed.HandleFunc("/groups/{id}/invitees", groups.Invite).Methods("POST")
	authed.HandleFunc("/groups/{id}/join", groups.Join).Methods("POST")
	authed.HandleFunc("/groups/{id}/invite-link", groups.InviteLink).Methods("GET")

	authed.HandleFunc("/groups/{id}/requests", requests.Create).Methods("POST")
	authed.HandleFunc("/groups/{id}/requests", requests.ListWeek).Methods("GET")
	authed.HandleFunc("/requests/{id}", requests.Cancel).Methods("DELETE")

	authed.HandleFunc("/me", profiles.Get).Methods("GET")
	authed.HandleFunc("/me", profiles.Save).Methods("PUT")
	authed.HandleFunc("/me/photos", profiles.UploadPhoto).Methods("POST")

	return r
}
