package http

import (
	"net/http"

	"tinytribe-backend/internal/auth"
	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/service"

	"github.com/gorilla/mux"
)

type GroupHandler struct {
	groups service.GroupService
}

func NewGroupHandler(groups service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	Name     string   `json:"name"`
	Invitees []string `json:"invitees"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	group, err := h.groups.CreateGroupWithInvites(r.Context(), service.Actor{Identity: id.Key(), Name: id.Name}, req.Name, req.Invitees)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	groups, err := h.groups.LoadGroupsForUser(r.Context(), id.Key())
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []domain.Group{} // "[]" rather than "null" in the body
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	group, err := h.groups.GetGroup(r.Context(), id.Key(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

type inviteRequest struct {
	Invitees []string `json:"invitees"`
}

func (h *GroupHandler) Invite(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req inviteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.groups.InviteMembers(r.Context(), id.Key(), mux.Vars(r)["id"], req.Invitees); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "invited"})
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.groups.JoinGroup(r.Context(), id.Key(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

func (h *GroupHandler) InviteLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.groups.InviteLink(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}
