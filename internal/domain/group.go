package domain

// Group is a babysitting circle. Members have accepted the invitation,
// invitees have not yet. An identity appears in at most one of the two lists.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"created_by"`
	CreatedOn string   `json:"created_on"`
	Members   []Member `json:"members"`
	Invitees  []Member `json:"invitees"`
}

// Member is one participant entry of a group. Identity is the email or phone
// the invite was addressed to; it becomes the join key. HasAccepted moves
// from false to true exactly once and never reverts.
type Member struct {
	Identity    string  `json:"identity"`
	HasAccepted bool    `json:"has_accepted"`
	InvitedOn   string  `json:"invited_on"`
	AcceptedOn  *string `json:"accepted_on,omitempty"`
}

// HasMember reports whether identity is an accepted member of the group.
func (g *Group) HasMember(identity string) bool {
	for _, m := range g.Members {
		if m.Identity == identity {
			return true
		}
	}
	return false
}

// HasInvitee reports whether identity is a pending invitee of the group.
func (g *Group) HasInvitee(identity string) bool {
	for _, m := range g.Invitees {
		if m.Identity == identity {
			return true
		}
	}
	return false
}
