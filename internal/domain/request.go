package domain

// ChildcareRequest is a calendar entry asking the group for childcare on a
// given day. Date carries day precision only ("2006-01-02").
type ChildcareRequest struct {
	ID                string `json:"id"`
	GroupID           string `json:"group_id"`
	RequesterIdentity string `json:"requester_identity"`
	RequesterName     string `json:"requester_name"`
	Date              string `json:"date"`
	IsUrgent          bool   `json:"is_urgent"`
	Note              string `json:"note,omitempty"`
	CreatedOn         string `json:"created_on"`
}
