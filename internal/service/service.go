package service

import (
	"context"
	"io"

	"tinytribe-backend/internal/domain"
)

type GroupService interface {
	// CreateGroupWithInvites creates a group owned by the creator with the
	// given identities invited. The creator is recorded as an accepted member,
	// invitees start unaccepted. Invitee order is preserved, duplicates
	// collapse to the first occurrence.
	CreateGroupWithInvites(ctx context.Context, creator Actor, name string, invitees []string) (*domain.Group, error)
	// JoinGroup promotes identity to accepted member. Idempotent: joining a
	// group the identity already belongs to succeeds without state change.
	JoinGroup(ctx context.Context, identity, groupID string) error
	LoadGroupsForUser(ctx context.Context, identity string) ([]domain.Group, error)
	GetGroup(ctx context.Context, identity, groupID string) (*domain.Group, error)
	InviteMembers(ctx context.Context, identity, groupID string, invitees []string) error
	InviteLink(ctx context.Context, groupID string) (string, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, actor Actor, groupID, date string, urgent bool, note string) (*domain.ChildcareRequest, error)
	// ListWeek returns the group's requests for the Monday-started week
	// containing anyDay ("2006-01-02").
	ListWeek(ctx context.Context, identity, groupID, anyDay string) ([]domain.ChildcareRequest, error)
	CancelRequest(ctx context.Context, identity, requestID string) error
}

type UserService interface {
	GetProfile(ctx context.Context, identity string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, identity string, profile *domain.Profile) error
	// UploadPhoto is a pass-through: image bytes in, public URL out.
	UploadPhoto(ctx context.Context, identity, contentType string, body io.Reader) (string, error)
}

type EmailService interface {
	SendInvitation(ctx context.Context, email, groupName, inviteLink string) error
	SendRequestReminder(ctx context.Context, email, requesterName, date string, urgent bool) error
}

// Actor is the authenticated caller of an operation: the opaque identity
// string used as the membership key, plus the display name when known.
type Actor struct {
	Identity string
	Name     string
}
