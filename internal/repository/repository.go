package repository

import (
	"context"
	"errors"

	"tinytribe-backend/internal/domain"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotInvited is returned by PromoteToMember in strict mode when the
	// identity is in neither the member nor the invitee list.
	ErrNotInvited = errors.New("identity was not invited to this group")
	// ErrStoreUnavailable wraps transport or backend failures. Callers may
	// retry manually; no retry is performed here.
	ErrStoreUnavailable = errors.New("membership store unavailable")
)

type GroupRepository interface {
	// Create persists the group and all of its member entries as a single
	// unit of work. The group ID must already be assigned.
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	// ListByIDs returns only the groups that exist. Missing IDs are silently
	// omitted; callers must not assume len(result) == len(ids).
	ListByIDs(ctx context.Context, ids []string) ([]domain.Group, error)
	// AddInvitees merges identities into the invitee list. Identities that
	// are already members or invitees are left untouched.
	AddInvitees(ctx context.Context, groupID string, identities []string) error
	// PromoteToMember atomically moves identity from invitees to members.
	// Idempotent: promoting an accepted member is a no-op success. With
	// requireInvite set, an identity in neither list fails ErrNotInvited.
	PromoteToMember(ctx context.Context, groupID, identity string, requireInvite bool) error
	// ListIDsWithPendingInvitees returns ids of groups that still have
	// unaccepted invitees (used by the nudge job).
	ListIDsWithPendingInvitees(ctx context.Context) ([]string, error)
}

type UserGroupRepository interface {
	ListGroupIDs(ctx context.Context, identity string) ([]string, error)
	// Add records groupID in the identity's group index. Adding an entry that
	// is already present is a no-op.
	Add(ctx context.Context, identity, groupID string) error
}

type RequestRepository interface {
	Create(ctx context.Context, req *domain.ChildcareRequest) error
	GetByID(ctx context.Context, id string) (*domain.ChildcareRequest, error)
	// ListByGroupAndRange returns requests for the group with from <= date < to,
	// ordered by date. Dates are "2006-01-02" strings.
	ListByGroupAndRange(ctx context.Context, groupID, from, to string) ([]domain.ChildcareRequest, error)
	// ListByDate returns all requests across groups for one day (used by the
	// reminder job).
	ListByDate(ctx context.Context, date string) ([]domain.ChildcareRequest, error)
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	GetByIdentity(ctx context.Context, identity string) (*domain.Profile, error)
	// Upsert creates or replaces the profile. Children are replaced wholesale.
	Upsert(ctx context.Context, profile *domain.Profile) error
}
