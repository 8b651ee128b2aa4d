package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/invite"
	"tinytribe-backend/internal/logger"
	"tinytribe-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("group name and at least one invitee are required")
	ErrGroupNotFound = errors.New("group not found")
	ErrNotInvited = errors.New("identity was not invited to this group")
	ErrNotMember = errors.New("identity is not an accepted member of this group")
	// ErrGroupCreationFailed wraps any step failure during group creation.
	// Whatever was already written stays written; the caller may retry, which
	// can produce a duplicate group (no idempotency key, by source behavior).
	ErrGroupCreationFailed = errors.New("group creation failed")
)

type groupService struct {
	groupRepo     repository.GroupRepository
	indexRepo     repository.UserGroupRepository
	codec         *invite.Codec
	emailSvc      EmailService
	queryTimeout  time.Duration
	requireInvite bool
}

func NewGroupService(
	groupRepo repository.GroupRepository,
	indexRepo repository.UserGroupRepository,
	codec *invite.Codec,
	emailSvc EmailService,
	queryTimeout time.Duration,
	requireInvite bool,
) GroupService {
	return &groupService{
		groupRepo:     groupRepo,
		indexRepo:     indexRepo,
		codec:         codec,
		emailSvc:      emailSvc,
		queryTimeout:  queryTimeout,
		requireInvite: requireInvite,
	}
}

func (s *groupService) CreateGroupWithInvites(ctx context.Context, creator Actor, name string, invitees []string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	cleaned := normalizeInvitees(invitees, creator.Identity)
	if name == "" || len(cleaned) == 0 {
		return nil, ErrInvalidInput
	}

	group := &domain.Group{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: creator.Identity,
		Members:   []domain.Member{{Identity: creator.Identity, HasAccepted: true}},
	}
	for _, identity := range cleaned {
		group.Invitees = append(group.Invitees, domain.Member{Identity: identity, HasAccepted: false})
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.groupRepo.Create(storeCtx, group); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupCreationFailed, err)
	}

	// The group row is already durable at this point. An index failure leaves
	// the two collections out of sync until the creator rejoins; there is no
	// compensating delete.
	indexCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.indexRepo.Add(indexCtx, creator.Identity, group.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupCreationFailed, err)
	}

	s.sendInvitations(ctx, group)

	return group, nil
}

func (s *groupService) JoinGroup(ctx context.Context, identity, groupID string) error {
	getCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if _, err := s.groupRepo.GetByID(getCtx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	promoteCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.groupRepo.PromoteToMember(promoteCtx, groupID, identity, s.requireInvite); err != nil {
		if errors.Is(err, repository.ErrNotInvited) {
			return ErrNotInvited
		}
		return err
	}

	// Index update only after the membership write succeeded.
	indexCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.indexRepo.Add(indexCtx, identity, groupID)
}

func (s *groupService) LoadGroupsForUser(ctx context.Context, identity string) ([]domain.Group, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	ids, err := s.indexRepo.ListGroupIDs(listCtx, identity)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	// Index entries whose group has disappeared are silently omitted here.
	return s.groupRepo.ListByIDs(fetchCtx, ids)
}

func (s *groupService) GetGroup(ctx context.Context, identity, groupID string) (*domain.Group, error) {
	getCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	group, err := s.groupRepo.GetByID(getCtx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if !group.HasMember(identity) && !group.HasInvitee(identity) {
		return nil, ErrNotMember
	}
	return group, nil
}

func (s *groupService) InviteMembers(ctx context.Context, identity, groupID string, invitees []string) error {
	cleaned := normalizeInvitees(invitees, identity)
	if len(cleaned) == 0 {
		return ErrInvalidInput
	}

	getCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	group, err := s.groupRepo.GetByID(getCtx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if !group.HasMember(identity) {
		return ErrNotMember
	}

	addCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.groupRepo.AddInvitees(addCtx, groupID, cleaned); err != nil {
		return err
	}

	invited := &domain.Group{ID: group.ID, Name: group.Name}
	for _, id := range cleaned {
		if !group.HasMember(id) && !group.HasInvitee(id) {
			invited.Invitees = append(invited.Invitees, domain.Member{Identity: id})
		}
	}
	s.sendInvitations(ctx, invited)

	return nil
}

func (s *groupService) InviteLink(ctx context.Context, groupID string) (string, error) {
	getCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if _, err := s.groupRepo.GetByID(getCtx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrGroupNotFound
		}
		return "", err
	}
	return s.codec.Encode(groupID), nil
}

// sendInvitations emails the invite link to each invitee. Mail failures are
// logged and never fail the operation that triggered them.
func (s *groupService) sendInvitations(ctx context.Context, group *domain.Group) {
	if s.emailSvc == nil {
		return
	}
	link := s.codec.Encode(group.ID)
	for _, inv := range group.Invitees {
		if !strings.Contains(inv.Identity, "@") {
			continue
		}
		if err := s.emailSvc.SendInvitation(ctx, inv.Identity, group.Name, link); err != nil {
			logger.Warn("Failed to send invitation email", "group_id", group.ID, "invitee", inv.Identity, "error", err)
		}
	}
}

// normalizeInvitees trims whitespace, drops blanks and the caller's own
// identity, and deduplicates preserving first-occurrence order.
func normalizeInvitees(invitees []string, self string) []string {
	seen := make(map[string]struct{}, len(invitees))
	var out []string
	for _, raw := range invitees {
		identity := strings.TrimSpace(raw)
		if identity == "" || identity == self {
			continue
		}
		if _, ok := seen[identity]; ok {
			continue
		}
		seen[identity] = struct{}{}
		out = append(out, identity)
	}
	return out
}
