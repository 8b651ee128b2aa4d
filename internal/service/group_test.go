package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/invite"
	"tinytribe-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newGroupServiceForTest(groupRepo *MockGroupRepo, indexRepo *MockUserGroupRepo, requireInvite bool) GroupService {
	codec := invite.NewCodec("tinytribe", "group")
	return NewGroupService(groupRepo, indexRepo, codec, nil, 5*time.Second, requireInvite)
}

func TestGroupService_CreateGroupWithInvites(t *testing.T) {
	ctx := context.Background()
	creator := Actor{Identity: "alice@example.com", Name: "Alice"}

	t.Run("Success", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Group")).Return(nil)
		indexRepo.On("Add", mock.Anything, creator.Identity, mock.AnythingOfType("string")).Return(nil)

		group, err := svc.CreateGroupWithInvites(ctx, creator, "Tuesday Tribe", []string{"bob@example.com", "carol@example.com"})
		assert.NoError(t, err)
		assert.NotNil(t, group)
		assert.NotEmpty(t, group.ID)
		assert.Equal(t, "Tuesday Tribe", group.Name)
		assert.Equal(t, creator.Identity, group.CreatedBy)

		assert.Len(t, group.Members, 1)
		assert.Equal(t, creator.Identity, group.Members[0].Identity)
		assert.True(t, group.Members[0].HasAccepted)

		assert.Len(t, group.Invitees, 2)
		assert.Equal(t, "bob@example.com", group.Invitees[0].Identity)
		assert.False(t, group.Invitees[0].HasAccepted)

		groupRepo.AssertExpectations(t)
		indexRepo.AssertExpectations(t)
	})

	t.Run("DeduplicatesAndDropsSelf", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Group")).Return(nil)
		indexRepo.On("Add", mock.Anything, creator.Identity, mock.AnythingOfType("string")).Return(nil)

		group, err := svc.CreateGroupWithInvites(ctx, creator, "Tribe", []string{
			" bob@example.com ", "bob@example.com", "", creator.Identity, "carol@example.com",
		})
		assert.NoError(t, err)
		assert.Len(t, group.Invitees, 2)
		assert.Equal(t, "bob@example.com", group.Invitees[0].Identity)
		assert.Equal(t, "carol@example.com", group.Invitees[1].Identity)
	})

	t.Run("RejectsEmptyName", func(t *testing.T) {
		svc := newGroupServiceForTest(new(MockGroupRepo), new(MockUserGroupRepo), false)

		_, err := svc.CreateGroupWithInvites(ctx, creator, "   ", []string{"bob@example.com"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("RejectsNoInvitees", func(t *testing.T) {
		svc := newGroupServiceForTest(new(MockGroupRepo), new(MockUserGroupRepo), false)

		// Only the creator's own identity, which is dropped.
		_, err := svc.CreateGroupWithInvites(ctx, creator, "Tribe", []string{creator.Identity})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("WrapsStoreFailure", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		groupRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrStoreUnavailable)

		_, err := svc.CreateGroupWithInvites(ctx, creator, "Tribe", []string{"bob@example.com"})
		assert.ErrorIs(t, err, ErrGroupCreationFailed)
		indexRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WrapsIndexFailure", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		groupRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		indexRepo.On("Add", mock.Anything, creator.Identity, mock.Anything).Return(errors.New("index write failed"))

		_, err := svc.CreateGroupWithInvites(ctx, creator, "Tribe", []string{"bob@example.com"})
		assert.ErrorIs(t, err, ErrGroupCreationFailed)
	})
}

func TestGroupService_JoinGroup(t *testing.T) {
	ctx := context.Background()
	existing := &domain.Group{
		ID:        "g-1",
		Name:      "Tribe",
		CreatedBy: "alice@example.com",
		Members:   []domain.Member{{Identity: "alice@example.com", HasAccepted: true}},
		Invitees:  []domain.Member{{Identity: "bob@example.com"}},
	}

	t.Run("Success", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		groupRepo.On("GetByID", mock.Anything, "g-1").Return(existing, nil)
		groupRepo.On("PromoteToMember", mock.Anything, "g-1", "bob@example.com", false).Return(nil)
		indexRepo.On("Add", mock.Anything, "bob@example.com", "g-1").Return(nil)

		err := svc.JoinGroup(ctx, "bob@example.com", "g-1")
		assert.NoError(t, err)
		groupRepo.AssertExpectations(t)
		indexRepo.AssertExpectations(t)
	})

	t.Run("GroupNotFound", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)

		groupRepo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

		err := svc.JoinGroup(ctx, "bob@example.com", "missing")
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("StrictModeRejectsUninvited", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, true)

		groupRepo.On("GetByID", mock.Anything, "g-1").Return(existing, nil)
		groupRepo.On("PromoteToMember", mock.Anything, "g-1", "mallory@example.com", true).Return(repository.ErrNotInvited)

		err := svc.JoinGroup(ctx, "mallory@example.com", "g-1")
		assert.ErrorIs(t, err, ErrNotInvited)
		indexRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("IndexNotUpdatedOnPromoteFailure", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		groupRepo.On("GetByID", mock.Anything, "g-1").Return(existing, nil)
		groupRepo.On("PromoteToMember", mock.Anything, "g-1", "bob@example.com", false).Return(repository.ErrStoreUnavailable)

		err := svc.JoinGroup(ctx, "bob@example.com", "g-1")
		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		indexRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGroupService_LoadGroupsForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		indexRepo.On("ListGroupIDs", mock.Anything, "bob@example.com").Return([]string{"g-1", "g-2"}, nil)
		groupRepo.On("ListByIDs", mock.Anything, []string{"g-1", "g-2"}).Return([]domain.Group{{ID: "g-1"}, {ID: "g-2"}}, nil)

		groups, err := svc.LoadGroupsForUser(ctx, "bob@example.com")
		assert.NoError(t, err)
		assert.Len(t, groups, 2)
	})

	t.Run("EmptyIndexSkipsFetch", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		indexRepo.On("ListGroupIDs", mock.Anything, "new@example.com").Return([]string{}, nil)

		groups, err := svc.LoadGroupsForUser(ctx, "new@example.com")
		assert.NoError(t, err)
		assert.Empty(t, groups)
		groupRepo.AssertNotCalled(t, "ListByIDs", mock.Anything, mock.Anything)
	})

	t.Run("DanglingIDsOmitted", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		indexRepo := new(MockUserGroupRepo)
		svc := newGroupServiceForTest(groupRepo, indexRepo, false)

		indexRepo.On("ListGroupIDs", mock.Anything, "bob@example.com").Return([]string{"g-1", "g-gone"}, nil)
		groupRepo.On("ListByIDs", mock.Anything, []string{"g-1", "g-gone"}).Return([]domain.Group{{ID: "g-1"}}, nil)

		groups, err := svc.LoadGroupsForUser(ctx, "bob@example.com")
		assert.NoError(t, err)
		assert.Len(t, groups, 1)
	})
}

func TestGroupService_GetGroup(t *testing.T) {
	ctx := context.Background()
	group := &domain.Group{
		ID:       "g-1",
		Members:  []domain.Member{{Identity: "alice@example.com", HasAccepted: true}},
		Invitees: []domain.Member{{Identity: "bob@example.com"}},
	}

	t.Run("MemberCanRead", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)
		groupRepo.On("GetByID", mock.Anything, "g-1").Return(group, nil)

		got, err := svc.GetGroup(ctx, "alice@example.com", "g-1")
		assert.NoError(t, err)
		assert.Equal(t, "g-1", got.ID)
	})

	t.Run("InviteeCanRead", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)
		groupRepo.On("GetByID", mock.Anything, "g-1").Return(group, nil)

		_, err := svc.GetGroup(ctx, "bob@example.com", "g-1")
		assert.NoError(t, err)
	})

	t.Run("StrangerRejected", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)
		groupRepo.On("GetByID", mock.Anything, "g-1").Return(group, nil)

		_, err := svc.GetGroup(ctx, "mallory@example.com", "g-1")
		assert.ErrorIs(t, err, ErrNotMember)
	})
}

func TestGroupService_InviteMembers(t *testing.T) {
	ctx := context.Background()
	group := &domain.Group{
		ID:       "g-1",
		Name:     "Tribe",
		Members:  []domain.Member{{Identity: "alice@example.com", HasAccepted: true}},
		Invitees: []domain.Member{{Identity: "bob@example.com"}},
	}

	t.Run("Success", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)

		groupRepo.On("GetByID", mock.Anything, "g-1").Return(group, nil)
		groupRepo.On("AddInvitees", mock.Anything, "g-1", []string{"carol@example.com"}).Return(nil)

		err := svc.InviteMembers(ctx, "alice@example.com", "g-1", []string{"carol@example.com"})
		assert.NoError(t, err)
		groupRepo.AssertExpectations(t)
	})

	t.Run("OnlyMembersMayInvite", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)

		groupRepo.On("GetByID", mock.Anything, "g-1").Return(group, nil)

		err := svc.InviteMembers(ctx, "bob@example.com", "g-1", []string{"carol@example.com"})
		assert.ErrorIs(t, err, ErrNotMember)
		groupRepo.AssertNotCalled(t, "AddInvitees", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ReinvitingExistingIsAccepted", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)

		groupRepo.On("GetByID", mock.Anything, "g-1").Return(group, nil)
		groupRepo.On("AddInvitees", mock.Anything, "g-1", []string{"bob@example.com"}).Return(nil)

		err := svc.InviteMembers(ctx, "alice@example.com", "g-1", []string{"bob@example.com"})
		assert.NoError(t, err)
	})
}

func TestGroupService_InviteLink(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)
		groupRepo.On("GetByID", mock.Anything, "g-1").Return(&domain.Group{ID: "g-1"}, nil)

		link, err := svc.InviteLink(ctx, "g-1")
		assert.NoError(t, err)
		assert.Equal(t, "tinytribe://group?id=g-1", link)
	})

	t.Run("GroupNotFound", func(t *testing.T) {
		groupRepo := new(MockGroupRepo)
		svc := newGroupServiceForTest(groupRepo, new(MockUserGroupRepo), false)
		groupRepo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

		_, err := svc.InviteLink(ctx, "missing")
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}
