package service

import (
	"context"

	"tinytribe-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockGroupRepo
type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) Create(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}
func (m *MockGroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
func (m *MockGroupRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Group, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}
func (m *MockGroupRepo) AddInvitees(ctx context.Context, groupID string, identities []string) error {
	args := m.Called(ctx, groupID, identities)
	return args.Error(0)
}
func (m *MockGroupRepo) PromoteToMember(ctx context.Context, groupID, identity string, requireInvite bool) error {
	args := m.Called(ctx, groupID, identity, requireInvite)
	return args.Error(0)
}
func (m *MockGroupRepo) ListIDsWithPendingInvitees(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockUserGroupRepo
type MockUserGroupRepo struct {
	mock.Mock
}

func (m *MockUserGroupRepo) ListGroupIDs(ctx context.Context, identity string) ([]string, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockUserGroupRepo) Add(ctx context.Context, identity, groupID string) error {
	args := m.Called(ctx, identity, groupID)
	return args.Error(0)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.ChildcareRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id string) (*domain.ChildcareRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChildcareRequest), args.Error(1)
}
func (m *MockRequestRepo) ListByGroupAndRange(ctx context.Context, groupID, from, to string) ([]domain.ChildcareRequest, error) {
	args := m.Called(ctx, groupID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChildcareRequest), args.Error(1)
}
func (m *MockRequestRepo) ListByDate(ctx context.Context, date string) ([]domain.ChildcareRequest, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChildcareRequest), args.Error(1)
}
func (m *MockRequestRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvitation(ctx context.Context, email, groupName, inviteLink string) error {
	args := m.Called(ctx, email, groupName, inviteLink)
	return args.Error(0)
}
func (m *MockEmailService) SendRequestReminder(ctx context.Context, email, requesterName, date string, urgent bool) error {
	args := m.Called(ctx, email, requesterName, date, urgent)
	return args.Error(0)
}
