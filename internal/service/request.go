package service

import (
	"context"
	"errors"
	"time"

	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidDate     = errors.New("date must be 2006-01-02 and not in the past")
	ErrRequestNotFound = errors.New("request not found")
	ErrNotRequester    = errors.New("only the requester may cancel a request")
)

type requestService struct {
	requestRepo  repository.RequestRepository
	groupRepo    repository.GroupRepository
	queryTimeout time.Duration
}

func NewRequestService(requestRepo repository.RequestRepository, groupRepo repository.GroupRepository, queryTimeout time.Duration) RequestService {
	return &requestService{
		requestRepo:  requestRepo,
		groupRepo:    groupRepo,
		queryTimeout: queryTimeout,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, actor Actor, groupID, date string, urgent bool, note string) (*domain.ChildcareRequest, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	today := time.Now().Truncate(24 * time.Hour)
	if day.Before(today) {
		return nil, ErrInvalidDate
	}

	if err := s.requireMember(ctx, actor.Identity, groupID); err != nil {
		return nil, err
	}

	name := actor.Name
	if name == "" {
		name = actor.Identity
	}
	req := &domain.ChildcareRequest{
		ID:                uuid.NewString(),
		GroupID:           groupID,
		RequesterIdentity: actor.Identity,
		RequesterName:     name,
		Date:              day.Format("2006-01-02"),
		IsUrgent:          urgent,
		Note:              note,
	}

	createCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.requestRepo.Create(createCtx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requestService) ListWeek(ctx context.Context, identity, groupID, anyDay string) ([]domain.ChildcareRequest, error) {
	day, err := time.Parse("2006-01-02", anyDay)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := s.requireMember(ctx, identity, groupID); err != nil {
		return nil, err
	}

	monday := startOfWeek(day)
	listCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.requestRepo.ListByGroupAndRange(listCtx, groupID,
		monday.Format("2006-01-02"),
		monday.AddDate(0, 0, 7).Format("2006-01-02"))
}

func (s *requestService) CancelRequest(ctx context.Context, identity, requestID string) error {
	getCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	req, err := s.requestRepo.GetByID(getCtx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.RequesterIdentity != identity {
		return ErrNotRequester
	}

	deleteCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.requestRepo.Delete(deleteCtx, requestID)
}

func (s *requestService) requireMember(ctx context.Context, identity, groupID string) error {
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
	return nil
}

// startOfWeek returns the Monday of day's week.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
