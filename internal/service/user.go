package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/repository"
	"tinytribe-backend/internal/storage"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

type userService struct {
	profileRepo  repository.ProfileRepository
	storage      storage.StorageInterface
	queryTimeout time.Duration
}

func NewUserService(profileRepo repository.ProfileRepository, store storage.StorageInterface, queryTimeout time.Duration) UserService {
	return &userService{
		profileRepo:  profileRepo,
		storage:      store,
		queryTimeout: queryTimeout,
	}
}

func (s *userService) GetProfile(ctx context.Context, identity string) (*domain.Profile, error) {
	getCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	profile, err := s.profileRepo.GetByIdentity(getCtx, identity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *userService) SaveProfile(ctx context.Context, identity string, profile *domain.Profile) error {
	profile.Identity = identity
	for _, c := range profile.Children {
		if c.Name == "" {
			return fmt.Errorf("%w: every child needs a name", ErrInvalidInput)
		}
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.profileRepo.Upsert(saveCtx, profile)
}

func (s *userService) UploadPhoto(ctx context.Context, identity, contentType string, body io.Reader) (string, error) {
	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	default:
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, contentType)
	}

	key := fmt.Sprintf("profileImages/%s%s", uuid.NewString(), ext)
	return s.storage.Save(ctx, key, contentType, body)
}
