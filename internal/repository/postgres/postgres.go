package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"tinytribe-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.GroupRepository
	repository.UserGroupRepository
	repository.RequestRepository
	repository.ProfileRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		GroupRepository:     NewGroupRepository(db),
		UserGroupRepository: NewUserGroupRepository(db),
		RequestRepository:   NewRequestRepository(db),
		ProfileRepository:   NewProfileRepository(db),
	}
}

// wrapErr maps driver errors onto the repository error taxonomy. Missing rows
// become ErrNotFound; anything else is a transport/backend failure.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
}
