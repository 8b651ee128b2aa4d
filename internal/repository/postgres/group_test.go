package postgres_test

import (
	"context"
	"testing"
	"time"

	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/repository"
	"tinytribe-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestGroupRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewGroupRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		group := &domain.Group{
			ID:        "g-1",
			Name:      "Tuesday Tribe",
			CreatedBy: "alice@example.com",
			Members:   []domain.Member{{Identity: "alice@example.com", HasAccepted: true}},
			Invitees:  []domain.Member{{Identity: "bob@example.com"}},
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO groups").
			WithArgs("g-1", "Tuesday Tribe", "alice@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g-1", "alice@example.com", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g-1", "bob@example.com", false, sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(ctx, group)
		assert.NoError(t, err)
		assert.NotEmpty(t, group.CreatedOn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewGroupRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT id, name, created_by, created_on FROM groups WHERE id = \\$1").
			WithArgs("g-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by", "created_on"}).
				AddRow("g-1", "Tuesday Tribe", "alice@example.com", now))
		mock.ExpectQuery("SELECT identity, has_accepted, invited_on, accepted_on").
			WithArgs("g-1").
			WillReturnRows(sqlmock.NewRows([]string{"identity", "has_accepted", "invited_on", "accepted_on"}).
				AddRow("alice@example.com", true, now, now).
				AddRow("bob@example.com", false, now, nil))

		group, err := repo.GetByID(ctx, "g-1")
		assert.NoError(t, err)
		assert.Equal(t, "g-1", group.ID)
		assert.Len(t, group.Members, 1)
		assert.Len(t, group.Invitees, 1)
		assert.Equal(t, "bob@example.com", group.Invitees[0].Identity)
		assert.Nil(t, group.Invitees[0].AcceptedOn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, created_by, created_on FROM groups WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by", "created_on"}))

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestGroupRepository_PromoteToMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewGroupRepository(db)
	ctx := context.Background()

	t.Run("PermissiveUpserts", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g-1", "bob@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.PromoteToMember(ctx, "g-1", "bob@example.com", false)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StrictFlipsExistingRow", func(t *testing.T) {
		mock.ExpectExec("UPDATE group_members").
			WithArgs("g-1", "bob@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.PromoteToMember(ctx, "g-1", "bob@example.com", true)
		assert.NoError(t, err)
	})

	t.Run("StrictRejectsUninvited", func(t *testing.T) {
		mock.ExpectExec("UPDATE group_members").
			WithArgs("g-1", "mallory@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.PromoteToMember(ctx, "g-1", "mallory@example.com", true)
		assert.ErrorIs(t, err, repository.ErrNotInvited)
	})
}

func TestGroupRepository_AddInvitees(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewGroupRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g-1", "carol@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g-1", "dave@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.AddInvitees(ctx, "g-1", []string{"carol@example.com", "dave@example.com"})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyListIsNoop", func(t *testing.T) {
		err := repo.AddInvitees(ctx, "g-1", nil)
		assert.NoError(t, err)
	})

	t.Run("ExistingRowIsUntouched", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g-1", "bob@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.AddInvitees(ctx, "g-1", []string{"bob@example.com"})
		assert.NoError(t, err)
	})
}

func TestGroupRepository_ListIDsWithPendingInvitees(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewGroupRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT DISTINCT group_id FROM group_members WHERE has_accepted = FALSE").
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}).AddRow("g-1").AddRow("g-3"))

	ids, err := repo.ListIDsWithPendingInvitees(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"g-1", "g-3"}, ids)
}
