package postgres

import (
	"context"
	"database/sql"
	"time"

	"tinytribe-backend/internal/repository"
)

type userGroupRepository struct {
	db *sql.DB
}

func NewUserGroupRepository(db *sql.DB) repository.UserGroupRepository {
	return &userGroupRepository{db: db}
}

func (r *userGroupRepository) ListGroupIDs(ctx context.Context, identity string) ([]string, error) {
	query := `SELECT group_id FROM user_groups WHERE identity = $1`
	rows, err := r.db.QueryContext(ctx, query, identity)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr(err)
		}
		ids = append(ids, id)
	}
	return ids, wrapErr(rows.Err())
}

func (r *userGroupRepository) Add(ctx context.Context, identity, groupID string) error {
	query := `INSERT INTO user_groups (identity, group_id, added_on) VALUES ($1, $2, $3)
	          ON CONFLICT (identity, group_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, identity, groupID, time.Now())
	return wrapErr(err)
}
