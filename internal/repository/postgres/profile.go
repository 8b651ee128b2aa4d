package postgres

import (
	"context"
	"database/sql"
	"time"

	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByIdentity(ctx context.Context, identity string) (*domain.Profile, error) {
	p := &domain.Profile{}
	var createdOn, updatedOn time.Time
	query := `SELECT identity, email, name, COALESCE(avatar_url, ''), created_on, updated_on
	          FROM profiles WHERE identity = $1`
	err := r.db.QueryRowContext(ctx, query, identity).Scan(&p.Identity, &p.Email, &p.Name, &p.AvatarURL, &createdOn, &updatedOn)
	if err != nil {
		return nil, wrapErr(err)
	}
	p.CreatedOn = createdOn.Format("2006-01-02")
	p.UpdatedOn = updatedOn.Format("2006-01-02")

	childQuery := `SELECT name, COALESCE(photo_url, '') FROM children WHERE identity = $1 ORDER BY position`
	rows, err := r.db.QueryContext(ctx, childQuery, identity)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.Child
		if err := rows.Scan(&c.Name, &c.PhotoURL); err != nil {
			return nil, wrapErr(err)
		}
		p.Children = append(p.Children, c)
	}
	return p, wrapErr(rows.Err())
}

func (r *profileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(err)
	}
	defer tx.Rollback()

	now := time.Now()
	p.UpdatedOn = now.Format("2006-01-02")

	query := `INSERT INTO profiles (identity, email, name, avatar_url, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (identity)
	          DO UPDATE SET email = $2, name = $3, avatar_url = $4, updated_on = $5`
	if _, err := tx.ExecContext(ctx, query, p.Identity, p.Email, p.Name, p.AvatarURL, now); err != nil {
		return wrapErr(err)
	}

	// Children are replaced wholesale on every save.
	if _, err := tx.ExecContext(ctx, `DELETE FROM children WHERE identity = $1`, p.Identity); err != nil {
		return wrapErr(err)
	}
	childQuery := `INSERT INTO children (identity, position, name, photo_url) VALUES ($1, $2, $3, $4)`
	for i, c := range p.Children {
		if _, err := tx.ExecContext(ctx, childQuery, p.Identity, i, c.Name, c.PhotoURL); err != nil {
			return wrapErr(err)
		}
	}

	return wrapErr(tx.Commit())
}
