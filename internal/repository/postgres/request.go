package postgres

import (
	"context"
	"database/sql"
	"time"

	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/repository"
)

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.ChildcareRequest) error {
	query := `INSERT INTO requests (id, group_id, requester_identity, requester_name, date, is_urgent, note, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	now := time.Now()
	req.CreatedOn = now.Format("2006-01-02")
	_, err := r.db.ExecContext(ctx, query, req.ID, req.GroupID, req.RequesterIdentity, req.RequesterName, req.Date, req.IsUrgent, req.Note, now)
	return wrapErr(err)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.ChildcareRequest, error) {
	req := &domain.ChildcareRequest{}
	var date, createdOn time.Time
	query := `SELECT id, group_id, requester_identity, requester_name, date, is_urgent, COALESCE(note, ''), created_on
	          FROM requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&req.ID, &req.GroupID, &req.RequesterIdentity, &req.RequesterName, &date, &req.IsUrgent, &req.Note, &createdOn)
	if err != nil {
		return nil, wrapErr(err)
	}
	req.Date = date.Format("2006-01-02")
	req.CreatedOn = createdOn.Format("2006-01-02")
	return req, nil
}

func (r *requestRepository) ListByGroupAndRange(ctx context.Context, groupID, from, to string) ([]domain.ChildcareRequest, error) {
	query := `SELECT id, group_id, requester_identity, requester_name, date, is_urgent, COALESCE(note, ''), created_on
	          FROM requests WHERE group_id = $1 AND date >= $2 AND date < $3 ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, groupID, from, to)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) ListByDate(ctx context.Context, date string) ([]domain.ChildcareRequest, error) {
	query := `SELECT id, group_id, requester_identity, requester_name, date, is_urgent, COALESCE(note, ''), created_on
	          FROM requests WHERE date = $1 ORDER BY group_id`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM requests WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr(err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanRequests(rows *sql.Rows) ([]domain.ChildcareRequest, error) {
	var reqs []domain.ChildcareRequest
	for rows.Next() {
		var req domain.ChildcareRequest
		var date, createdOn time.Time
		if err := rows.Scan(&req.ID, &req.GroupID, &req.RequesterIdentity, &req.RequesterName, &date, &req.IsUrgent, &req.Note, &createdOn); err != nil {
			return nil, wrapErr(err)
		}
		req.Date = date.Format("2006-01-02")
		req.CreatedOn = createdOn.Format("2006-01-02")
		reqs = append(reqs, req)
	}
	return reqs, wrapErr(rows.Err())
}
