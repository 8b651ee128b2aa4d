package postgres

import (
	"context"
	"database/sql"
	"time"

	"tinytribe-backend/internal/domain"
	"tinytribe-backend/internal/logger"
	"tinytribe-backend/internal/repository"

	"github.com/lib/pq"
)

type groupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, g *domain.Group) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(err)
	}
	defer tx.Rollback()

	now := time.Now()
	g.CreatedOn = now.Format("2006-01-02")

	query := `INSERT INTO groups (id, name, created_by, created_on) VALUES ($1, $2, $3, $4)`
	logger.DatabaseCall("CreateGroup", query, "group_id", g.ID)
	if _, err := tx.ExecContext(ctx, query, g.ID, g.Name, g.CreatedBy, now); err != nil {
		return wrapErr(err)
	}

	memberQuery := `INSERT INTO group_members (group_id, identity, has_accepted, invited_on, accepted_on)
	                VALUES ($1, $2, $3, $4, $5)`
	for i := range g.Members {
		m := &g.Members[i]
		m.InvitedOn = g.CreatedOn
		acceptedOn := g.CreatedOn
		m.AcceptedOn = &acceptedOn
		if _, err := tx.ExecContext(ctx, memberQuery, g.ID, m.Identity, true, now, now); err != nil {
			return wrapErr(err)
		}
	}
	for i := range g.Invitees {
		m := &g.Invitees[i]
		m.InvitedOn = g.CreatedOn
		if _, err := tx.ExecContext(ctx, memberQuery, g.ID, m.Identity, false, now, nil); err != nil {
			return wrapErr(err)
		}
	}

	return wrapErr(tx.Commit())
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	g := &domain.Group{}
	var createdOn time.Time
	query := `SELECT id, name, created_by, created_on FROM groups WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedBy, &createdOn)
	if err != nil {
		return nil, wrapErr(err)
	}
	g.CreatedOn = createdOn.Format("2006-01-02")

	if err := r.loadParticipants(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, created_by, created_on FROM groups WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		var createdOn time.Time
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &createdOn); err != nil {
			return nil, wrapErr(err)
		}
		g.CreatedOn = createdOn.Format("2006-01-02")
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	for i := range groups {
		if err := r.loadParticipants(ctx, &groups[i]); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (r *groupRepository) AddInvitees(ctx context.Context, groupID string, identities []string) error {
	if len(identities) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(err)
	}
	defer tx.Rollback()

	// The primary key on (group_id, identity) makes re-inviting an existing
	// member or invitee a no-op rather than an error.
	query := `INSERT INTO group_members (group_id, identity, has_accepted, invited_on)
	          VALUES ($1, $2, FALSE, $3)
	          ON CONFLICT (group_id, identity) DO NOTHING`
	now := time.Now()
	for _, identity := range identities {
		if _, err := tx.ExecContext(ctx, query, groupID, identity, now); err != nil {
			return wrapErr(err)
		}
	}

	return wrapErr(tx.Commit())
}

func (r *groupRepository) PromoteToMember(ctx context.Context, groupID, identity string, requireInvite bool) error {
	now := time.Now()

	if requireInvite {
		// Only flips an existing row; an identity in neither list is rejected.
		query := `UPDATE group_members
		          SET has_accepted = TRUE, accepted_on = COALESCE(accepted_on, $3)
		          WHERE group_id = $1 AND identity = $2`
		logger.DatabaseCall("PromoteToMember", query, "group_id", groupID)
		res, err := r.db.ExecContext(ctx, query, groupID, identity, now)
		if err != nil {
			return wrapErr(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return wrapErr(err)
		}
		if affected == 0 {
			return repository.ErrNotInvited
		}
		return nil
	}

	// Permissive mode: any holder of the group id may join. The upsert is a
	// single atomic statement, so two invitees joining at once cannot end up
	// duplicated or half-promoted. accepted_on is preserved on re-join.
	query := `INSERT INTO group_members (group_id, identity, has_accepted, invited_on, accepted_on)
	          VALUES ($1, $2, TRUE, $3, $3)
	          ON CONFLICT (group_id, identity)
	          DO UPDATE SET has_accepted = TRUE,
	                        accepted_on = COALESCE(group_members.accepted_on, EXCLUDED.accepted_on)`
	logger.DatabaseCall("PromoteToMember", query, "group_id", groupID)
	_, err := r.db.ExecContext(ctx, query, groupID, identity, now)
	return wrapErr(err)
}

func (r *groupRepository) ListIDsWithPendingInvitees(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT group_id FROM group_members WHERE has_accepted = FALSE`
	rows, err := r.db.QueryContext(ctx, query)
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

func (r *groupRepository) loadParticipants(ctx context.Context, g *domain.Group) error {
	query := `SELECT identity, has_accepted, invited_on, accepted_on
	          FROM group_members WHERE group_id = $1 ORDER BY invited_on, identity`
	rows, err := r.db.QueryContext(ctx, query, g.ID)
	if err != nil {
		return wrapErr(err)
	}
	defer rows.Close()

	g.Members = nil
	g.Invitees = nil
	for rows.Next() {
		var m domain.Member
		var invitedOn time.Time
		var acceptedOn sql.NullTime
		if err := rows.Scan(&m.Identity, &m.HasAccepted, &invitedOn, &acceptedOn); err != nil {
			return wrapErr(err)
		}
		m.InvitedOn = invitedOn.Format("2006-01-02")
		if acceptedOn.Valid {
			dateStr := acceptedOn.Time.Format("2006-01-02")
			m.AcceptedOn = &dateStr
		}
		if m.HasAccepted {
			g.Members = append(g.Members, m)
		} else {
			g.Invitees = append(g.Invitees, m)
		}
	}
	return wrapErr(rows.Err())
}
