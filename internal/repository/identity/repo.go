package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/protoguide/protoguide/internal/db"
	"github.com/protoguide/protoguide/internal/db/postgres"
	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/identity"
)

const (
	userColumns = `id, open_id, name, email, role, tier, query_count_today, last_query_date, selected_agency_id`

	bySubjectSQL = `SELECT ` + userColumns + ` FROM users WHERE open_id = $1`
	byIDSQL      = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	selectAgencySQL = `UPDATE users SET selected_agency_id = $2 WHERE id = $1`
)

// Repo reads and updates users in Postgres.
type Repo struct {
	db db.Querier
}

// New creates an identity repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

// GetBySubject resolves the token subject to a user or domain.ErrNotFound.
func (r *Repo) GetBySubject(ctx context.Context, subject string) (identity.Identity, error) {
	return r.get(ctx, "identity.by_subject", bySubjectSQL, subject)
}

// GetByID loads a user or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id int64) (identity.Identity, error) {
	return r.get(ctx, "identity.by_id", byIDSQL, id)
}

// UpdateSelectedAgency sets the default agency of a user.
func (r *Repo) UpdateSelectedAgency(ctx context.Context, id, agencyID int64) error {
	res, err := r.db.ExecContext(ctx, selectAgencySQL, id, agencyID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return domain.NewStoreError("identity.select_agency", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("identity.select_agency", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) get(ctx context.Context, op, query string, arg any) (identity.Identity, error) {
	var (
		u        identity.Identity
		name     sql.NullString
		email    sql.NullString
		tier     string
		lastDay  sql.NullString
		selected sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Subject, &name, &email, &u.Role, &tier,
		&u.Quota.CountToday, &lastDay, &selected,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.Identity{}, domain.ErrNotFound
		}
		return identity.Identity{}, domain.NewStoreError(op, err)
	}

	u.Tier = identity.Tier(tier)
	if name.Valid {
		u.Name = &name.String
	}
	if email.Valid {
		u.Email = &email.String
	}
	if lastDay.Valid {
		u.Quota.LastDay = identity.Day(lastDay.String)
	}
	if selected.Valid {
		u.SelectedAgencyID = &selected.Int64
	}
	return u, nil
}
