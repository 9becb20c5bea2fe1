package quota

import (
	"context"
	"database/sql"
	"errors"

	"github.com/protoguide/protoguide/internal/db"
	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/identity"
)

const (
	pgLoadSQL = `SELECT query_count_today, last_query_date FROM users WHERE id = $1`

	// Compare-and-reset-or-increment in one statement so concurrent calls
	// never lose an increment or reset twice.
	pgIncrementSQL = `UPDATE users
SET query_count_today = CASE WHEN last_query_date = $2 THEN query_count_today + 1 ELSE 1 END,
    last_query_date = $2
WHERE id = $1
RETURNING query_count_today`
)

// Postgres keeps the counter on the users row.
type Postgres struct {
	db db.Querier
}

// NewPostgres creates a Postgres-backed counter store.
func NewPostgres(q db.Querier) *Postgres {
	return &Postgres{db: q}
}

// Load returns the persisted counter of an identity.
func (p *Postgres) Load(ctx context.Context, identityID int64) (identity.QuotaState, error) {
	var (
		count int
		day   sql.NullString
	)
	err := p.db.QueryRowContext(ctx, pgLoadSQL, identityID).Scan(&count, &day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.QuotaState{}, domain.ErrNotFound
		}
		return identity.QuotaState{}, domain.NewStoreError("quota.load", err)
	}
	return identity.QuotaState{CountToday: count, LastDay: identity.Day(day.String)}, nil
}

// Increment counts one call on today and returns the new count.
func (p *Postgres) Increment(ctx context.Context, identityID int64, today identity.Day) (int, error) {
	var count int
	err := p.db.QueryRowContext(ctx, pgIncrementSQL, identityID, string(today)).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, domain.NewStoreError("quota.increment", err)
	}
	return count, nil
}
