package history

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/protoguide/protoguide/internal/db"
	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/history"
)

const (
	insertSQL = `INSERT INTO queries (user_id, agency_id, query_text, response_text, protocol_refs)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	listSQL = `SELECT q.id, q.query_text, q.response_text, COALESCE(a.name, ''), COALESCE(a.region, ''), q.created_at
FROM queries q
LEFT JOIN agencies a ON a.id = q.agency_id
WHERE q.user_id = $1
ORDER BY q.created_at DESC, q.id DESC
LIMIT $2`
)

// Repo persists query history in Postgres.
type Repo struct {
	db db.Querier
}

// New creates a history repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

// Create inserts an entry and returns its id.
func (r *Repo) Create(ctx context.Context, e history.Entry) (int64, error) {
	refs := e.ProtocolRefs
	if refs == nil {
		refs = []string{}
	}
	raw, err := json.Marshal(refs)
	if err != nil {
		return 0, domain.NewStoreError("history.create", err)
	}

	var agencyID sql.NullInt64
	if e.AgencyID != nil {
		agencyID = sql.NullInt64{Int64: *e.AgencyID, Valid: true}
	}
	var response sql.NullString
	if e.ResponseText != nil {
		response = sql.NullString{String: *e.ResponseText, Valid: true}
	}

	var id int64
	err = r.db.QueryRowContext(ctx, insertSQL, e.IdentityID, agencyID, e.QueryText, response, string(raw)).Scan(&id)
	if err != nil {
		return 0, domain.NewStoreError("history.create", err)
	}
	return id, nil
}

// ListForIdentity returns the newest entries of one identity.
func (r *Repo) ListForIdentity(ctx context.Context, identityID int64, limit int) ([]history.Item, error) {
	rows, err := r.db.QueryContext(ctx, listSQL, identityID, limit)
	if err != nil {
		return nil, domain.NewStoreError("history.list", err)
	}
	defer rows.Close()

	items := make([]history.Item, 0)
	for rows.Next() {
		var (
			it       history.Item
			response sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.QueryText, &response, &it.AgencyName, &it.Region, &it.CreatedAt); err != nil {
			return nil, domain.NewStoreError("history.list", err)
		}
		if response.Valid {
			it.ResponseText = &response.String
		}
		it.CreatedAt = it.CreatedAt.UTC()
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("history.list", err)
	}
	return items, nil
}
