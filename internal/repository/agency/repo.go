package agency

import (
	"context"
	"database/sql"
	"errors"

	"github.com/protoguide/protoguide/internal/db"
	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/agency"
)

const (
	agencyColumns = `id, name, region, uses_regional_protocols, protocol_version, created_at`

	getSQL  = `SELECT ` + agencyColumns + ` FROM agencies WHERE id = $1`
	listSQL = `SELECT ` + agencyColumns + ` FROM agencies ORDER BY region, name`

	byRegionSQL = `SELECT a.id, a.name, a.region, COUNT(p.id) AS protocol_count
FROM agencies a
LEFT JOIN protocol_chunks p ON p.agency_id = a.id
WHERE a.region = $1
GROUP BY a.id, a.name, a.region
ORDER BY protocol_count DESC, a.name`

	regionsSQL = `SELECT a.region, COUNT(DISTINCT a.id) AS agency_count, COUNT(p.id) AS protocol_count
FROM agencies a
LEFT JOIN protocol_chunks p ON p.agency_id = a.id
GROUP BY a.region
ORDER BY protocol_count DESC, a.region`
)

// Repo reads agencies from Postgres.
type Repo struct {
	db db.Querier
}

// New creates an agency repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

// Get returns one agency or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id int64) (agency.Agency, error) {
	a, err := scanAgency(r.db.QueryRowContext(ctx, getSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return agency.Agency{}, domain.ErrNotFound
		}
		return agency.Agency{}, domain.NewStoreError("agency.get", err)
	}
	return a, nil
}

// List returns all agencies ordered by region, then name.
func (r *Repo) List(ctx context.Context) ([]agency.Agency, error) {
	rows, err := r.db.QueryContext(ctx, listSQL)
	if err != nil {
		return nil, domain.NewStoreError("agency.list", err)
	}
	defer rows.Close()

	out := make([]agency.Agency, 0)
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return nil, domain.NewStoreError("agency.list", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("agency.list", err)
	}
	return out, nil
}

// ListByRegion returns the agencies of a region with protocol counts, busiest first.
func (r *Repo) ListByRegion(ctx context.Context, region string) ([]agency.WithCount, error) {
	rows, err := r.db.QueryContext(ctx, byRegionSQL, region)
	if err != nil {
		return nil, domain.NewStoreError("agency.by_region", err)
	}
	defer rows.Close()

	out := make([]agency.WithCount, 0)
	for rows.Next() {
		var w agency.WithCount
		if err := rows.Scan(&w.ID, &w.Name, &w.Region, &w.ProtocolCount); err != nil {
			return nil, domain.NewStoreError("agency.by_region", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("agency.by_region", err)
	}
	return out, nil
}

// ListRegions aggregates agency and protocol counts per region.
func (r *Repo) ListRegions(ctx context.Context) ([]agency.RegionSummary, error) {
	rows, err := r.db.QueryContext(ctx, regionsSQL)
	if err != nil {
		return nil, domain.NewStoreError("agency.regions", err)
	}
	defer rows.Close()

	out := make([]agency.RegionSummary, 0)
	for rows.Next() {
		var s agency.RegionSummary
		if err := rows.Scan(&s.Region, &s.AgencyCount, &s.ProtocolCount); err != nil {
			return nil, domain.NewStoreError("agency.regions", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("agency.regions", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAgency(s scanner) (agency.Agency, error) {
	var (
		a       agency.Agency
		version sql.NullString
	)
	if err := s.Scan(&a.ID, &a.Name, &a.Region, &a.UsesRegionalProtocols, &version, &a.CreatedAt); err != nil {
		return agency.Agency{}, err
	}
	if version.Valid {
		v := version.String
		a.ProtocolVersion = &v
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}
