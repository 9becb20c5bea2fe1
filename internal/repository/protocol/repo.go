package protocol

import (
	"context"
	"database/sql"

	"github.com/protoguide/protoguide/internal/db"
	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/filter"
)

// Repo reads protocol chunks from Postgres.
type Repo struct {
	db db.Querier
}

// New creates a protocol repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

// Search runs the statement for the filter's kind and returns at most fetch
// chunks, title hits first. No match yields an empty slice.
func (r *Repo) Search(ctx context.Context, f filter.Filter, query string, fetch int) ([]protocol.Chunk, error) {
	stmt, args := searchStatement(f, filter.ContainsPattern(query), fetch)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, domain.NewStoreError("protocol.search", err)
	}
	chunks, err := collectChunks(rows)
	if err != nil {
		return nil, domain.NewStoreError("protocol.search", err)
	}
	return chunks, nil
}

// ByAgency returns every chunk of an agency ordered by protocol number.
func (r *Repo) ByAgency(ctx context.Context, agencyID int64) ([]protocol.Chunk, error) {
	rows, err := r.db.QueryContext(ctx, byAgencySQL, agencyID)
	if err != nil {
		return nil, domain.NewStoreError("protocol.by_agency", err)
	}
	chunks, err := collectChunks(rows)
	if err != nil {
		return nil, domain.NewStoreError("protocol.by_agency", err)
	}
	return chunks, nil
}

// Stats counts chunks, agencies and distinct regions.
func (r *Repo) Stats(ctx context.Context) (protocol.Stats, error) {
	var s protocol.Stats
	err := r.db.QueryRowContext(ctx, statsSQL).Scan(&s.TotalProtocols, &s.TotalAgencies, &s.RegionsCovered)
	if err != nil {
		return protocol.Stats{}, domain.NewStoreError("protocol.stats", err)
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func collectChunks(rows *sql.Rows) ([]protocol.Chunk, error) {
	defer rows.Close()

	chunks := make([]protocol.Chunk, 0)
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}

func scanChunk(s scanner) (protocol.Chunk, error) {
	var (
		c             protocol.Chunk
		section       sql.NullString
		sourceURL     sql.NullString
		effectiveDate sql.NullString
		year          sql.NullInt64
		verifiedAt    sql.NullTime
	)
	err := s.Scan(
		&c.ID, &c.AgencyID, &c.Number, &c.Title, &section, &c.Content,
		&sourceURL, &effectiveDate, &year, &verifiedAt, &c.CreatedAt,
	)
	if err != nil {
		return protocol.Chunk{}, err
	}
	c.Section = nullString(section)
	c.SourceURL = nullString(sourceURL)
	c.EffectiveDate = nullString(effectiveDate)
	if year.Valid {
		y := int(year.Int64)
		c.Year = &y
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time.UTC()
		c.LastVerifiedAt = &t
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
