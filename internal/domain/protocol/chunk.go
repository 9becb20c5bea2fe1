// Package protocol holds the read-only protocol chunk model.
package protocol

import "time"

// Chunk is a single titled fragment of procedural text owned by one agency.
type Chunk struct {
	ID             int64
	AgencyID       int64
	Number         string
	Title          string
	Section        *string
	Content        string
	SourceURL      *string
	EffectiveDate  *string
	Year           *int
	LastVerifiedAt *time.Time
	CreatedAt      time.Time
}

// Stats summarizes corpus coverage.
type Stats struct {
	TotalProtocols int64
	TotalAgencies  int64
	RegionsCovered int64
}
