// Package agency holds the agency (protocol owner) model.
package agency

import "time"

// Agency is the organizational unit that owns protocol chunks.
type Agency struct {
	ID                    int64
	Name                  string
	Region                string
	UsesRegionalProtocols bool
	ProtocolVersion       *string
	CreatedAt             time.Time
}

// WithCount is an agency listing row with its protocol count.
type WithCount struct {
	ID            int64
	Name          string
	Region        string
	ProtocolCount int64
}

// RegionSummary aggregates agencies and protocols per region.
type RegionSummary struct {
	Region        string
	AgencyCount   int64
	ProtocolCount int64
}
