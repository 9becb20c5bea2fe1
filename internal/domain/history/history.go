// Package history holds the query history record model.
package history

import "time"

// Entry is a history record written after a search completes.
type Entry struct {
	IdentityID   int64
	AgencyID     *int64
	QueryText    string
	ResponseText *string
	ProtocolRefs []string
}

// Item is a history row as shown back to its owner.
type Item struct {
	ID           int64
	QueryText    string
	ResponseText *string
	AgencyName   string
	Region       string
	CreatedAt    time.Time
}
