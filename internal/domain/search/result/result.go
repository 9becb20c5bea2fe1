package result

import (
	"time"

	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/protocol"
)

// Result is a protocol chunk joined with its agency metadata and a relevance score.
type Result struct {
	chunk      protocol.Chunk
	agencyName string
	region     string
	score      float64
	rank       int
}

// New creates a search result. rank is the chunk's position in the store order.
// A nil agency leaves name and region empty.
func New(chunk protocol.Chunk, a *agency.Agency, rank int) Result {
	r := Result{chunk: chunk, rank: rank}
	if a != nil {
		r.agencyName = a.Name
		r.region = a.Region
	}
	return r
}

// WithScore returns a copy of the result carrying score.
func (r Result) WithScore(score float64) Result {
	r.score = score
	return r
}

// Chunk returns the underlying protocol chunk.
func (r *Result) Chunk() protocol.Chunk { return r.chunk }

// ID returns the chunk identifier.
func (r *Result) ID() int64 { return r.chunk.ID }

// AgencyID returns the owning agency identifier.
func (r *Result) AgencyID() int64 { return r.chunk.AgencyID }

// AgencyName returns the owning agency name (empty when unknown).
func (r *Result) AgencyName() string { return r.agencyName }

// Region returns the owning agency region (empty when unknown).
func (r *Result) Region() string { return r.region }

// ProtocolNumber returns the protocol number.
func (r *Result) ProtocolNumber() string { return r.chunk.Number }

// Title returns the protocol title.
func (r *Result) Title() string { return r.chunk.Title }

// Section returns the optional section label.
func (r *Result) Section() *string { return r.chunk.Section }

// Content returns the chunk body.
func (r *Result) Content() string { return r.chunk.Content }

// SourceURL returns the optional source document URL.
func (r *Result) SourceURL() *string { return r.chunk.SourceURL }

// Year returns the optional protocol year.
func (r *Result) Year() *int { return r.chunk.Year }

// LastVerifiedAt returns the optional last-verified timestamp.
func (r *Result) LastVerifiedAt() *time.Time { return r.chunk.LastVerifiedAt }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Rank returns the original match position.
func (r *Result) Rank() int { return r.rank }
