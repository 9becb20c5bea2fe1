package search

import (
	"context"

	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/answer"
	"github.com/protoguide/protoguide/internal/domain/history"
	"github.com/protoguide/protoguide/internal/domain/identity"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/filter"
	"github.com/protoguide/protoguide/internal/domain/search/result"
)

// Repository defines the storage contract for protocol chunks.
type Repository interface {
	Search(ctx context.Context, f filter.Filter, query string, fetch int) ([]protocol.Chunk, error)
	ByAgency(ctx context.Context, agencyID int64) ([]protocol.Chunk, error)
	Stats(ctx context.Context) (protocol.Stats, error)
}

// AgencyReader looks up the agency of a chunk.
type AgencyReader interface {
	Get(ctx context.Context, id int64) (agency.Agency, error)
}

// Synthesizer produces an optional answer from ranked results.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, results []result.Result) answer.Answer
}

// QuotaGuard admits and counts calls.
type QuotaGuard interface {
	Check(id identity.Identity) error
	Record(ctx context.Context, id identity.Identity) (int, error)
}

// HistoryRecorder stores a history entry without blocking the caller.
type HistoryRecorder interface {
	Record(ctx context.Context, e history.Entry)
}
