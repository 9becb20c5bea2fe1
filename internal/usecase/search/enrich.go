package search

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/result"
	"github.com/protoguide/protoguide/internal/logger"
	"github.com/protoguide/protoguide/internal/metrics"
)

// enrich keeps the first limit chunks in store order and attaches agency
// name and region. A failed or empty lookup leaves both empty for that
// result only. Each agency is looked up at most once per call.
func (s *Service) enrich(ctx context.Context, chunks []protocol.Chunk, limit int) []result.Result {
	if len(chunks) > limit {
		chunks = chunks[:limit]
	}

	log := logger.FromContext(ctx)
	seen := make(map[int64]*agency.Agency)
	out := make([]result.Result, 0, len(chunks))

	for i, c := range chunks {
		ag, ok := seen[c.AgencyID]
		if !ok {
			a, err := s.agencies.Get(ctx, c.AgencyID)
			switch {
			case err == nil:
				ag = &a
			case errors.Is(err, domain.ErrNotFound):
				log.Warn("Agency not found for protocol chunk",
					zap.Int64("agency_id", c.AgencyID), zap.Int64("chunk_id", c.ID))
			default:
				log.Warn("Agency lookup failed",
					zap.Int64("agency_id", c.AgencyID), zap.Error(err))
			}
			seen[c.AgencyID] = ag
		}
		if ag == nil {
			metrics.AgencyLookupMissesTotal.Inc()
		}
		out = append(out, result.New(c, ag, i))
	}
	return out
}
