package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/protoguide/protoguide/internal/domain/answer"
	"github.com/protoguide/protoguide/internal/domain/history"
	"github.com/protoguide/protoguide/internal/domain/identity"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/request"
	"github.com/protoguide/protoguide/internal/domain/search/result"
	"github.com/protoguide/protoguide/internal/logger"
	"github.com/protoguide/protoguide/internal/metrics"
)

// Response is the assembled outcome of one search.
type Response struct {
	Results    []result.Result
	Answer     answer.Answer
	TotalCount int
}

// Service runs the search-and-synthesize pipeline.
type Service struct {
	repo     Repository
	agencies AgencyReader
	synth    Synthesizer
	quota    QuotaGuard
	history  HistoryRecorder
}

// New creates a search service. history may be nil.
func New(repo Repository, agencies AgencyReader, synth Synthesizer, quota QuotaGuard, hist HistoryRecorder) *Service {
	return &Service{repo: repo, agencies: agencies, synth: synth, quota: quota, history: hist}
}

// Search admits the caller, retrieves and ranks chunks, synthesizes an
// optional answer and counts the call. Stages run strictly in sequence.
func (s *Service) Search(ctx context.Context, id identity.Identity, req request.Request) (Response, error) {
	if err := s.quota.Check(id); err != nil {
		return Response{}, err
	}

	chunks, err := s.repo.Search(ctx, req.Filter(), req.Query(), req.FetchCount())
	if err != nil {
		return Response{}, fmt.Errorf("search protocols: %w", err)
	}

	results := score(req.Query(), s.enrich(ctx, chunks, req.Limit()))
	ans := s.synth.Synthesize(ctx, req.Query(), results)

	if _, err := s.quota.Record(ctx, id); err != nil {
		return Response{}, err
	}

	metrics.SearchResultsCount.WithLabelValues(string(req.Filter().Kind())).Observe(float64(len(results)))
	logger.FromContext(ctx).Debug("Search completed",
		zap.String("filter", string(req.Filter().Kind())),
		zap.Int("chunks", len(chunks)),
		zap.Int("results", len(results)),
		zap.Bool("answer", ans.IsAvailable()),
	)

	s.recordHistory(ctx, id, req, results, ans)

	return Response{Results: results, Answer: ans, TotalCount: len(results)}, nil
}

// ByAgency lists every chunk of one agency.
func (s *Service) ByAgency(ctx context.Context, agencyID int64) ([]protocol.Chunk, error) {
	chunks, err := s.repo.ByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list agency protocols: %w", err)
	}
	return chunks, nil
}

// Stats reports corpus coverage.
func (s *Service) Stats(ctx context.Context) (protocol.Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return protocol.Stats{}, fmt.Errorf("protocol stats: %w", err)
	}
	return st, nil
}

func (s *Service) recordHistory(
	ctx context.Context, id identity.Identity, req request.Request,
	results []result.Result, ans answer.Answer,
) {
	if s.history == nil {
		return
	}

	refs := make([]string, 0, len(results))
	for i := range results {
		refs = append(refs, results[i].ProtocolNumber())
	}

	agencyID := id.SelectedAgencyID
	if f := req.Filter(); f.HasAgency() {
		a := f.AgencyID()
		agencyID = &a
	}

	s.history.Record(ctx, history.Entry{
		IdentityID:   id.ID,
		AgencyID:     agencyID,
		QueryText:    req.Query(),
		ResponseText: ans.Ptr(),
		ProtocolRefs: refs,
	})
}
