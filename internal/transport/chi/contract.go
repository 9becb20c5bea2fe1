package chi

import (
	"context"

	"github.com/protoguide/protoguide/internal/auth"
	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/history"
	"github.com/protoguide/protoguide/internal/domain/identity"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/request"
	healthuc "github.com/protoguide/protoguide/internal/usecase/health"
	searchuc "github.com/protoguide/protoguide/internal/usecase/search"
)

// SearchService runs the search pipeline and the chunk catalog reads.
type SearchService interface {
	Search(ctx context.Context, id identity.Identity, req request.Request) (searchuc.Response, error)
	ByAgency(ctx context.Context, agencyID int64) ([]protocol.Chunk, error)
	Stats(ctx context.Context) (protocol.Stats, error)
}

// AgencyService serves the agency catalog.
type AgencyService interface {
	Get(ctx context.Context, id int64) (agency.Agency, error)
	List(ctx context.Context) ([]agency.Agency, error)
	ListByRegion(ctx context.Context, region string) ([]agency.WithCount, error)
	ListRegions(ctx context.Context) ([]agency.RegionSummary, error)
}

// IdentityService resolves token subjects and updates profile settings.
type IdentityService interface {
	Resolve(ctx context.Context, subject string) (identity.Identity, error)
	SelectAgency(ctx context.Context, id identity.Identity, agencyID int64) error
}

// HistoryService lists an identity's past queries.
type HistoryService interface {
	List(ctx context.Context, identityID int64) ([]history.Item, error)
}

// QuotaReporter exposes the quota view shown on the profile.
type QuotaReporter interface {
	Today() identity.Day
	Limit(id identity.Identity) int
	Remaining(id identity.Identity) int
}

// HealthService aggregates dependency probes.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// TokenVerifier validates Bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}
