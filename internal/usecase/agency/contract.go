package agency

import (
	"context"

	"github.com/protoguide/protoguide/internal/domain/agency"
)

// Repository reads the agency catalog.
type Repository interface {
	Get(ctx context.Context, id int64) (agency.Agency, error)
	List(ctx context.Context) ([]agency.Agency, error)
	ListByRegion(ctx context.Context, region string) ([]agency.WithCount, error)
	ListRegions(ctx context.Context) ([]agency.RegionSummary, error)
}
