package quota

import (
	"context"

	"github.com/protoguide/protoguide/internal/domain/identity"
)

// Store persists the per-identity daily counter.
// Increment must be a single atomic compare-and-reset-or-increment.
type Store interface {
	Load(ctx context.Context, identityID int64) (identity.QuotaState, error)
	Increment(ctx context.Context, identityID int64, today identity.Day) (int, error)
}
