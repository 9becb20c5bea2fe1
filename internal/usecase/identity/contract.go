package identity

import (
	"context"

	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/identity"
)

// Repository reads and updates users.
type Repository interface {
	GetBySubject(ctx context.Context, subject string) (identity.Identity, error)
	UpdateSelectedAgency(ctx context.Context, id, agencyID int64) error
}

// QuotaSnapshot loads the authoritative counter when it lives outside the users row.
type QuotaSnapshot interface {
	Snapshot(ctx context.Context, identityID int64) (identity.QuotaState, error)
}

// AgencyReader validates agency selections.
type AgencyReader interface {
	Get(ctx context.Context, id int64) (agency.Agency, error)
}
