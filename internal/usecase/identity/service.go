package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/identity"
)

// Service resolves token subjects to identities.
type Service struct {
	repo     Repository
	quota    QuotaSnapshot
	agencies AgencyReader
}

// New creates an identity service. quota is nil when the counter lives on the
// users row and the row snapshot is already authoritative.
func New(repo Repository, quota QuotaSnapshot, agencies AgencyReader) *Service {
	return &Service{repo: repo, quota: quota, agencies: agencies}
}

// Resolve loads the caller once per request. An unknown subject is unauthorized.
func (s *Service) Resolve(ctx context.Context, subject string) (identity.Identity, error) {
	id, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return identity.Identity{}, fmt.Errorf("%w: unknown subject", domain.ErrUnauthorized)
		}
		return identity.Identity{}, fmt.Errorf("resolve identity: %w", err)
	}

	if s.quota != nil {
		st, err := s.quota.Snapshot(ctx, id.ID)
		if err != nil {
			return identity.Identity{}, fmt.Errorf("resolve identity quota: %w", err)
		}
		id.Quota = st
	}
	return id, nil
}

// SelectAgency stores the caller's default agency after checking it exists.
func (s *Service) SelectAgency(ctx context.Context, id identity.Identity, agencyID int64) error {
	if _, err := s.agencies.Get(ctx, agencyID); err != nil {
		return fmt.Errorf("select agency %d: %w", agencyID, err)
	}
	if err := s.repo.UpdateSelectedAgency(ctx, id.ID, agencyID); err != nil {
		return fmt.Errorf("select agency %d: %w", agencyID, err)
	}
	return nil
}
