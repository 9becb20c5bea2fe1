package agency

import (
	"context"
	"fmt"
	"strings"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/agency"
)

// Service serves the agency catalog.
type Service struct {
	repo Repository
}

// New creates an agency catalog service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one agency or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (agency.Agency, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return agency.Agency{}, fmt.Errorf("get agency %d: %w", id, err)
	}
	return a, nil
}

// List returns every agency.
func (s *Service) List(ctx context.Context) ([]agency.Agency, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}
	return out, nil
}

// ListByRegion returns the agencies of one region. The region is required.
func (s *Service) ListByRegion(ctx context.Context, region string) ([]agency.WithCount, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return nil, fmt.Errorf("%w: region is required", domain.ErrInvalidQuery)
	}
	out, err := s.repo.ListByRegion(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("list agencies in %s: %w", region, err)
	}
	return out, nil
}

// ListRegions summarizes coverage per region.
func (s *Service) ListRegions(ctx context.Context) ([]agency.RegionSummary, error) {
	out, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return out, nil
}
