package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
)

// CatalogService fronts the external catalog provider. It keeps the last
// good snapshot so order-taking and pricing survive a provider outage
// instead of failing with it.
type CatalogService struct {
	provider core.ICatalogProvider
	log      *slog.Logger

	mu       sync.RWMutex
	snapshot dto.CatalogSnapshot
	loaded   bool
}

func NewCatalogService(provider core.ICatalogProvider, seed *dto.CatalogSnapshot, log *slog.Logger) *CatalogService {
	s := &CatalogService{provider: provider, log: log}
	if seed != nil {
		s.snapshot = *seed
		s.loaded = true
	}
	return s
}

// Snapshot returns fresh catalog content when the provider answers, the
// cached snapshot when it does not.
func (s *CatalogService) Snapshot(ctx context.Context) (dto.CatalogSnapshot, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, core.CatalogTimeout)
	defer cancel()

	snap, err := s.provider.Fetch(fetchCtx)
	if err == nil {
		s.mu.Lock()
		s.snapshot = snap
		s.loaded = true
		s.mu.Unlock()
		return snap, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loaded {
		s.log.Warn("catalog_fetch_failed_serving_cached", "error", err)
		return s.snapshot, nil
	}
	return dto.CatalogSnapshot{}, fmt.Errorf("%w: %v", core.ErrCatalogMissing, err)
}

// PriceFor resolves the authoritative unit price of a product. A product the
// catalog does not know cannot be priced, so it reports not found.
func (s *CatalogService) PriceFor(ctx context.Context, productID int64) (float64, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range snap.Products {
		if p.ID == productID {
			return p.Price, nil
		}
	}
	return 0, fmt.Errorf("product %d: %w", productID, core.ErrNotFound)
}
