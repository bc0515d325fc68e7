//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// SpyAdvisorySourceRepository implements repositories.AdvisorySourceRepository
// as a configurable spy.
type SpyAdvisorySourceRepository struct {
	SourceName string
	Advisories []entities.Advisory
	FetchErr   error
	FetchCalls int
}

var _ repositories.AdvisorySourceRepository = (*SpyAdvisorySourceRepository)(nil)

func (s *SpyAdvisorySourceRepository) Name() string { return s.SourceName }

func (s *SpyAdvisorySourceRepository) Fetch(
	_ context.Context, _ []entities.Package,
) ([]entities.Advisory, error) {
	s.FetchCalls++
	return s.Advisories, s.FetchErr
}
