//go:build unit

package advisory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	advisoryRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/advisory"
	builders "github.com/fedorza-therefore/handy-scripts/test/domain/entitybuilders"
	doubles "github.com/fedorza-therefore/handy-scripts/test/infrastructure/repositorydoubles"
)

func TestComposerSource(t *testing.T) {
	t.Parallel()

	t.Run("should report advisories from the package manager audit", func(t *testing.T) {
		// given
		expected := builders.NewAdvisoryBuilder().
			WithPackageName("vendor/alpha").
			BuildAdvisory()
		spy := &doubles.SpyPackageManagerRepository{
			Advisories: []entities.Advisory{expected},
		}
		source := advisoryRepo.NewComposerSource(spy)

		// when
		advisories, err := source.Fetch(context.Background(), nil)

		// then
		require.NoError(t, err)
		require.Len(t, advisories, 1)
		assert.Equal(t, "vendor/alpha", advisories[0].PackageName)
		assert.Equal(t, "composer", source.Name())
	})
}
