//go:build unit

package composer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	composerRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/composer"
)

func TestParseAuditOutput(t *testing.T) {
	t.Parallel()

	t.Run("should extract advisories sorted by package name", func(t *testing.T) {
		// given
		payload := []byte(`{
			"advisories": {
				"vendor/zeta": [
					{
						"advisoryId": "PKSA-0002",
						"packageName": "vendor/zeta",
						"affectedVersions": ">=2.0.0,<2.1.5",
						"title": "XSS in zeta",
						"cve": "CVE-2024-0002",
						"link": "https://example.com/zeta"
					}
				],
				"vendor/alpha": [
					{
						"advisoryId": "PKSA-0001",
						"packageName": "vendor/alpha",
						"affectedVersions": "<1.2.3",
						"title": "RCE in alpha",
						"cve": "CVE-2024-0001",
						"link": "https://example.com/alpha"
					}
				]
			}
		}`)

		// when
		advisories, err := composerRepo.ParseAuditOutput(payload)

		// then
		require.NoError(t, err)
		require.Len(t, advisories, 2)
		assert.Equal(t, "vendor/alpha", advisories[0].PackageName)
		assert.Equal(t, "PKSA-0001", advisories[0].ID)
		assert.Equal(t, []string{"<1.2.3"}, advisories[0].AffectedRanges)
		assert.Equal(t, "vendor/zeta", advisories[1].PackageName)
		assert.Equal(t, "CVE-2024-0002", advisories[1].CVE)
	})

	t.Run("should treat an empty advisory array as a clean audit", func(t *testing.T) {
		// given: composer reports an empty array, not an empty object
		payload := []byte(`{"advisories": []}`)

		// when
		advisories, err := composerRepo.ParseAuditOutput(payload)

		// then
		require.NoError(t, err)
		assert.Empty(t, advisories)
	})

	t.Run("should treat a missing advisories key as a clean audit", func(t *testing.T) {
		// when
		advisories, err := composerRepo.ParseAuditOutput([]byte(`{}`))

		// then
		require.NoError(t, err)
		assert.Empty(t, advisories)
	})

	t.Run("should fall back to the map key when packageName is absent", func(t *testing.T) {
		// given
		payload := []byte(`{
			"advisories": {
				"vendor/alpha": [
					{"advisoryId": "PKSA-0003", "affectedVersions": "<1.0.0"}
				]
			}
		}`)

		// when
		advisories, err := composerRepo.ParseAuditOutput(payload)

		// then
		require.NoError(t, err)
		require.Len(t, advisories, 1)
		assert.Equal(t, "vendor/alpha", advisories[0].PackageName)
	})

	t.Run("should fail on output that is not JSON", func(t *testing.T) {
		// when
		_, err := composerRepo.ParseAuditOutput([]byte("composer exploded"))

		// then
		require.Error(t, err)
	})
}

func TestNormalizeReportedVersion(t *testing.T) {
	t.Parallel()

	t.Run("should strip the v prefix and surrounding whitespace", func(t *testing.T) {
		// given / when / then
		assert.Equal(t, "1.2.3", composerRepo.NormalizeReportedVersion("v1.2.3"))
		assert.Equal(t, "1.2.3", composerRepo.NormalizeReportedVersion(" 1.2.3 "))
		assert.Equal(t, "1.2.3", composerRepo.NormalizeReportedVersion("1.2.3"))
	})
}
