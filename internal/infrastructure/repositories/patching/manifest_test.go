//go:build unit

package patching_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	patchingRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/patching"
)

func settingsFor(dir string) *entities.Settings {
	settings := entities.DefaultSettings()
	settings.Composer.WorkingDir = dir
	return settings
}

func TestManifestRegisterPatch(t *testing.T) {
	t.Parallel()

	t.Run("should add the entry under extra.patches and back up the manifest", func(t *testing.T) {
		// given
		dir := t.TempDir()
		original := `{
    "name": "acme/site",
    "require": {
        "drupal/core": "^10"
    }
}
`
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "composer.json"), []byte(original), 0o644,
		))
		manifest := patchingRepo.NewManifest(settingsFor(dir))

		// when
		err := manifest.RegisterPatch(
			"drupal/token", "Fix token replacement", "patches/drupal-token-fix.patch",
		)

		// then
		require.NoError(t, err)

		backup, backupErr := os.ReadFile(filepath.Join(dir, "composer.json.bak"))
		require.NoError(t, backupErr)
		assert.Equal(t, original, string(backup), "backup holds the pre-change manifest")

		updated, readErr := os.ReadFile(filepath.Join(dir, "composer.json"))
		require.NoError(t, readErr)

		var document map[string]interface{}
		require.NoError(t, json.Unmarshal(updated, &document))
		assert.Contains(t, document, "require", "existing keys are preserved")

		extra := document["extra"].(map[string]interface{})
		patches := extra["patches"].(map[string]interface{})
		entries := patches["drupal/token"].(map[string]interface{})
		assert.Equal(t, "patches/drupal-token-fix.patch", entries["Fix token replacement"])
	})

	t.Run("should append to existing registrations for the same package", func(t *testing.T) {
		// given
		dir := t.TempDir()
		original := `{
    "extra": {
        "patches": {
            "drupal/token": {
                "Existing fix": "patches/existing.patch"
            }
        }
    }
}
`
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "composer.json"), []byte(original), 0o644,
		))
		manifest := patchingRepo.NewManifest(settingsFor(dir))

		// when
		err := manifest.RegisterPatch("drupal/token", "New fix", "patches/new.patch")

		// then
		require.NoError(t, err)
		patches, patchesErr := manifest.Patches()
		require.NoError(t, patchesErr)
		assert.Equal(t, "patches/existing.patch", patches["drupal/token"]["Existing fix"])
		assert.Equal(t, "patches/new.patch", patches["drupal/token"]["New fix"])
	})

	t.Run("should fail when the manifest is missing", func(t *testing.T) {
		// given
		manifest := patchingRepo.NewManifest(settingsFor(t.TempDir()))

		// when
		err := manifest.RegisterPatch("drupal/token", "Fix", "patches/fix.patch")

		// then
		require.Error(t, err)
	})
}

func TestManifestPatches(t *testing.T) {
	t.Parallel()

	t.Run("should return an empty map when nothing is registered", func(t *testing.T) {
		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "composer.json"), []byte(`{"name": "acme/site"}`), 0o644,
		))
		manifest := patchingRepo.NewManifest(settingsFor(dir))

		// when
		patches, err := manifest.Patches()

		// then
		require.NoError(t, err)
		assert.Empty(t, patches)
	})
}
