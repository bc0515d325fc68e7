//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/commands"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	domainRepos "github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
	doubles "github.com/fedorza-therefore/handy-scripts/test/infrastructure/repositorydoubles"
)

// patchHarness wires a PatchCommand around spies for one test.
type patchHarness struct {
	command  *commands.PatchCommand
	patcher  *doubles.SpyPatchRepository
	manifest *doubles.SpyManifestRepository
}

func newPatchHarness() *patchHarness {
	patcher := &doubles.SpyPatchRepository{}
	manifest := &doubles.SpyManifestRepository{}

	command := commands.NewPatchCommand(
		func(_ *entities.Settings) domainRepos.PatchRepository { return patcher },
		func(_ *entities.Settings) domainRepos.ManifestRepository { return manifest },
	)
	return &patchHarness{command: command, patcher: patcher, manifest: manifest}
}

func TestPatchCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should snapshot a baseline on create", func(t *testing.T) {
		// given
		h := newPatchHarness()

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action:  commands.PatchActionCreate,
			Package: "drupal/token",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"drupal/token"}, h.patcher.SnapshottedPackages)
	})

	t.Run("should require a package name on create", func(t *testing.T) {
		// given
		h := newPatchHarness()

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action: commands.PatchActionCreate,
		})

		// then
		require.Error(t, err)
		assert.Empty(t, h.patcher.SnapshottedPackages)
	})

	t.Run("should generate a patch and register it in the manifest", func(t *testing.T) {
		// given
		h := newPatchHarness()
		h.patcher.GeneratedPath = "patches/drupal-token-fix.patch"

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action:      commands.PatchActionGenerate,
			Package:     "drupal/token",
			Description: "Fix",
		})

		// then
		require.NoError(t, err)
		require.Len(t, h.manifest.Registered, 1)
		assert.Equal(t, "drupal/token|Fix|patches/drupal-token-fix.patch", h.manifest.Registered[0])
	})

	t.Run("should not register anything when no changes were detected", func(t *testing.T) {
		// given
		h := newPatchHarness()
		h.patcher.GeneratedPath = ""

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action:      commands.PatchActionGenerate,
			Package:     "drupal/token",
			Description: "Fix",
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, h.manifest.Registered)
	})

	t.Run("should require a description to generate", func(t *testing.T) {
		// given
		h := newPatchHarness()

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action:  commands.PatchActionGenerate,
			Package: "drupal/token",
		})

		// then
		require.Error(t, err)
	})

	t.Run("should apply every registered patch in deterministic order", func(t *testing.T) {
		// given
		h := newPatchHarness()
		h.manifest.PatchesResult = map[string]map[string]string{
			"drupal/zeta":  {"Fix": "patches/zeta.patch"},
			"drupal/alpha": {"Fix": "patches/alpha.patch"},
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action: commands.PatchActionApply,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"drupal/alpha|patches/alpha.patch",
			"drupal/zeta|patches/zeta.patch",
		}, h.patcher.AppliedPatches)
	})

	t.Run("should keep applying after one patch fails and report the failure", func(t *testing.T) {
		// given
		h := newPatchHarness()
		h.manifest.PatchesResult = map[string]map[string]string{
			"drupal/alpha": {"Fix": "patches/alpha.patch"},
			"drupal/zeta":  {"Fix": "patches/zeta.patch"},
		}
		h.patcher.ApplyErrs = map[string]error{
			"patches/alpha.patch": errors.New("hunk failed"),
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action: commands.PatchActionApply,
		})

		// then
		require.Error(t, err)
		assert.Len(t, h.patcher.AppliedPatches, 2)
	})

	t.Run("should filter apply to one package", func(t *testing.T) {
		// given
		h := newPatchHarness()
		h.manifest.PatchesResult = map[string]map[string]string{
			"drupal/alpha": {"Fix": "patches/alpha.patch"},
			"drupal/zeta":  {"Fix": "patches/zeta.patch"},
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action:  commands.PatchActionApply,
			Package: "drupal/zeta",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"drupal/zeta|patches/zeta.patch"}, h.patcher.AppliedPatches)
	})

	t.Run("should fail on an unknown action", func(t *testing.T) {
		// given
		h := newPatchHarness()

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.PatchOptions{
			Action: commands.PatchAction("explode"),
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown patch action")
	})
}
