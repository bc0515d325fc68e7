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
	infraRepos "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories"
	semverRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/semver"
	builders "github.com/fedorza-therefore/handy-scripts/test/domain/entitybuilders"
	doubles "github.com/fedorza-therefore/handy-scripts/test/infrastructure/repositorydoubles"
)

// auditHarness wires an AuditCommand around spies for one test.
type auditHarness struct {
	command      *commands.AuditCommand
	pm           *doubles.SpyPackageManagerRepository
	source       *doubles.SpyAdvisorySourceRepository
	workspace    *doubles.SpyWorkspaceRepository
	scriptWriter *doubles.SpyScriptWriterRepository
}

func newAuditHarness() *auditHarness {
	pm := &doubles.SpyPackageManagerRepository{}
	source := &doubles.SpyAdvisorySourceRepository{SourceName: "composer"}
	workspace := &doubles.SpyWorkspaceRepository{Clean: true, Branch: "main"}
	scriptWriter := &doubles.SpyScriptWriterRepository{}

	registry := infraRepos.NewSourceRegistry()
	registry.Register("composer", func(_ *entities.Settings) domainRepos.AdvisorySourceRepository {
		return source
	})

	command := commands.NewAuditCommand(
		registry,
		func(_ *entities.Settings) domainRepos.PackageManagerRepository { return pm },
		workspace,
		scriptWriter,
		semverRepo.NewConstraintOracle(),
	)

	return &auditHarness{
		command:      command,
		pm:           pm,
		source:       source,
		workspace:    workspace,
		scriptWriter: scriptWriter,
	}
}

func TestAuditCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should select an upgrade and write the script when requested", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{
			{Name: "drupal/token", Version: "1.0.0", Direct: true},
		}
		h.pm.Available = map[string][]string{
			"drupal/token": {"1.0.0", "1.2.2", "1.2.3"},
		}
		h.source.Advisories = []entities.Advisory{
			builders.NewAdvisoryBuilder().
				WithPackageName("drupal/token").
				WithRanges("<1.2.3").
				BuildAdvisory(),
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{
			ScriptPath: "upgrade-packages.sh",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "upgrade-packages.sh", h.scriptWriter.WrittenPath)
		require.Len(t, h.scriptWriter.WrittenDecisions, 1)
		decision := h.scriptWriter.WrittenDecisions[0]
		assert.Equal(t, entities.OutcomeUpgrade, decision.Outcome)
		assert.Equal(t, "1.2.3", decision.SelectedVersion)
	})

	t.Run("should keep going when one package's version lookup fails", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{
			{Name: "vendor/alpha", Version: "1.0.0"},
			{Name: "vendor/beta", Version: "1.0.0"},
		}
		h.pm.Available = map[string][]string{
			"vendor/beta": {"1.0.0", "1.0.1"},
		}
		h.pm.AvailableErrs = map[string]error{
			"vendor/alpha": errors.New("registry unavailable"),
		}
		h.source.Advisories = []entities.Advisory{
			builders.NewAdvisoryBuilder().
				WithPackageName("vendor/alpha").WithRanges("<2.0.0").BuildAdvisory(),
			builders.NewAdvisoryBuilder().
				WithPackageName("vendor/beta").WithRanges("<1.0.1").BuildAdvisory(),
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{
			ScriptPath: "out.sh",
		})

		// then
		require.NoError(t, err)
		require.Len(t, h.scriptWriter.WrittenDecisions, 2)
		assert.Equal(t, entities.OutcomeLookupError, h.scriptWriter.WrittenDecisions[0].Outcome)
		assert.Equal(t, entities.OutcomeUpgrade, h.scriptWriter.WrittenDecisions[1].Outcome)
	})

	t.Run("should ignore advisories for packages that are not installed", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{
			{Name: "vendor/present", Version: "1.0.0"},
		}
		h.source.Advisories = []entities.Advisory{
			builders.NewAdvisoryBuilder().
				WithPackageName("vendor/absent").WithRanges("<9.9.9").BuildAdvisory(),
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{})

		// then
		require.NoError(t, err)
		assert.Empty(t, h.pm.LookedUp)
	})

	t.Run("should apply upgrades on a fresh branch when the tree is clean", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{
			{Name: "drupal/token", Version: "1.0.0"},
		}
		h.pm.Available = map[string][]string{
			"drupal/token": {"1.2.3"},
		}
		h.source.Advisories = []entities.Advisory{
			builders.NewAdvisoryBuilder().
				WithPackageName("drupal/token").WithRanges("<1.2.3").BuildAdvisory(),
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{
			Apply: true,
		})

		// then
		require.NoError(t, err)
		require.Len(t, h.workspace.CreatedBranches, 1)
		assert.Contains(t, h.workspace.CreatedBranches[0], "security-upgrades-")
		assert.Equal(t, 1, h.workspace.BranchCalls,
			"the branch being left is resolved before checking out")
		assert.Equal(t, []string{"drupal/token:1.2.3"}, h.pm.RequiredPairs)
	})

	t.Run("should refuse to apply on a dirty working tree", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.workspace.Clean = false
		h.pm.Installed = []entities.Package{
			{Name: "drupal/token", Version: "1.0.0"},
		}
		h.pm.Available = map[string][]string{"drupal/token": {"1.2.3"}}
		h.source.Advisories = []entities.Advisory{
			builders.NewAdvisoryBuilder().
				WithPackageName("drupal/token").WithRanges("<1.2.3").BuildAdvisory(),
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{
			Apply: true,
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "uncommitted changes")
		assert.Empty(t, h.workspace.CreatedBranches)
		assert.Empty(t, h.pm.RequiredPairs)
	})

	t.Run("should keep applying after one failed upgrade and report the failure", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{
			{Name: "vendor/alpha", Version: "1.0.0"},
			{Name: "vendor/beta", Version: "1.0.0"},
		}
		h.pm.Available = map[string][]string{
			"vendor/alpha": {"1.0.1"},
			"vendor/beta":  {"1.0.1"},
		}
		h.pm.RequireErrs = map[string]error{
			"vendor/alpha": errors.New("solver conflict"),
		}
		h.source.Advisories = []entities.Advisory{
			builders.NewAdvisoryBuilder().
				WithPackageName("vendor/alpha").WithRanges("<1.0.1").BuildAdvisory(),
			builders.NewAdvisoryBuilder().
				WithPackageName("vendor/beta").WithRanges("<1.0.1").BuildAdvisory(),
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{
			Apply: true,
		})

		// then
		require.Error(t, err)
		assert.Len(t, h.pm.RequiredPairs, 2, "the second upgrade still runs")
	})

	t.Run("should not touch the tree in dry-run mode", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{
			{Name: "drupal/token", Version: "1.0.0"},
		}
		h.pm.Available = map[string][]string{"drupal/token": {"1.2.3"}}
		h.source.Advisories = []entities.Advisory{
			builders.NewAdvisoryBuilder().
				WithPackageName("drupal/token").WithRanges("<1.2.3").BuildAdvisory(),
		}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{
			Apply:  true,
			DryRun: true,
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, h.workspace.CreatedBranches)
		assert.Empty(t, h.pm.RequiredPairs)
	})

	t.Run("should fail on an unknown advisory source", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{{Name: "drupal/token", Version: "1.0.0"}}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{
			Sources: []string{"nonsense"},
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown advisory source")
	})

	t.Run("should fail when a source cannot deliver", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{{Name: "drupal/token", Version: "1.0.0"}}
		h.source.FetchErr = errors.New("rate limited")

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("should do nothing when the feed is clean", func(t *testing.T) {
		// given
		h := newAuditHarness()
		h.pm.Installed = []entities.Package{{Name: "drupal/token", Version: "1.0.0"}}

		// when
		err := h.command.Execute(context.Background(), entities.DefaultSettings(), commands.AuditOptions{
			Apply:      true,
			ScriptPath: "out.sh",
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, h.scriptWriter.WrittenPath)
		assert.Empty(t, h.pm.RequiredPairs)
	})
}
