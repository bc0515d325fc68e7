package repositories

import (
	"go.uber.org/dig"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	domainRepos "github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/selector"
	advisoryRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/advisory"
	composerRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/composer"
	gitRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/gitrepo"
	patchingRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/patching"
	scriptRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/script"
	semverRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/semver"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register source registry with all advisory source factories
	if err := container.Provide(func() *SourceRegistry {
		reg := NewSourceRegistry()
		reg.Register("composer", func(settings *entities.Settings) domainRepos.AdvisorySourceRepository {
			return advisoryRepo.NewComposerSource(composerRepo.NewPackageManagerRepository(settings))
		})
		reg.Register("friendsofphp", func(settings *entities.Settings) domainRepos.AdvisorySourceRepository {
			return advisoryRepo.NewFriendsOfPHPSource(settings.Audit.GitHubToken)
		})
		return reg
	}); err != nil {
		return err
	}

	// Settings-bound repositories are provided as factories
	if err := container.Provide(func() domainRepos.PackageManagerFactory {
		return composerRepo.NewPackageManagerRepository
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.PatchRepositoryFactory {
		return patchingRepo.NewPatcher
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.ManifestRepositoryFactory {
		return patchingRepo.NewManifest
	}); err != nil {
		return err
	}

	if err := container.Provide(gitRepo.NewWorkspaceRepository); err != nil {
		return err
	}
	if err := container.Provide(scriptRepo.NewUpgradeScriptWriter); err != nil {
		return err
	}
	if err := container.Provide(func() selector.Oracle {
		return semverRepo.NewConstraintOracle()
	}); err != nil {
		return err
	}

	return nil
}
