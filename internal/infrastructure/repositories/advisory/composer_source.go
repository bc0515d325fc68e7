// Package advisory provides the security-advisory feeds the audit
// consumes: the local Composer audit and the FriendsOfPHP advisory
// database on GitHub.
package advisory

import (
	"context"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

const composerSourceName = "composer"

// ComposerSource reports the advisories "composer audit" finds against
// the project's lock file.
type ComposerSource struct {
	packageManager repositories.PackageManagerRepository
}

// NewComposerSource creates the source on top of the given package manager.
func NewComposerSource(
	packageManager repositories.PackageManagerRepository,
) repositories.AdvisorySourceRepository {
	return &ComposerSource{packageManager: packageManager}
}

func (s *ComposerSource) Name() string { return composerSourceName }

// Fetch returns the advisories from the package manager's own audit.
// The audit already scopes itself to the lock file, so the installed
// list is not consulted.
func (s *ComposerSource) Fetch(
	ctx context.Context,
	_ []entities.Package,
) ([]entities.Advisory, error) {
	return s.packageManager.Audit(ctx)
}
