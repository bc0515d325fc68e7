package repositories

import (
	"context"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// PackageManagerRepository abstracts the Composer CLI: registry lookups,
// manifest validation, and upgrade application. Implementations shell
// out to the configured composer binary and parse its JSON output.
type PackageManagerRepository interface {
	// Validate runs the package manager's manifest validation, including
	// the lock-file freshness check.
	Validate(ctx context.Context) error

	// InstalledPackages lists every package installed in the project.
	InstalledPackages(ctx context.Context) ([]entities.Package, error)

	// InstalledVersion returns the installed version of one package.
	InstalledVersion(ctx context.Context, name string) (string, error)

	// AvailableVersions returns the published versions of a package in
	// ascending order. The ascending order is a documented precondition
	// of the selector, enforced here rather than assumed from the
	// registry's enumeration order.
	AvailableVersions(ctx context.Context, name string) ([]string, error)

	// VersionRequirement returns the constraint a specific published
	// version of pkg places on the given dependency, or "" when the
	// version does not require it.
	VersionRequirement(ctx context.Context, pkg, version, dependency string) (string, error)

	// RequireExact pins a package to an exact version, resolving
	// transitive dependencies.
	RequireExact(ctx context.Context, name, version string) error

	// ProbeRequire dry-runs a require of the given "name:constraint"
	// pair and reports whether the solver accepts it, along with the
	// solver output.
	ProbeRequire(ctx context.Context, requirement string) (output string, ok bool, err error)

	// Audit runs the package manager's security audit against the lock
	// file and returns the reported advisories.
	Audit(ctx context.Context) ([]entities.Advisory, error)
}

// PackageManagerFactory builds a PackageManagerRepository for the
// project described by the given settings.
type PackageManagerFactory func(settings *entities.Settings) PackageManagerRepository
