package repositories

import (
	"context"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// PatchRepository owns the vendor-package patch workflow: pristine
// baselines, diff generation, and patch application. Diffing and
// patching are delegated to the external diff/patch tools.
type PatchRepository interface {
	// Snapshot copies vendor/<pkg> into the patch work dir as the
	// pristine baseline for later diffing.
	Snapshot(ctx context.Context, pkg string) error

	// Generate diffs the baseline against the current vendor/<pkg> tree
	// and writes the result into the patches dir. It returns the patch
	// file path relative to the project root, or "" when there are no
	// changes.
	Generate(ctx context.Context, pkg, description string) (string, error)

	// Apply re-applies a registered patch file to vendor/<pkg>.
	Apply(ctx context.Context, pkg, patchPath string) error
}

// PatchRepositoryFactory builds a PatchRepository for the project
// described by the given settings.
type PatchRepositoryFactory func(settings *entities.Settings) PatchRepository

// ManifestRepository reads and mutates the patch registrations in the
// project manifest (composer.json extra.patches).
type ManifestRepository interface {
	// RegisterPatch records a patch for pkg under the given description,
	// backing up the manifest before modifying it.
	RegisterPatch(pkg, description, patchPath string) error

	// Patches returns the registered patches: package -> description -> path.
	Patches() (map[string]map[string]string, error)
}

// ManifestRepositoryFactory builds a ManifestRepository for the project
// described by the given settings.
type ManifestRepositoryFactory func(settings *entities.Settings) ManifestRepository
