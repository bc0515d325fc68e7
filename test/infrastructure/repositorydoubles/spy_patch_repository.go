//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// SpyPatchRepository implements repositories.PatchRepository as a
// configurable spy.
type SpyPatchRepository struct {
	SnapshotErr         error
	SnapshottedPackages []string

	GeneratedPath     string
	GenerateErr       error
	GeneratedPackages []string

	ApplyErrs      map[string]error
	AppliedPatches []string
}

var _ repositories.PatchRepository = (*SpyPatchRepository)(nil)

func (p *SpyPatchRepository) Snapshot(_ context.Context, pkg string) error {
	p.SnapshottedPackages = append(p.SnapshottedPackages, pkg)
	return p.SnapshotErr
}

func (p *SpyPatchRepository) Generate(
	_ context.Context, pkg, _ string,
) (string, error) {
	p.GeneratedPackages = append(p.GeneratedPackages, pkg)
	return p.GeneratedPath, p.GenerateErr
}

func (p *SpyPatchRepository) Apply(
	_ context.Context, pkg, patchPath string,
) error {
	p.AppliedPatches = append(p.AppliedPatches, pkg+"|"+patchPath)
	if p.ApplyErrs != nil {
		return p.ApplyErrs[patchPath]
	}
	return nil
}

// SpyManifestRepository implements repositories.ManifestRepository as a
// configurable spy.
type SpyManifestRepository struct {
	Registered  []string // "pkg|description|path"
	RegisterErr error

	PatchesResult map[string]map[string]string
	PatchesErr    error
}

var _ repositories.ManifestRepository = (*SpyManifestRepository)(nil)

func (m *SpyManifestRepository) RegisterPatch(
	pkg, description, patchPath string,
) error {
	m.Registered = append(m.Registered, pkg+"|"+description+"|"+patchPath)
	return m.RegisterErr
}

func (m *SpyManifestRepository) Patches() (map[string]map[string]string, error) {
	return m.PatchesResult, m.PatchesErr
}
