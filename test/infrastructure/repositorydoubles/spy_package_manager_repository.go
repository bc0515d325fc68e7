//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// SpyPackageManagerRepository implements repositories.PackageManagerRepository
// as a configurable spy.
type SpyPackageManagerRepository struct {
	// --- Validate ---
	ValidateErr   error
	ValidateCalls int

	// --- InstalledPackages ---
	Installed    []entities.Package
	InstalledErr error

	// --- InstalledVersion ---
	Versions            map[string]string
	InstalledVersionErr error

	// --- AvailableVersions ---
	Available     map[string][]string
	AvailableErrs map[string]error
	LookedUp      []string

	// --- VersionRequirement ---
	// Keyed "pkg@version", then dependency -> constraint.
	Requirements   map[string]map[string]string
	RequirementErr error

	// --- RequireExact ---
	RequireErrs   map[string]error
	RequiredPairs []string

	// --- ProbeRequire ---
	ProbeOutput        string
	ProbeOK            bool
	ProbeErr           error
	ProbedRequirements []string

	// --- Audit ---
	Advisories []entities.Advisory
	AuditErr   error
}

var _ repositories.PackageManagerRepository = (*SpyPackageManagerRepository)(nil)

func (p *SpyPackageManagerRepository) Validate(_ context.Context) error {
	p.ValidateCalls++
	return p.ValidateErr
}

func (p *SpyPackageManagerRepository) InstalledPackages(
	_ context.Context,
) ([]entities.Package, error) {
	return p.Installed, p.InstalledErr
}

func (p *SpyPackageManagerRepository) InstalledVersion(
	_ context.Context, name string,
) (string, error) {
	if p.InstalledVersionErr != nil {
		return "", p.InstalledVersionErr
	}
	if version, ok := p.Versions[name]; ok {
		return version, nil
	}
	return "", fmt.Errorf("package not installed: %s", name)
}

func (p *SpyPackageManagerRepository) AvailableVersions(
	_ context.Context, name string,
) ([]string, error) {
	p.LookedUp = append(p.LookedUp, name)
	if err, ok := p.AvailableErrs[name]; ok {
		return nil, err
	}
	return p.Available[name], nil
}

func (p *SpyPackageManagerRepository) VersionRequirement(
	_ context.Context, pkg, version, dependency string,
) (string, error) {
	if p.RequirementErr != nil {
		return "", p.RequirementErr
	}
	if requires, ok := p.Requirements[pkg+"@"+version]; ok {
		return requires[dependency], nil
	}
	return "", nil
}

func (p *SpyPackageManagerRepository) RequireExact(
	_ context.Context, name, version string,
) error {
	p.RequiredPairs = append(p.RequiredPairs, name+":"+version)
	if p.RequireErrs != nil {
		return p.RequireErrs[name]
	}
	return nil
}

func (p *SpyPackageManagerRepository) ProbeRequire(
	_ context.Context, requirement string,
) (string, bool, error) {
	p.ProbedRequirements = append(p.ProbedRequirements, requirement)
	return p.ProbeOutput, p.ProbeOK, p.ProbeErr
}

func (p *SpyPackageManagerRepository) Audit(
	_ context.Context,
) ([]entities.Advisory, error) {
	return p.Advisories, p.AuditErr
}
