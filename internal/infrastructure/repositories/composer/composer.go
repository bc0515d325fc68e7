// Package composer shells out to the Composer CLI and parses its JSON
// output into domain entities.
package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
	semverRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/semver"
)

// PackageManagerRepository implements repositories.PackageManagerRepository
// on top of the composer binary.
type PackageManagerRepository struct {
	binary     string
	workingDir string
}

// NewPackageManagerRepository creates a repository bound to the project
// described by the settings.
func NewPackageManagerRepository(
	settings *entities.Settings,
) repositories.PackageManagerRepository {
	return &PackageManagerRepository{
		binary:     settings.Composer.Binary,
		workingDir: settings.Composer.WorkingDir,
	}
}

// run executes composer with the given arguments and returns stdout.
// Calls block until the external process completes; no timeout is
// enforced beyond the caller's context.
func (r *PackageManagerRepository) run(
	ctx context.Context,
	args ...string,
) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.workingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("[composer] %s %s", r.binary, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf(
			"composer %s: %w: %s",
			args[0], err, strings.TrimSpace(stderr.String()),
		)
	}
	return stdout.Bytes(), nil
}

// Validate runs "composer validate" including the lock freshness check.
func (r *PackageManagerRepository) Validate(ctx context.Context) error {
	_, err := r.run(ctx, "validate", "--check-lock", "--no-interaction")
	return err
}

// showInstalledOutput mirrors the "composer show --format=json" payload.
type showInstalledOutput struct {
	Installed []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Direct  bool   `json:"direct-dependency"`
	} `json:"installed"`
}

// InstalledPackages lists every installed package from the lock state.
func (r *PackageManagerRepository) InstalledPackages(
	ctx context.Context,
) ([]entities.Package, error) {
	out, err := r.run(ctx, "show", "--format=json", "--no-interaction")
	if err != nil {
		return nil, err
	}

	var payload showInstalledOutput
	if unmarshalErr := json.Unmarshal(out, &payload); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse composer show output: %w", unmarshalErr)
	}

	packages := make([]entities.Package, 0, len(payload.Installed))
	for _, p := range payload.Installed {
		packages = append(packages, entities.Package{
			Name:    p.Name,
			Version: normalizeReportedVersion(p.Version),
			Direct:  p.Direct,
		})
	}
	return packages, nil
}

// InstalledVersion returns the installed version of one package.
func (r *PackageManagerRepository) InstalledVersion(
	ctx context.Context,
	name string,
) (string, error) {
	out, err := r.run(ctx, "show", name, "--format=json", "--no-interaction")
	if err != nil {
		return "", err
	}

	var payload struct {
		Versions []string `json:"versions"`
	}
	if unmarshalErr := json.Unmarshal(out, &payload); unmarshalErr != nil {
		return "", fmt.Errorf("failed to parse composer show output: %w", unmarshalErr)
	}
	if len(payload.Versions) == 0 {
		return "", fmt.Errorf("package %q is not installed", name)
	}
	return normalizeReportedVersion(payload.Versions[0]), nil
}

// AvailableVersions returns the published versions of a package in
// ascending order. Composer enumerates newest-first; the list is sorted
// here so the ascending order is an enforced precondition rather than
// an assumption about the registry.
func (r *PackageManagerRepository) AvailableVersions(
	ctx context.Context,
	name string,
) ([]string, error) {
	out, err := r.run(ctx, "show", "--all", name, "--format=json", "--no-interaction")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Versions []string `json:"versions"`
	}
	if unmarshalErr := json.Unmarshal(out, &payload); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse composer show output: %w", unmarshalErr)
	}

	versions := make([]string, 0, len(payload.Versions))
	for _, v := range payload.Versions {
		versions = append(versions, normalizeReportedVersion(v))
	}
	semverRepo.SortAscending(versions)
	return versions, nil
}

// VersionRequirement returns the constraint a specific published version
// of pkg places on the given dependency.
func (r *PackageManagerRepository) VersionRequirement(
	ctx context.Context,
	pkg, version, dependency string,
) (string, error) {
	out, err := r.run(
		ctx,
		"show", "--all", pkg, version, "--format=json", "--no-interaction",
	)
	if err != nil {
		return "", err
	}

	var payload struct {
		Requires map[string]string `json:"requires"`
	}
	if unmarshalErr := json.Unmarshal(out, &payload); unmarshalErr != nil {
		return "", fmt.Errorf("failed to parse composer show output: %w", unmarshalErr)
	}
	return payload.Requires[dependency], nil
}

// RequireExact pins a package to an exact version and resolves
// transitive dependencies.
func (r *PackageManagerRepository) RequireExact(
	ctx context.Context,
	name, version string,
) error {
	_, err := r.run(
		ctx,
		"require", fmt.Sprintf("%s:%s", name, version),
		"--update-with-dependencies", "--no-interaction",
	)
	return err
}

// ProbeRequire dry-runs a require of the given "name:constraint" pair.
// A solver rejection is not an error: the captured output explains the
// conflict and ok is false.
func (r *PackageManagerRepository) ProbeRequire(
	ctx context.Context,
	requirement string,
) (string, bool, error) {
	out, err := r.run(
		ctx,
		"require", requirement,
		"--dry-run", "--no-interaction", "--no-progress",
	)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return strings.TrimSpace(err.Error()), false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(out)), true, nil
}

// normalizeReportedVersion strips the "v" prefix Composer occasionally
// reports so versions compare uniformly.
func normalizeReportedVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}
