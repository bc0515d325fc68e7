// Package patching implements the vendor-package patch workflow:
// pristine baselines under the work dir, diff generation into the
// patches dir, and registration in the project manifest.
package patching

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

const (
	patchDirMode  = 0o755
	patchFileMode = 0o644
)

// Patcher implements repositories.PatchRepository on top of the
// external diff and patch tools.
type Patcher struct {
	workingDir  string
	patchesDir  string
	baselineDir string
}

// NewPatcher creates the repository for the project described by the
// settings. Directories are resolved relative to the project root.
func NewPatcher(settings *entities.Settings) repositories.PatchRepository {
	return &Patcher{
		workingDir:  settings.Composer.WorkingDir,
		patchesDir:  settings.Patches.Dir,
		baselineDir: settings.Patches.WorkDir,
	}
}

var _ repositories.PatchRepository = (*Patcher)(nil)

// Snapshot copies vendor/<pkg> into the baseline dir, replacing any
// previous baseline for the package.
func (p *Patcher) Snapshot(_ context.Context, pkg string) error {
	source := p.vendorPath(pkg)
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("package %q is not installed under vendor: %w", pkg, err)
	}

	target := p.baselinePath(pkg)
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to clear previous baseline for %q: %w", pkg, err)
	}

	if err := copyTree(source, target); err != nil {
		return fmt.Errorf("failed to snapshot %q: %w", pkg, err)
	}

	logger.Infof("Saved pristine baseline for %s", pkg)
	return nil
}

// Generate diffs the baseline against the current vendor tree and
// writes the result into the patches dir. Returns "" when the trees
// are identical.
func (p *Patcher) Generate(ctx context.Context, pkg, description string) (string, error) {
	baseline := p.baselinePath(pkg)
	if _, err := os.Stat(baseline); err != nil {
		return "", fmt.Errorf("no baseline for %q, run the create step first: %w", pkg, err)
	}

	diff, err := p.runDiff(ctx, baseline, p.vendorPath(pkg))
	if err != nil {
		return "", err
	}
	if len(diff) == 0 {
		return "", nil
	}

	patchesDir := filepath.Join(p.workingDir, p.patchesDir)
	if mkdirErr := os.MkdirAll(patchesDir, patchDirMode); mkdirErr != nil {
		return "", fmt.Errorf("failed to create patches dir: %w", mkdirErr)
	}

	relPath := filepath.Join(p.patchesDir, patchFileName(pkg, description))
	fullPath := filepath.Join(p.workingDir, relPath)
	if writeErr := os.WriteFile(fullPath, diff, patchFileMode); writeErr != nil {
		return "", fmt.Errorf("failed to write patch file %q: %w", fullPath, writeErr)
	}

	logger.Infof("Wrote patch for %s to %s", pkg, relPath)
	return relPath, nil
}

// Apply re-applies a patch file to vendor/<pkg>.
func (p *Patcher) Apply(ctx context.Context, pkg, patchPath string) error {
	patchFile, err := filepath.Abs(filepath.Join(p.workingDir, patchPath))
	if err != nil {
		return fmt.Errorf("failed to resolve patch path %q: %w", patchPath, err)
	}
	if _, statErr := os.Stat(patchFile); statErr != nil {
		return fmt.Errorf("patch file %q does not exist: %w", patchPath, statErr)
	}

	cmd := exec.CommandContext(ctx, "patch", "-p1", "--forward", "--input", patchFile)
	cmd.Dir = p.vendorPath(pkg)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		return fmt.Errorf(
			"patch failed for %q: %w: %s",
			pkg, runErr, strings.TrimSpace(stderr.String()+stdout.String()),
		)
	}

	logger.Infof("Applied %s to %s", patchPath, pkg)
	return nil
}

// runDiff stages the two trees as "a" and "b" in a scratch dir and runs
// "diff -urN a b" there, so the headers read a/<file> and b/<file> and
// Apply can strip them with -p1 from inside vendor/<pkg>. Exit code 1
// means the trees differ, which is the output we want, not a failure.
func (p *Patcher) runDiff(ctx context.Context, baseline, current string) ([]byte, error) {
	stage, err := os.MkdirTemp("", "handy-diff-")
	if err != nil {
		return nil, fmt.Errorf("failed to create diff staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	if copyErr := copyTree(baseline, filepath.Join(stage, "a")); copyErr != nil {
		return nil, fmt.Errorf("failed to stage baseline tree: %w", copyErr)
	}
	if copyErr := copyTree(current, filepath.Join(stage, "b")); copyErr != nil {
		return nil, fmt.Errorf("failed to stage current tree: %w", copyErr)
	}

	cmd := exec.CommandContext(ctx, "diff", "-urN", "a", "b")
	cmd.Dir = stage

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) && exitErr.ExitCode() == 1 {
			return stdout.Bytes(), nil
		}
		return nil, fmt.Errorf(
			"diff failed: %w: %s", runErr, strings.TrimSpace(stderr.String()),
		)
	}
	return nil, nil
}

func (p *Patcher) vendorPath(pkg string) string {
	return filepath.Join(p.workingDir, "vendor", filepath.FromSlash(pkg))
}

func (p *Patcher) baselinePath(pkg string) string {
	return filepath.Join(p.workingDir, p.baselineDir, filepath.FromSlash(pkg))
}

// patchFileName builds "<vendor>-<name>-<description>.patch" with the
// description slugified.
func patchFileName(pkg, description string) string {
	slug := strings.ToLower(description)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")

	base := strings.ReplaceAll(pkg, "/", "-")
	if slug == "" {
		return base + ".patch"
	}
	return base + "-" + slug + ".patch"
}

// copyTree recursively copies a directory tree, preserving file modes.
func copyTree(source, target string) error {
	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(source, path)
		if relErr != nil {
			return relErr
		}
		dest := filepath.Join(target, rel)

		info, infoErr := entry.Info()
		if infoErr != nil {
			return infoErr
		}

		if entry.IsDir() {
			return os.MkdirAll(dest, info.Mode().Perm())
		}
		if !info.Mode().IsRegular() {
			return nil // symlinks and specials are not part of the baseline
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		return os.WriteFile(dest, data, info.Mode().Perm())
	})
}
