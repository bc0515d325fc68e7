package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// Verify is the interface for the environment verification command.
type Verify interface {
	Execute(ctx context.Context, settings *entities.Settings, opts VerifyOptions) error
}

// VerifyOptions holds runtime options for a verification run.
type VerifyOptions struct {
	Verbose bool
}

// requiredTools are the external binaries the other commands shell out
// to. The composer binary is checked separately since it is configurable.
var requiredTools = []string{"php", "git", "diff", "patch"}

// VerifyCommand checks that the project and its environment are in a
// workable state: tools on PATH, manifest and lock file present and
// consistent, vendor tree installed.
type VerifyCommand struct {
	pmFactory repositories.PackageManagerFactory
}

// NewVerifyCommand creates a new VerifyCommand.
func NewVerifyCommand(pmFactory repositories.PackageManagerFactory) *VerifyCommand {
	return &VerifyCommand{pmFactory: pmFactory}
}

// Execute runs every check and reports all results; it never stops at
// the first failure so one run paints the full picture.
func (it *VerifyCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts VerifyOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	results := it.runChecks(ctx, settings)

	failed := 0
	for _, result := range results {
		status := "ok"
		if !result.OK {
			status = "FAIL"
			failed++
		}
		fmt.Printf("%-6s %-20s %s\n", status, result.Name, result.Detail)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	logger.Infof("All %d checks passed", len(results))
	return nil
}

func (it *VerifyCommand) runChecks(
	ctx context.Context,
	settings *entities.Settings,
) []entities.CheckResult {
	var results []entities.CheckResult

	results = append(results, checkBinary(settings.Composer.Binary))
	for _, tool := range requiredTools {
		results = append(results, checkBinary(tool))
	}

	workingDir := settings.Composer.WorkingDir
	results = append(results,
		checkFile(workingDir, "composer.json"),
		checkFile(workingDir, "composer.lock"),
		checkDir(workingDir, "vendor"),
	)

	results = append(results, it.checkManifest(ctx, settings))

	return results
}

// checkManifest runs composer's own validation, which includes the
// lock-file freshness check.
func (it *VerifyCommand) checkManifest(
	ctx context.Context,
	settings *entities.Settings,
) entities.CheckResult {
	result := entities.CheckResult{Name: "manifest"}

	if err := it.pmFactory(settings).Validate(ctx); err != nil {
		result.Detail = fmt.Sprintf("validation failed: %v", err)
		return result
	}

	result.OK = true
	result.Detail = "composer.json valid, lock file in sync"
	return result
}

func checkBinary(name string) entities.CheckResult {
	result := entities.CheckResult{Name: "binary:" + name}

	path, err := exec.LookPath(name)
	if err != nil {
		result.Detail = "not found on PATH"
		return result
	}

	result.OK = true
	result.Detail = path
	return result
}

func checkFile(workingDir, name string) entities.CheckResult {
	result := entities.CheckResult{Name: "file:" + name}
	path := filepath.Join(workingDir, name)

	info, err := os.Stat(path)
	switch {
	case err != nil:
		result.Detail = "missing"
	case info.IsDir():
		result.Detail = "is a directory, expected a file"
	default:
		result.OK = true
		result.Detail = path
	}
	return result
}

func checkDir(workingDir, name string) entities.CheckResult {
	result := entities.CheckResult{Name: "dir:" + name}
	path := filepath.Join(workingDir, name)

	info, err := os.Stat(path)
	switch {
	case err != nil:
		result.Detail = "missing, run composer install"
	case !info.IsDir():
		result.Detail = "exists but is not a directory"
	default:
		result.OK = true
		result.Detail = path
	}
	return result
}
