package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/selector"
	infraRepos "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories"
)

// Audit is the interface for the security audit command.
type Audit interface {
	Execute(ctx context.Context, settings *entities.Settings, opts AuditOptions) error
}

// AuditOptions holds runtime options for a single audit run.
type AuditOptions struct {
	DryRun     bool
	Verbose    bool
	AllowMajor bool
	Apply      bool
	ScriptPath string   // If set, write the upgrade script here
	Sources    []string // If set, overrides the configured source list
	Format     string   // "table" or "json"
}

// AuditCommand orchestrates the security audit flow:
// collect advisories -> select safe upgrades -> report/apply.
type AuditCommand struct {
	sourceRegistry *infraRepos.SourceRegistry
	pmFactory      repositories.PackageManagerFactory
	workspace      repositories.WorkspaceRepository
	scriptWriter   repositories.ScriptWriterRepository
	oracle         selector.Oracle
}

// NewAuditCommand creates a new AuditCommand with its dependencies.
func NewAuditCommand(
	sourceRegistry *infraRepos.SourceRegistry,
	pmFactory repositories.PackageManagerFactory,
	workspace repositories.WorkspaceRepository,
	scriptWriter repositories.ScriptWriterRepository,
	oracle selector.Oracle,
) *AuditCommand {
	return &AuditCommand{
		sourceRegistry: sourceRegistry,
		pmFactory:      pmFactory,
		workspace:      workspace,
		scriptWriter:   scriptWriter,
		oracle:         oracle,
	}
}

// Execute runs the full audit cycle using the provided configuration.
func (it *AuditCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts AuditOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	packageManager := it.pmFactory(settings)

	installed, err := packageManager.InstalledPackages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list installed packages: %w", err)
	}
	installedVersions := make(map[string]string, len(installed))
	for _, pkg := range installed {
		installedVersions[pkg.Name] = pkg.Version
	}

	advisories, err := it.collectAdvisories(ctx, settings, opts, installed)
	if err != nil {
		return err
	}
	if len(advisories) == 0 {
		logger.Info("No security advisories found")
		return nil
	}

	decisions := it.decide(ctx, packageManager, advisories, installedVersions, opts)

	if reportErr := report(decisions, opts.Format); reportErr != nil {
		return reportErr
	}

	selected := decisions.Selected()
	if len(selected) == 0 {
		logger.Info("No safe upgrades available")
		return nil
	}

	if opts.ScriptPath != "" {
		if writeErr := it.scriptWriter.Write(opts.ScriptPath, decisions.All()); writeErr != nil {
			return writeErr
		}
		logger.Infof("Wrote upgrade script to %s", opts.ScriptPath)
	}

	if opts.Apply {
		return it.apply(ctx, packageManager, settings, selected, opts.DryRun)
	}
	return nil
}

// collectAdvisories gathers advisories from every configured source and
// merges them per package. A failing source fails the run: a partial
// advisory picture would silently understate exposure.
func (it *AuditCommand) collectAdvisories(
	ctx context.Context,
	settings *entities.Settings,
	opts AuditOptions,
	installed []entities.Package,
) (map[string][]entities.Advisory, error) {
	sourceNames := settings.Audit.Sources
	if len(opts.Sources) > 0 {
		sourceNames = opts.Sources
	}

	byPackage := make(map[string][]entities.Advisory)
	for _, name := range sourceNames {
		source, err := it.sourceRegistry.Get(name, settings)
		if err != nil {
			return nil, err
		}

		logger.Infof("Fetching advisories from source: %s", source.Name())

		advisories, fetchErr := source.Fetch(ctx, installed)
		if fetchErr != nil {
			return nil, fmt.Errorf("source %q failed: %w", name, fetchErr)
		}
		for _, advisory := range advisories {
			byPackage[advisory.PackageName] = append(byPackage[advisory.PackageName], advisory)
		}
	}
	return byPackage, nil
}

// decide runs the selector over every affected package in sorted order.
// A registry lookup failure is recorded as a lookup-error decision for
// that package; the run continues with the next one.
func (it *AuditCommand) decide(
	ctx context.Context,
	packageManager repositories.PackageManagerRepository,
	advisories map[string][]entities.Advisory,
	installedVersions map[string]string,
	opts AuditOptions,
) *entities.DecisionSet {
	decisions := entities.NewDecisionSet()

	names := make([]string, 0, len(advisories))
	for name := range advisories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		installedVersion, isInstalled := installedVersions[name]
		if !isInstalled {
			logger.Debugf("[audit] Skipping %s: advisory for a package not installed", name)
			continue
		}

		var ranges []string
		var advisoryIDs []string
		for _, advisory := range advisories[name] {
			ranges = append(ranges, advisory.AffectedRanges...)
			advisoryIDs = append(advisoryIDs, advisory.ID)
		}

		logger.Infof(
			"Auditing %s %s (%d advisories)",
			name, installedVersion, len(advisories[name]),
		)

		available, err := packageManager.AvailableVersions(ctx, name)
		if err != nil {
			decisions.Add(entities.Decision{
				Package:          name,
				InstalledVersion: installedVersion,
				Outcome:          entities.OutcomeLookupError,
				Reason:           fmt.Sprintf("version lookup failed: %v", err),
				AdvisoryIDs:      advisoryIDs,
			})
			continue
		}

		decisions.Add(selector.Select(selector.Input{
			Package:          name,
			InstalledVersion: installedVersion,
			Ranges:           ranges,
			Available:        available,
			AllowMajor:       opts.AllowMajor,
			AdvisoryIDs:      advisoryIDs,
		}, it.oracle))
	}

	return decisions
}

// apply pins every selected upgrade on a fresh branch. A dirty working
// tree aborts before anything is touched; a single failed require is
// logged and the rest keep going.
func (it *AuditCommand) apply(
	ctx context.Context,
	packageManager repositories.PackageManagerRepository,
	settings *entities.Settings,
	selected []entities.Decision,
	dryRun bool,
) error {
	if dryRun {
		for _, decision := range selected {
			logger.Infof("[dry-run] Would require %s", decision.Line())
		}
		return nil
	}

	workingDir := settings.Composer.WorkingDir

	clean, err := it.workspace.IsClean(workingDir)
	if err != nil {
		return fmt.Errorf("failed to inspect working tree: %w", err)
	}
	if !clean {
		return fmt.Errorf("working tree at %q has uncommitted changes, refusing to apply", workingDir)
	}

	current, err := it.workspace.CurrentBranch(workingDir)
	if err != nil {
		return fmt.Errorf("failed to resolve the current branch: %w", err)
	}

	branch := fmt.Sprintf("security-upgrades-%s", time.Now().Format("20060102-150405"))
	if branchErr := it.workspace.CreateBranch(workingDir, branch); branchErr != nil {
		return branchErr
	}
	logger.Infof("Created branch %s from %s", branch, current)

	failures := 0
	for _, decision := range selected {
		logger.Infof("Requiring %s", decision.Line())
		if requireErr := packageManager.RequireExact(
			ctx, decision.Package, decision.SelectedVersion,
		); requireErr != nil {
			logger.Errorf("Failed to upgrade %s: %v", decision.Package, requireErr)
			failures++
		}
	}

	logger.Infof(
		"Apply complete: %d upgraded, %d failed",
		len(selected)-failures, failures,
	)
	if failures > 0 {
		return fmt.Errorf("%d of %d upgrades failed", failures, len(selected))
	}
	return nil
}

// report prints the decisions in the requested format.
func report(decisions *entities.DecisionSet, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(decisions.All())
	}

	for _, decision := range decisions.All() {
		switch decision.Outcome {
		case entities.OutcomeUpgrade:
			fmt.Printf(
				"%-45s %-12s -> %-12s %s\n",
				decision.Package, decision.InstalledVersion,
				decision.SelectedVersion, decision.Outcome,
			)
		default:
			fmt.Printf(
				"%-45s %-12s    %-12s %s (%s)\n",
				decision.Package, decision.InstalledVersion,
				"-", decision.Outcome, decision.Reason,
			)
		}
	}

	counts := decisions.CountByOutcome()
	fmt.Printf(
		"\n%d upgradable, %d without a safe version, %d without usable ranges, %d lookup errors\n",
		counts[entities.OutcomeUpgrade],
		counts[entities.OutcomeNoSafeVersion],
		counts[entities.OutcomeNoValidRanges],
		counts[entities.OutcomeLookupError],
	)

	for _, decision := range decisions.Selected() {
		fmt.Println(decision.Line())
	}
	return nil
}
