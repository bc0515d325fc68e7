package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/selector"
)

// Compat is the interface for the core major-upgrade compatibility scan.
type Compat interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CompatOptions) error
}

// CompatOptions holds runtime options for a compatibility scan.
type CompatOptions struct {
	Verbose     bool
	TargetMajor int    // 0 means installed major + 1
	Format      string // "table" or "json"
}

// CompatReport is one package's verdict in the scan.
type CompatReport struct {
	Package           string `json:"package"`
	InstalledVersion  string `json:"installed_version"`
	CompatibleVersion string `json:"compatible_version,omitempty"`
	Constraint        string `json:"constraint,omitempty"`
	Status            string `json:"status"` // "compatible", "incompatible", "unknown"
	Detail            string `json:"detail,omitempty"`
}

// CompatCommand scans the project's extension packages for releases
// declaring support for the next core major, ahead of the actual
// upgrade.
type CompatCommand struct {
	pmFactory repositories.PackageManagerFactory
	oracle    selector.Oracle
}

// NewCompatCommand creates a new CompatCommand.
func NewCompatCommand(
	pmFactory repositories.PackageManagerFactory,
	oracle selector.Oracle,
) *CompatCommand {
	return &CompatCommand{pmFactory: pmFactory, oracle: oracle}
}

// Execute resolves the target major, probes the project against it, and
// reports per-package compatibility.
func (it *CompatCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts CompatOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	packageManager := it.pmFactory(settings)
	corePackage := settings.Compat.CorePackage

	coreVersion, err := packageManager.InstalledVersion(ctx, corePackage)
	if err != nil {
		return fmt.Errorf("core package %q is not installed: %w", corePackage, err)
	}

	targetMajor, err := resolveTargetMajor(coreVersion, opts.TargetMajor, settings.Compat.TargetMajor)
	if err != nil {
		return err
	}
	targetVersion := fmt.Sprintf("%d.0.0", targetMajor)

	logger.Infof(
		"Scanning for %s %d compatibility (installed: %s)",
		corePackage, targetMajor, coreVersion,
	)

	it.probeProject(ctx, packageManager, corePackage, targetMajor)

	reports, err := it.scanPackages(ctx, packageManager, corePackage, targetVersion)
	if err != nil {
		return err
	}

	return reportCompat(reports, targetMajor, opts.Format)
}

// probeProject dry-runs a core require against the target major so the
// solver's full conflict output is available up front. The probe is
// informational; per-package verdicts come from the scan.
func (it *CompatCommand) probeProject(
	ctx context.Context,
	packageManager repositories.PackageManagerRepository,
	corePackage string,
	targetMajor int,
) {
	requirement := fmt.Sprintf("%s:^%d", corePackage, targetMajor)

	output, ok, err := packageManager.ProbeRequire(ctx, requirement)
	switch {
	case err != nil:
		logger.Warnf("Solver probe failed to run: %v", err)
	case ok:
		logger.Infof("Solver accepts %s as-is", requirement)
	default:
		logger.Infof("Solver rejects %s; per-package breakdown follows", requirement)
		logger.Debugf("Solver output:\n%s", output)
	}
}

// scanPackages checks every direct extension package for a release
// whose core requirement admits the target version. Versions are
// scanned newest first; the first hit wins.
func (it *CompatCommand) scanPackages(
	ctx context.Context,
	packageManager repositories.PackageManagerRepository,
	corePackage, targetVersion string,
) ([]CompatReport, error) {
	installed, err := packageManager.InstalledPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed packages: %w", err)
	}

	vendor := corePackage[:strings.Index(corePackage, "/")+1]

	var names []string
	versions := make(map[string]string)
	for _, pkg := range installed {
		if !pkg.Direct || !strings.HasPrefix(pkg.Name, vendor) || pkg.Name == corePackage {
			continue
		}
		names = append(names, pkg.Name)
		versions[pkg.Name] = pkg.Version
	}
	sort.Strings(names)

	reports := make([]CompatReport, 0, len(names))
	for _, name := range names {
		reports = append(reports, it.scanPackage(
			ctx, packageManager, name, versions[name], corePackage, targetVersion,
		))
	}
	return reports, nil
}

func (it *CompatCommand) scanPackage(
	ctx context.Context,
	packageManager repositories.PackageManagerRepository,
	name, installedVersion, corePackage, targetVersion string,
) CompatReport {
	report := CompatReport{
		Package:          name,
		InstalledVersion: installedVersion,
	}

	available, err := packageManager.AvailableVersions(ctx, name)
	if err != nil {
		report.Status = "unknown"
		report.Detail = fmt.Sprintf("version lookup failed: %v", err)
		return report
	}

	for i := len(available) - 1; i >= 0; i-- {
		version := available[i]
		if !selector.IsCandidate(version) {
			continue
		}

		constraint, reqErr := packageManager.VersionRequirement(
			ctx, name, version, corePackage,
		)
		if reqErr != nil {
			logger.Debugf("[compat] %s %s: requirement lookup failed: %v", name, version, reqErr)
			continue
		}
		if constraint == "" {
			continue // release does not declare a core requirement
		}

		compatible, satErr := it.oracle.Satisfies(targetVersion, constraint)
		if satErr != nil {
			logger.Debugf("[compat] %s %s: constraint %q: %v", name, version, constraint, satErr)
			continue
		}
		if compatible {
			report.Status = "compatible"
			report.CompatibleVersion = version
			report.Constraint = constraint
			return report
		}
	}

	report.Status = "incompatible"
	report.Detail = "no published release supports the target major"
	return report
}

// resolveTargetMajor picks the target: the CLI flag wins, then the
// configured default, then installed major + 1.
func resolveTargetMajor(coreVersion string, flagMajor, configMajor int) (int, error) {
	if flagMajor > 0 {
		return flagMajor, nil
	}
	if configMajor > 0 {
		return configMajor, nil
	}

	head, _, _ := strings.Cut(strings.TrimPrefix(coreVersion, "v"), ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("cannot derive a target major from core version %q", coreVersion)
	}
	return major + 1, nil
}

// reportCompat prints the scan results in the requested format.
func reportCompat(reports []CompatReport, targetMajor int, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reports)
	}

	compatible := 0
	for _, report := range reports {
		switch report.Status {
		case "compatible":
			compatible++
			fmt.Printf(
				"%-45s %-12s compatible via %s (%s)\n",
				report.Package, report.InstalledVersion,
				report.CompatibleVersion, report.Constraint,
			)
		default:
			fmt.Printf(
				"%-45s %-12s %s: %s\n",
				report.Package, report.InstalledVersion,
				report.Status, report.Detail,
			)
		}
	}

	fmt.Printf(
		"\n%d of %d packages have a release compatible with major %d\n",
		compatible, len(reports), targetMajor,
	)
	return nil
}
