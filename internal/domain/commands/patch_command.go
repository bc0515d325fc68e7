package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// Patch is the interface for the vendor-patch workflow command.
type Patch interface {
	Execute(ctx context.Context, settings *entities.Settings, opts PatchOptions) error
}

// PatchAction selects one step of the patch workflow.
type PatchAction string

const (
	PatchActionCreate   PatchAction = "create"
	PatchActionGenerate PatchAction = "generate"
	PatchActionApply    PatchAction = "apply"
	PatchActionList     PatchAction = "list"
)

// PatchOptions holds runtime options for one patch workflow step.
type PatchOptions struct {
	Verbose     bool
	Action      PatchAction
	Package     string
	Description string
}

// PatchCommand drives the vendor-package patch workflow: snapshot a
// pristine baseline, generate a diff after local edits, register it in
// the manifest, and re-apply registered patches after installs.
type PatchCommand struct {
	patcherFactory  repositories.PatchRepositoryFactory
	manifestFactory repositories.ManifestRepositoryFactory
}

// NewPatchCommand creates a new PatchCommand.
func NewPatchCommand(
	patcherFactory repositories.PatchRepositoryFactory,
	manifestFactory repositories.ManifestRepositoryFactory,
) *PatchCommand {
	return &PatchCommand{
		patcherFactory:  patcherFactory,
		manifestFactory: manifestFactory,
	}
}

// Execute dispatches one patch workflow action.
func (it *PatchCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts PatchOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	patcher := it.patcherFactory(settings)
	manifest := it.manifestFactory(settings)

	switch opts.Action {
	case PatchActionCreate:
		if opts.Package == "" {
			return errors.New("a package name is required to create a baseline")
		}
		return patcher.Snapshot(ctx, opts.Package)

	case PatchActionGenerate:
		return it.generate(ctx, patcher, manifest, opts)

	case PatchActionApply:
		return it.applyAll(ctx, patcher, manifest, opts.Package)

	case PatchActionList:
		return list(manifest)

	default:
		return fmt.Errorf(
			"unknown patch action %q (expected create, generate, apply, or list)",
			opts.Action,
		)
	}
}

// generate diffs the baseline against the current vendor tree and, when
// there are changes, registers the resulting patch in the manifest.
func (it *PatchCommand) generate(
	ctx context.Context,
	patcher repositories.PatchRepository,
	manifest repositories.ManifestRepository,
	opts PatchOptions,
) error {
	if opts.Package == "" {
		return errors.New("a package name is required to generate a patch")
	}
	if opts.Description == "" {
		return errors.New("a description is required to generate a patch")
	}

	patchPath, err := patcher.Generate(ctx, opts.Package, opts.Description)
	if err != nil {
		return err
	}
	if patchPath == "" {
		logger.Infof("No changes detected for %s, nothing to generate", opts.Package)
		return nil
	}

	return manifest.RegisterPatch(opts.Package, opts.Description, patchPath)
}

// applyAll re-applies registered patches, optionally filtered to one
// package. A single failed patch is logged and the rest keep going.
func (it *PatchCommand) applyAll(
	ctx context.Context,
	patcher repositories.PatchRepository,
	manifest repositories.ManifestRepository,
	only string,
) error {
	patches, err := manifest.Patches()
	if err != nil {
		return err
	}
	if len(patches) == 0 {
		logger.Info("No patches registered")
		return nil
	}

	packages := make([]string, 0, len(patches))
	for pkg := range patches {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	applied := 0
	failures := 0
	for _, pkg := range packages {
		if only != "" && pkg != only {
			continue
		}

		descriptions := make([]string, 0, len(patches[pkg]))
		for description := range patches[pkg] {
			descriptions = append(descriptions, description)
		}
		sort.Strings(descriptions)

		for _, description := range descriptions {
			patchPath := patches[pkg][description]
			logger.Infof("Applying %q to %s", description, pkg)
			if applyErr := patcher.Apply(ctx, pkg, patchPath); applyErr != nil {
				logger.Errorf("Failed to apply %q to %s: %v", description, pkg, applyErr)
				failures++
				continue
			}
			applied++
		}
	}

	logger.Infof("Patch apply complete: %d applied, %d failed", applied, failures)
	if failures > 0 {
		return fmt.Errorf("%d patches failed to apply", failures)
	}
	return nil
}

// list prints the registered patches grouped by package.
func list(manifest repositories.ManifestRepository) error {
	patches, err := manifest.Patches()
	if err != nil {
		return err
	}
	if len(patches) == 0 {
		fmt.Println("No patches registered")
		return nil
	}

	packages := make([]string, 0, len(patches))
	for pkg := range patches {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	for _, pkg := range packages {
		fmt.Println(pkg)

		descriptions := make([]string, 0, len(patches[pkg]))
		for description := range patches[pkg] {
			descriptions = append(descriptions, description)
		}
		sort.Strings(descriptions)

		for _, description := range descriptions {
			fmt.Printf("  %s: %s\n", description, patches[pkg][description])
		}
	}
	return nil
}
