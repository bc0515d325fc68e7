package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/commands"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// CompatController handles the "compat" subcommand.
type CompatController struct {
	command commands.Compat
}

// NewCompatController creates a new CompatController.
func NewCompatController(command commands.Compat) *CompatController {
	return &CompatController{command: command}
}

// GetBind returns the Cobra command metadata for the compat controller.
func (it *CompatController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "compat",
		Short: "Scan extensions for next-major core compatibility",
		Long: `Before a core major upgrade, check every direct extension package
for a published release that declares support for the target major.

The target defaults to the installed core major plus one; override it
with --target-major or in the config file.`,
	}
}

// Execute runs the compatibility scan.
func (it *CompatController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	verbose, _ := cmd.Flags().GetBool("verbose")
	targetMajor, _ := cmd.Flags().GetInt("target-major")
	format, _ := cmd.Flags().GetString("format")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	if runErr := it.command.Execute(ctx, settings, commands.CompatOptions{
		Verbose:     verbose,
		TargetMajor: targetMajor,
		Format:      format,
	}); runErr != nil {
		logger.Errorf("Compatibility scan failed: %v", runErr)
	}
}

// AddFlags adds the compat-specific flags to the given Cobra command.
func (it *CompatController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Int("target-major", 0,
		"Core major version to scan against (default: installed major + 1)")
	cmd.Flags().String("format", "table",
		"Output format (table, json)")
}
