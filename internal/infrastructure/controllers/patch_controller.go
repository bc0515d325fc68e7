package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/commands"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// PatchController handles the "patch" subcommand.
type PatchController struct {
	command commands.Patch
}

// NewPatchController creates a new PatchController.
func NewPatchController(command commands.Patch) *PatchController {
	return &PatchController{command: command}
}

// GetBind returns the Cobra command metadata for the patch controller.
func (it *PatchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "patch <create|generate|apply|list>",
		Short: "Manage local patches against vendor packages",
		Long: `Maintain local modifications to vendor packages as patch files:

  create    Snapshot a pristine baseline of vendor/<pkg> before editing
  generate  Diff the baseline against the edited tree, write the patch,
            and register it under extra.patches in composer.json
  apply     Re-apply registered patches (all, or one package with --package)
  list      Show the registered patches

The manifest is backed up to composer.json.bak before any change.`,
	}
}

// Execute dispatches one patch workflow action.
func (it *PatchController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	verbose, _ := cmd.Flags().GetBool("verbose")
	pkg, _ := cmd.Flags().GetString("package")
	description, _ := cmd.Flags().GetString("description")

	if len(args) == 0 {
		logger.Error("an action is required: create, generate, apply, or list")
		return
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	if runErr := it.command.Execute(ctx, settings, commands.PatchOptions{
		Verbose:     verbose,
		Action:      commands.PatchAction(args[0]),
		Package:     pkg,
		Description: description,
	}); runErr != nil {
		logger.Errorf("Patch %s failed: %v", args[0], runErr)
	}
}

// AddFlags adds the patch-specific flags to the given Cobra command.
func (it *PatchController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("package", "p", "",
		"Vendor package to operate on (e.g. drupal/token)")
	cmd.Flags().StringP("description", "d", "",
		"Short description of the change, used in the manifest and file name")
}
