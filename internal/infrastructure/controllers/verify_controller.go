package controllers

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/commands"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// VerifyController handles the "verify" subcommand.
type VerifyController struct {
	command commands.Verify
}

// NewVerifyController creates a new VerifyController.
func NewVerifyController(command commands.Verify) *VerifyController {
	return &VerifyController{command: command}
}

// GetBind returns the Cobra command metadata for the verify controller.
func (it *VerifyController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "verify",
		Short: "Verify the project and its environment",
		Long: `Check that everything the other commands rely on is in place:
required tools on PATH, composer.json and composer.lock present and
in sync, and the vendor tree installed.

All checks run every time; the exit status is non-zero when any fail.`,
	}
}

// Execute runs the environment verification.
func (it *VerifyController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	verbose, _ := cmd.Flags().GetBool("verbose")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	if runErr := it.command.Execute(ctx, settings, commands.VerifyOptions{
		Verbose: verbose,
	}); runErr != nil {
		logger.Errorf("Verification failed: %v", runErr)
		os.Exit(1)
	}
}
