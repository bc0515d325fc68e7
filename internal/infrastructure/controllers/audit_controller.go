package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/commands"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// AuditController handles the "audit" subcommand.
type AuditController struct {
	command commands.Audit
}

// NewAuditController creates a new AuditController.
func NewAuditController(command commands.Audit) *AuditController {
	return &AuditController{command: command}
}

// GetBind returns the Cobra command metadata for the audit controller.
func (it *AuditController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "audit",
		Short: "Audit installed packages for security advisories",
		Long: `Collect security advisories for the project's installed packages
and, for each affected package, look for the lowest published version
that escapes every advisory range.

By default the audit only reports. Use --script to write a shell
script that replays the selected upgrades, or --apply to pin them
immediately on a fresh branch (requires a clean working tree).

Major-version jumps are skipped unless --allow-major is set.`,
	}
}

// Execute runs the security audit.
func (it *AuditController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	allowMajor, _ := cmd.Flags().GetBool("allow-major")
	apply, _ := cmd.Flags().GetBool("apply")
	scriptPath, _ := cmd.Flags().GetString("script")
	sources, _ := cmd.Flags().GetStringSlice("source")
	format, _ := cmd.Flags().GetString("format")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	if runErr := it.command.Execute(ctx, settings, commands.AuditOptions{
		DryRun:     dryRun,
		Verbose:    verbose,
		AllowMajor: allowMajor,
		Apply:      apply,
		ScriptPath: scriptPath,
		Sources:    sources,
		Format:     format,
	}); runErr != nil {
		logger.Errorf("Audit failed: %v", runErr)
	}
}

// AddFlags adds the audit-specific flags to the given Cobra command.
func (it *AuditController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("allow-major", false,
		"Allow upgrades that cross a major version boundary")
	cmd.Flags().Bool("apply", false,
		"Apply the selected upgrades on a fresh branch")
	cmd.Flags().String("script", "",
		"Write an upgrade script to this path")
	cmd.Flags().StringSlice("source", nil,
		"Advisory sources to query (composer, friendsofphp); overrides config")
	cmd.Flags().String("format", "table",
		"Output format (table, json)")
}
