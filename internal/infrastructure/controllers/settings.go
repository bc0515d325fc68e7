package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// loadSettings resolves the configuration for one invocation: the
// --config flag wins, then auto-detection, then built-in defaults. The
// --working-dir flag overrides the project root either way.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	workingDir, _ := cmd.Flags().GetString("working-dir")

	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
		} else {
			configPath = found
		}
	}

	var settings *entities.Settings
	if configPath == "" {
		settings = entities.DefaultSettings()
	} else {
		logger.Infof("Using config file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if workingDir != "" {
		settings.Composer.WorkingDir = workingDir
	}
	return settings, nil
}
