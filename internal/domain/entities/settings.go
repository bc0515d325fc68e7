package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Settings is the top-level configuration for handy.
type Settings struct {
	Composer ComposerSettings `yaml:"composer"`
	Audit    AuditSettings    `yaml:"audit"`
	Patches  PatchSettings    `yaml:"patches"`
	Compat   CompatSettings   `yaml:"compat"`
}

// ComposerSettings locates the Composer executable and the project root.
type ComposerSettings struct {
	Binary     string `yaml:"binary"`
	WorkingDir string `yaml:"working_dir"`
}

// AuditSettings holds defaults for the security audit.
type AuditSettings struct {
	AllowMajor  bool     `yaml:"allow_major"`
	Sources     []string `yaml:"sources"`      // "composer", "friendsofphp"
	GitHubToken string   `yaml:"github_token"` // Inline, ${ENV_VAR}, or file path
	ScriptPath  string   `yaml:"script_path"`
}

// PatchSettings holds the patch workflow directories, relative to the
// project root.
type PatchSettings struct {
	Dir     string `yaml:"dir"`      // Where generated .patch files live
	WorkDir string `yaml:"work_dir"` // Where pristine baselines are kept
}

// CompatSettings holds defaults for the core compatibility scan.
type CompatSettings struct {
	CorePackage string `yaml:"core_package"`
	TargetMajor int    `yaml:"target_major"` // 0 means installed major + 1
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns settings usable without a config file, for
// running inside an ordinary Composer project.
func DefaultSettings() *Settings {
	return &Settings{
		Composer: ComposerSettings{
			Binary:     "composer",
			WorkingDir: ".",
		},
		Audit: AuditSettings{
			AllowMajor: false,
			Sources:    []string{"composer"},
			ScriptPath: "upgrade-packages.sh",
		},
		Patches: PatchSettings{
			Dir:     "patches",
			WorkDir: ".patch-baseline",
		},
		Compat: CompatSettings{
			CorePackage: "drupal/core",
		},
	}
}

// NewSettings reads and parses a configuration file, expanding
// environment variables, resolving token file paths, and applying
// defaults for omitted sections.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := DefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Audit.GitHubToken = resolveToken(settings.Audit.GitHubToken)

	if validateErr := validate(settings); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".handy.yaml",
		".handy.yml",
		"handy.yaml",
		"handy.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// knownSources lists the advisory source names that can be configured.
var knownSources = map[string]bool{
	"composer":     true,
	"friendsofphp": true,
}

// validate checks for required configuration values.
func validate(settings *Settings) error {
	if settings.Composer.Binary == "" {
		return errors.New("composer.binary must not be empty")
	}

	if settings.Composer.WorkingDir != "" && settings.Composer.WorkingDir != "." {
		if _, statErr := os.Stat(settings.Composer.WorkingDir); statErr != nil {
			return fmt.Errorf(
				"composer.working_dir %q does not exist: %w",
				settings.Composer.WorkingDir, statErr,
			)
		}
	}

	if len(settings.Audit.Sources) == 0 {
		return errors.New("audit.sources must have at least one entry")
	}
	for i, src := range settings.Audit.Sources {
		if !knownSources[src] {
			return fmt.Errorf(
				"audit.sources[%d]: unknown source %q (expected composer or friendsofphp)",
				i, src,
			)
		}
	}

	if settings.Patches.Dir == "" {
		return errors.New("patches.dir must not be empty")
	}
	if settings.Patches.WorkDir == "" {
		return errors.New("patches.work_dir must not be empty")
	}

	if !strings.Contains(settings.Compat.CorePackage, "/") {
		return fmt.Errorf(
			"compat.core_package %q must be a vendor/name pair",
			settings.Compat.CorePackage,
		)
	}
	if settings.Compat.TargetMajor < 0 {
		return fmt.Errorf(
			"compat.target_major must not be negative, got %d",
			settings.Compat.TargetMajor,
		)
	}

	return nil
}
