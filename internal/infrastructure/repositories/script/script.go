// Package script renders the generated follow-up shell script that
// replays all selected upgrades in one batch composer command.
package script

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
	semverRepo "github.com/fedorza-therefore/handy-scripts/internal/infrastructure/repositories/semver"
)

const scriptFileMode = 0o700

// UpgradeScriptWriter implements repositories.ScriptWriterRepository.
type UpgradeScriptWriter struct{}

// NewUpgradeScriptWriter creates the writer.
func NewUpgradeScriptWriter() repositories.ScriptWriterRepository {
	return &UpgradeScriptWriter{}
}

var _ repositories.ScriptWriterRepository = (*UpgradeScriptWriter)(nil)

// Write renders the upgrade script to path. The "package:selected-version"
// lines are emitted one per requirement; downstream consumers rely on
// that column order. A selection equal to the installed version means the
// project is already safe, so there is nothing to replay for it.
func (w *UpgradeScriptWriter) Write(
	path string,
	decisions []entities.Decision,
) error {
	var selected []entities.Decision
	for _, d := range decisions {
		if d.Outcome != entities.OutcomeUpgrade {
			continue
		}
		if !semverRepo.IsNewerVersion(d.InstalledVersion, d.SelectedVersion) {
			continue
		}
		selected = append(selected, d)
	}
	if len(selected) == 0 {
		return fmt.Errorf("no upgrades selected, refusing to write %q", path)
	}

	content := Render(selected, time.Now())

	if err := os.WriteFile(path, []byte(content), scriptFileMode); err != nil {
		return fmt.Errorf("failed to write upgrade script %q: %w", path, err)
	}
	return nil
}

// Render builds the script body for the given upgrade decisions.
func Render(selected []entities.Decision, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("#!/usr/bin/env bash\n")
	sb.WriteString(fmt.Sprintf(
		"# Generated by handy audit on %s\n",
		now.Format(time.RFC3339),
	))
	sb.WriteString("# One requirement per line, package:selected-version:\n")
	for _, d := range selected {
		sb.WriteString(fmt.Sprintf("#   %s\n", d.Line()))
	}
	sb.WriteString("set -euo pipefail\n\n")

	sb.WriteString("composer require --update-with-dependencies --no-interaction \\\n")
	for i, d := range selected {
		terminator := " \\\n"
		if i == len(selected)-1 {
			terminator = "\n"
		}
		sb.WriteString(fmt.Sprintf("  '%s'%s", d.Line(), terminator))
	}
	return sb.String()
}
