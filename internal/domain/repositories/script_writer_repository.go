package repositories

import (
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// ScriptWriterRepository writes a generated shell script that replays
// all selected upgrades in one batch package-manager command.
type ScriptWriterRepository interface {
	// Write renders the upgrade script for the given decisions to path.
	// Only OutcomeUpgrade decisions are included.
	Write(path string, decisions []entities.Decision) error
}
