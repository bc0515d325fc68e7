//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// SpyScriptWriterRepository implements repositories.ScriptWriterRepository
// as a configurable spy.
type SpyScriptWriterRepository struct {
	WrittenPath      string
	WrittenDecisions []entities.Decision
	WriteErr         error
}

var _ repositories.ScriptWriterRepository = (*SpyScriptWriterRepository)(nil)

func (w *SpyScriptWriterRepository) Write(
	path string, decisions []entities.Decision,
) error {
	w.WrittenPath = path
	w.WrittenDecisions = decisions
	return w.WriteErr
}
