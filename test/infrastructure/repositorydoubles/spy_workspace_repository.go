//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// SpyWorkspaceRepository implements repositories.WorkspaceRepository as a
// configurable spy.
type SpyWorkspaceRepository struct {
	Clean      bool
	IsCleanErr error

	Branch      string
	BranchErr   error
	BranchCalls int

	CreatedBranches []string
	CreateBranchErr error
}

var _ repositories.WorkspaceRepository = (*SpyWorkspaceRepository)(nil)

func (w *SpyWorkspaceRepository) IsClean(_ string) (bool, error) {
	return w.Clean, w.IsCleanErr
}

func (w *SpyWorkspaceRepository) CurrentBranch(_ string) (string, error) {
	w.BranchCalls++
	return w.Branch, w.BranchErr
}

func (w *SpyWorkspaceRepository) CreateBranch(_, name string) error {
	w.CreatedBranches = append(w.CreatedBranches, name)
	return w.CreateBranchErr
}
