// Package gitrepo implements the workspace repository with go-git,
// guarding the working tree before upgrades are applied to it.
package gitrepo

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// WorkspaceRepository implements repositories.WorkspaceRepository on a
// local Git working copy.
type WorkspaceRepository struct{}

// NewWorkspaceRepository creates the repository.
func NewWorkspaceRepository() repositories.WorkspaceRepository {
	return &WorkspaceRepository{}
}

var _ repositories.WorkspaceRepository = (*WorkspaceRepository)(nil)

// IsClean reports whether the working tree at dir has no uncommitted
// changes.
func (r *WorkspaceRepository) IsClean(dir string) (bool, error) {
	worktree, err := openWorktree(dir)
	if err != nil {
		return false, err
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read worktree status: %w", err)
	}
	return status.IsClean(), nil
}

// CurrentBranch returns the name of the checked-out branch.
func (r *WorkspaceRepository) CurrentBranch(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// CreateBranch creates and checks out a new branch from HEAD.
func (r *WorkspaceRepository) CreateBranch(dir, name string) error {
	worktree, err := openWorktree(dir)
	if err != nil {
		return err
	}

	checkoutErr := worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	})
	if checkoutErr != nil {
		return fmt.Errorf("failed to create branch %q: %w", name, checkoutErr)
	}
	return nil
}

// openWorktree opens the repository containing dir and returns its
// worktree.
func openWorktree(dir string) (*git.Worktree, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	return worktree, nil
}
