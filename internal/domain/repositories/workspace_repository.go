package repositories

// WorkspaceRepository answers questions about, and prepares, the local
// Git working copy before upgrades are applied to it.
type WorkspaceRepository interface {
	// IsClean reports whether the working tree at dir has no
	// uncommitted changes.
	IsClean(dir string) (bool, error)

	// CurrentBranch returns the name of the checked-out branch.
	CurrentBranch(dir string) (string, error)

	// CreateBranch creates and checks out a new branch from HEAD.
	CreateBranch(dir, name string) error
}
