package repositories

import (
	"context"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// AdvisorySourceRepository abstracts a feed of security advisories for
// the packages installed in the project.
type AdvisorySourceRepository interface {
	// Name returns the source identifier (e.g. "composer", "friendsofphp").
	Name() string

	// Fetch returns the advisories affecting any of the given installed
	// packages. Sources fetch fresh data per invocation; nothing is cached
	// between runs.
	Fetch(ctx context.Context, installed []entities.Package) ([]entities.Advisory, error)
}
