package repositories

import (
	"fmt"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	domainRepos "github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

// SourceFactory is a constructor function that creates an advisory
// source bound to the project described by the settings.
type SourceFactory func(settings *entities.Settings) domainRepos.AdvisorySourceRepository

// SourceRegistry manages all registered advisory source implementations.
type SourceRegistry struct {
	sources map[string]SourceFactory
}

// NewSourceRegistry creates an empty source registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]SourceFactory),
	}
}

// Register adds a source factory under the given name (e.g. "composer").
func (r *SourceRegistry) Register(name string, factory SourceFactory) {
	r.sources[name] = factory
}

// Get returns a configured source instance for the given name.
func (r *SourceRegistry) Get(
	name string,
	settings *entities.Settings,
) (domainRepos.AdvisorySourceRepository, error) {
	factory, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown advisory source: %q", name)
	}
	return factory(settings), nil
}

// Names returns the list of registered source names.
func (r *SourceRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	return names
}
