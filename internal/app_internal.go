package internal

import (
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// AppInternal aggregates everything the CLI entrypoint needs from the
// DIG container.
type AppInternal struct {
	controllers *[]entities.Controller
}

// NewAppInternal creates the application aggregate.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: controllers}
}

// GetControllers returns all registered controllers.
func (it *AppInternal) GetControllers() []entities.Controller {
	return *it.controllers
}
