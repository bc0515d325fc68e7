package controllers

import (
	"go.uber.org/dig"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewAuditController); err != nil {
		return err
	}
	if err := container.Provide(NewVerifyController); err != nil {
		return err
	}
	if err := container.Provide(NewPatchController); err != nil {
		return err
	}
	if err := container.Provide(NewCompatController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	verifyController *VerifyController,
	auditController *AuditController,
	patchController *PatchController,
	compatController *CompatController,
) *[]entities.Controller {
	return &[]entities.Controller{
		verifyController,
		auditController,
		patchController,
		compatController,
	}
}
