//go:build integration || unit || test

// Package entitybuilders provides fluent builders for domain entities
// used in tests.
package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DecisionBuilder helps create test decisions with a fluent interface.
type DecisionBuilder struct {
	*testkit.BaseBuilder
	pkg              string
	installedVersion string
	selectedVersion  string
	outcome          entities.Outcome
	reason           string
	advisoryIDs      []string
}

// NewDecisionBuilder creates a new decision builder with sensible defaults.
func NewDecisionBuilder() *DecisionBuilder {
	return &DecisionBuilder{
		BaseBuilder:      testkit.NewBaseBuilder(),
		pkg:              "drupal/token",
		installedVersion: "1.0.0",
		selectedVersion:  "1.2.3",
		outcome:          entities.OutcomeUpgrade,
		advisoryIDs:      []string{"CVE-2024-0001"},
	}
}

// WithPackage sets the package name.
func (b *DecisionBuilder) WithPackage(pkg string) *DecisionBuilder {
	b.pkg = pkg
	return b
}

// WithInstalledVersion sets the installed version.
func (b *DecisionBuilder) WithInstalledVersion(version string) *DecisionBuilder {
	b.installedVersion = version
	return b
}

// WithSelectedVersion sets the selected version.
func (b *DecisionBuilder) WithSelectedVersion(version string) *DecisionBuilder {
	b.selectedVersion = version
	return b
}

// WithOutcome sets the outcome.
func (b *DecisionBuilder) WithOutcome(outcome entities.Outcome) *DecisionBuilder {
	b.outcome = outcome
	return b
}

// WithReason sets the reason.
func (b *DecisionBuilder) WithReason(reason string) *DecisionBuilder {
	b.reason = reason
	return b
}

// WithAdvisoryIDs sets the advisory identifiers.
func (b *DecisionBuilder) WithAdvisoryIDs(ids ...string) *DecisionBuilder {
	b.advisoryIDs = ids
	return b
}

// Build creates the decision (satisfies testkit.Builder interface).
func (b *DecisionBuilder) Build() interface{} {
	return b.BuildDecision()
}

// BuildDecision creates the decision with a concrete return type.
func (b *DecisionBuilder) BuildDecision() entities.Decision {
	return entities.Decision{
		Package:          b.pkg,
		InstalledVersion: b.installedVersion,
		SelectedVersion:  b.selectedVersion,
		Outcome:          b.outcome,
		Reason:           b.reason,
		AdvisoryIDs:      b.advisoryIDs,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DecisionBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.pkg = "drupal/token"
	b.installedVersion = "1.0.0"
	b.selectedVersion = "1.2.3"
	b.outcome = entities.OutcomeUpgrade
	b.reason = ""
	b.advisoryIDs = []string{"CVE-2024-0001"}
	return b
}

// Clone creates a deep copy of the DecisionBuilder.
func (b *DecisionBuilder) Clone() testkit.Builder {
	ids := make([]string, len(b.advisoryIDs))
	copy(ids, b.advisoryIDs)
	return &DecisionBuilder{
		BaseBuilder:      b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		pkg:              b.pkg,
		installedVersion: b.installedVersion,
		selectedVersion:  b.selectedVersion,
		outcome:          b.outcome,
		reason:           b.reason,
		advisoryIDs:      ids,
	}
}
