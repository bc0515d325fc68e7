// Package semver provides the in-process range-satisfaction oracle and
// version-ordering helpers. Constraint evaluation uses the Masterminds
// semver library, which understands the operators emitted by Composer
// advisory feeds (>=, <, ^, ~, comma-AND, "||"-OR).
package semver

import (
	"fmt"
	"strings"

	masterminds "github.com/Masterminds/semver/v3"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/selector"
)

// ConstraintOracle implements selector.Oracle with an in-process
// evaluator; no external tool is invoked per check.
type ConstraintOracle struct{}

// NewConstraintOracle creates the oracle.
func NewConstraintOracle() *ConstraintOracle {
	return &ConstraintOracle{}
}

var _ selector.Oracle = (*ConstraintOracle)(nil)

// Satisfies reports whether version falls inside the constraint
// expression. The version must be parseable; candidates reaching the
// oracle already match the strict numeric pattern.
func (o *ConstraintOracle) Satisfies(version, constraint string) (bool, error) {
	v, err := masterminds.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", version, err)
	}

	c, err := masterminds.NewConstraint(strings.TrimSpace(constraint))
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}

	return c.Check(v), nil
}
