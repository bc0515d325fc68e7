//go:build integration || unit || test

// Package selectordoubles provides test doubles for the selector's
// constraint oracle.
package selectordoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/fedorza-therefore/handy-scripts/internal/domain/selector"
)

// StubOracle implements selector.Oracle with canned answers. When Err
// is set every check fails with it; otherwise Matches drives the
// result, keyed constraint -> version -> satisfied.
type StubOracle struct {
	Matches map[string]map[string]bool
	Err     error
	Checks  []string // recorded "version constraint" pairs
}

var _ selector.Oracle = (*StubOracle)(nil)

func (o *StubOracle) Satisfies(version, constraint string) (bool, error) {
	o.Checks = append(o.Checks, version+" "+constraint)
	if o.Err != nil {
		return false, o.Err
	}
	return o.Matches[constraint][version], nil
}
