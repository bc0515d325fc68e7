package entities

import (
	"fmt"
	"sort"
)

// Outcome classifies the result of the safe-upgrade selection for one package.
type Outcome string

const (
	// OutcomeUpgrade means a safe, policy-permitted version was selected.
	OutcomeUpgrade Outcome = "upgrade"
	// OutcomeNoValidRanges means the advisory payload had no usable ranges
	// after splitting and trimming (malformed or empty, distinct from safe).
	OutcomeNoValidRanges Outcome = "no-valid-ranges"
	// OutcomeNoSafeVersion means every candidate was vulnerable or
	// policy-blocked.
	OutcomeNoSafeVersion Outcome = "no-safe-version"
	// OutcomeLookupError means the registry lookup for the installed or
	// available versions failed; the package was skipped.
	OutcomeLookupError Outcome = "lookup-error"
)

// Decision is the selector's verdict for a single package.
type Decision struct {
	Package          string   `json:"package"`
	InstalledVersion string   `json:"installed_version,omitempty"`
	SelectedVersion  string   `json:"selected_version,omitempty"`
	Outcome          Outcome  `json:"outcome"`
	Reason           string   `json:"reason,omitempty"`
	AdvisoryIDs      []string `json:"advisory_ids,omitempty"`
}

// Line renders the decision in the "package:selected-version" column
// order consumed by the generated upgrade script. Only meaningful for
// OutcomeUpgrade decisions.
func (d Decision) Line() string {
	return fmt.Sprintf("%s:%s", d.Package, d.SelectedVersion)
}

// DecisionSet is an in-memory ordered mapping from package name to
// decision. It replaces append-only accumulation files: decisions are
// collected in memory and serialized once at the end of a run.
type DecisionSet struct {
	byPackage map[string]Decision
	order     []string
}

// NewDecisionSet creates an empty decision set.
func NewDecisionSet() *DecisionSet {
	return &DecisionSet{byPackage: make(map[string]Decision)}
}

// Add records the decision for a package. At most one decision is kept
// per package per run; a repeated Add overwrites in place, preserving
// the original position.
func (s *DecisionSet) Add(d Decision) {
	if _, ok := s.byPackage[d.Package]; !ok {
		s.order = append(s.order, d.Package)
	}
	s.byPackage[d.Package] = d
}

// Get returns the decision for a package, if any.
func (s *DecisionSet) Get(pkg string) (Decision, bool) {
	d, ok := s.byPackage[pkg]
	return d, ok
}

// All returns every decision in insertion order.
func (s *DecisionSet) All() []Decision {
	result := make([]Decision, 0, len(s.order))
	for _, pkg := range s.order {
		result = append(result, s.byPackage[pkg])
	}
	return result
}

// Selected returns only the upgrade decisions, in insertion order.
func (s *DecisionSet) Selected() []Decision {
	var result []Decision
	for _, d := range s.All() {
		if d.Outcome == OutcomeUpgrade {
			result = append(result, d)
		}
	}
	return result
}

// Len returns the number of recorded decisions.
func (s *DecisionSet) Len() int {
	return len(s.order)
}

// CountByOutcome returns the number of decisions per outcome.
func (s *DecisionSet) CountByOutcome() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, d := range s.byPackage {
		counts[d.Outcome]++
	}
	return counts
}

// SortedPackages returns the decided package names in lexical order.
func (s *DecisionSet) SortedPackages() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	sort.Strings(names)
	return names
}
