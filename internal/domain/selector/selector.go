// Package selector implements the safe-upgrade selection logic: given a
// vulnerable package, the version ranges known to be affected, and a
// policy on major-version jumps, it determines whether any published
// version of the package is unaffected and acceptable under policy, and
// if so, selects one.
//
// The selector is a pure decision function over read-only inputs. It has
// no side effects; applying a selection is the caller's responsibility.
package selector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// Oracle answers whether a version satisfies a single constraint
// expression. The selector treats it as an opaque black box; the
// boolean result is the sole signal.
type Oracle interface {
	Satisfies(version, constraint string) (bool, error)
}

// Input carries everything the selector needs to decide one package.
type Input struct {
	Package          string
	InstalledVersion string
	// Ranges are the advisory's affected-version constraint expressions.
	// Each entry may be compound, with sub-ranges joined by "|".
	Ranges []string
	// Available are the published version strings in ascending order.
	// Entries not matching the strict MAJOR.MINOR.PATCH pattern are
	// ignored as upgrade candidates.
	Available []string
	// AllowMajor permits selecting a version whose major component
	// differs from the installed version's.
	AllowMajor bool
	// AdvisoryIDs are carried through to the resulting decision.
	AdvisoryIDs []string
}

// candidatePattern accepts only strict three-component numeric versions.
// Pre-release and dev tags are excluded from candidacy entirely.
var candidatePattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// rangeDelimiter joins the sub-ranges of a compound advisory range.
// Splitting on the single character also covers the "||" spelling.
const rangeDelimiter = "|"

// Select evaluates one package and returns its decision. Each candidate
// is classified as vulnerable, safe-but-policy-blocked, or
// safe-and-selectable; scanning stops at the first selectable candidate.
func Select(in Input, oracle Oracle) entities.Decision {
	decision := entities.Decision{
		Package:          in.Package,
		InstalledVersion: in.InstalledVersion,
		AdvisoryIDs:      in.AdvisoryIDs,
	}

	ranges := SplitRanges(in.Ranges)
	if len(ranges) == 0 {
		decision.Outcome = entities.OutcomeNoValidRanges
		decision.Reason = "advisory has no usable version ranges"
		return decision
	}

	installedMajor, haveInstalledMajor := majorComponent(in.InstalledVersion)

	for _, candidate := range in.Available {
		if !IsCandidate(candidate) {
			continue
		}

		vulnerable, checkErr := satisfiesAny(oracle, candidate, ranges)
		if checkErr != nil {
			decision.Outcome = entities.OutcomeLookupError
			decision.Reason = fmt.Sprintf("range check failed: %v", checkErr)
			return decision
		}
		if vulnerable {
			continue
		}

		// Candidate is safe. Apply the major-upgrade policy: a safe but
		// cross-major candidate is skipped and scanning continues.
		if !in.AllowMajor && haveInstalledMajor {
			candidateMajor, ok := majorComponent(candidate)
			if !ok || candidateMajor != installedMajor {
				logger.Debugf(
					"[selector] %s %s is safe but blocked by major-upgrade policy",
					in.Package, candidate,
				)
				continue
			}
		}

		decision.Outcome = entities.OutcomeUpgrade
		decision.SelectedVersion = candidate
		return decision
	}

	decision.Outcome = entities.OutcomeNoSafeVersion
	decision.Reason = "all candidates are vulnerable or policy-blocked"
	return decision
}

// SplitRanges splits compound range expressions on the "|" delimiter,
// trims whitespace, and discards empty fragments.
func SplitRanges(ranges []string) []string {
	var result []string
	for _, r := range ranges {
		for _, fragment := range strings.Split(r, rangeDelimiter) {
			fragment = strings.TrimSpace(fragment)
			if fragment != "" {
				result = append(result, fragment)
			}
		}
	}
	return result
}

// IsCandidate reports whether a published version string is eligible
// for consideration as an upgrade target.
func IsCandidate(version string) bool {
	return candidatePattern.MatchString(version)
}

// satisfiesAny tests the candidate against every range and reports
// whether it falls inside at least one of them.
func satisfiesAny(oracle Oracle, version string, ranges []string) (bool, error) {
	for _, r := range ranges {
		ok, err := oracle.Satisfies(version, r)
		if err != nil {
			return false, fmt.Errorf("constraint %q: %w", r, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// majorComponent extracts the numeric major component of a version
// string, tolerating a leading "v".
func majorComponent(version string) (int, bool) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return major, true
}
