package semver

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// IsNewerVersion compares two version strings and returns true if
// newVersion is newer than currentVersion.
func IsNewerVersion(currentVersion, newVersion string) bool {
	current := normalizeVersion(currentVersion)
	next := normalizeVersion(newVersion)

	if semver.IsValid(current) && semver.IsValid(next) {
		return semver.Compare(next, current) > 0
	}

	// Fall back to string comparison for non-semver versions.
	return newVersion > currentVersion
}

// SortAscending orders version strings from oldest to newest in place.
// The selector scans candidates in ascending order; sorting here makes
// that an enforced precondition instead of a property assumed from the
// registry's enumeration order.
func SortAscending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		a := normalizeVersion(versions[i])
		b := normalizeVersion(versions[j])
		if semver.IsValid(a) && semver.IsValid(b) {
			return semver.Compare(a, b) < 0
		}
		return versions[i] < versions[j]
	})
}

// normalizeVersion ensures the version has a 'v' prefix for semver
// compatibility.
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
