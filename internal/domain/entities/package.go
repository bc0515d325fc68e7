package entities

// Package represents a Composer package installed in the project.
type Package struct {
	Name    string // Ecosystem-qualified name, e.g. "drupal/token"
	Version string // Installed version as reported by the package manager
	Direct  bool   // True when required directly by the root manifest
}

// Advisory is a security disclosure record naming affected version
// ranges for a package.
type Advisory struct {
	ID             string // Advisory identifier (e.g. "PKSA-...", "GHSA-...")
	PackageName    string // Ecosystem-qualified package name
	Title          string
	CVE            string
	Link           string
	AffectedRanges []string // Constraint expressions, possibly compound ("|"-joined)
}

// CheckResult is the outcome of a single verification check.
type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}
