package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
)

// auditOutput mirrors the "composer audit --format=json" payload. The
// advisories field is an object keyed by package name, or an empty
// array when the audit is clean, hence the RawMessage.
type auditOutput struct {
	Advisories json.RawMessage `json:"advisories"`
}

// auditAdvisory is one advisory entry in the audit payload.
type auditAdvisory struct {
	AdvisoryID       string `json:"advisoryId"`
	PackageName      string `json:"packageName"`
	AffectedVersions string `json:"affectedVersions"`
	Title            string `json:"title"`
	CVE              string `json:"cve"`
	Link             string `json:"link"`
}

// Audit runs "composer audit" against the lock file. Composer exits
// non-zero when advisories are found, so the output is parsed before
// the exit status is judged.
func (r *PackageManagerRepository) Audit(
	ctx context.Context,
) ([]entities.Advisory, error) {
	out, runErr := r.run(
		ctx,
		"audit", "--locked", "--format=json", "--no-interaction",
	)

	advisories, parseErr := parseAuditOutput(out)
	if parseErr != nil {
		if runErr != nil {
			return nil, runErr
		}
		return nil, parseErr
	}
	return advisories, nil
}

// parseAuditOutput extracts advisories from the audit JSON, sorted by
// package name for deterministic processing.
func parseAuditOutput(out []byte) ([]entities.Advisory, error) {
	var payload auditOutput
	if err := json.Unmarshal(bytes.TrimSpace(out), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse composer audit output: %w", err)
	}

	if len(payload.Advisories) == 0 || payload.Advisories[0] == '[' {
		return nil, nil // clean audit, advisories reported as empty array
	}

	var byPackage map[string][]auditAdvisory
	if err := json.Unmarshal(payload.Advisories, &byPackage); err != nil {
		return nil, fmt.Errorf("failed to parse composer audit advisories: %w", err)
	}

	names := make([]string, 0, len(byPackage))
	for name := range byPackage {
		names = append(names, name)
	}
	sort.Strings(names)

	var result []entities.Advisory
	for _, name := range names {
		for _, a := range byPackage[name] {
			pkg := a.PackageName
			if pkg == "" {
				pkg = name
			}
			result = append(result, entities.Advisory{
				ID:             a.AdvisoryID,
				PackageName:    pkg,
				Title:          a.Title,
				CVE:            a.CVE,
				Link:           a.Link,
				AffectedRanges: []string{a.AffectedVersions},
			})
		}
	}
	return result, nil
}
