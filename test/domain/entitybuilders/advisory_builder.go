//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// AdvisoryBuilder helps create test advisories with a fluent interface.
type AdvisoryBuilder struct {
	*testkit.BaseBuilder
	id          string
	packageName string
	title       string
	cve         string
	link        string
	ranges      []string
}

// NewAdvisoryBuilder creates a new advisory builder with sensible defaults.
func NewAdvisoryBuilder() *AdvisoryBuilder {
	return &AdvisoryBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		id:          "CVE-2024-0001",
		packageName: "drupal/core",
		title:       "Test advisory",
		cve:         "CVE-2024-0001",
		link:        "https://example.com/advisory",
		ranges:      []string{">=1.0.0,<1.2.3"},
	}
}

// WithID sets the advisory identifier.
func (b *AdvisoryBuilder) WithID(id string) *AdvisoryBuilder {
	b.id = id
	return b
}

// WithPackageName sets the affected package.
func (b *AdvisoryBuilder) WithPackageName(name string) *AdvisoryBuilder {
	b.packageName = name
	return b
}

// WithTitle sets the advisory title.
func (b *AdvisoryBuilder) WithTitle(title string) *AdvisoryBuilder {
	b.title = title
	return b
}

// WithCVE sets the CVE identifier.
func (b *AdvisoryBuilder) WithCVE(cve string) *AdvisoryBuilder {
	b.cve = cve
	return b
}

// WithLink sets the advisory link.
func (b *AdvisoryBuilder) WithLink(link string) *AdvisoryBuilder {
	b.link = link
	return b
}

// WithRanges sets the affected version ranges.
func (b *AdvisoryBuilder) WithRanges(ranges ...string) *AdvisoryBuilder {
	b.ranges = ranges
	return b
}

// Build creates the advisory (satisfies testkit.Builder interface).
func (b *AdvisoryBuilder) Build() interface{} {
	return b.BuildAdvisory()
}

// BuildAdvisory creates the advisory with a concrete return type.
func (b *AdvisoryBuilder) BuildAdvisory() entities.Advisory {
	return entities.Advisory{
		ID:             b.id,
		PackageName:    b.packageName,
		Title:          b.title,
		CVE:            b.cve,
		Link:           b.link,
		AffectedRanges: b.ranges,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *AdvisoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.id = "CVE-2024-0001"
	b.packageName = "drupal/core"
	b.title = "Test advisory"
	b.cve = "CVE-2024-0001"
	b.link = "https://example.com/advisory"
	b.ranges = []string{">=1.0.0,<1.2.3"}
	return b
}

// Clone creates a deep copy of the AdvisoryBuilder.
func (b *AdvisoryBuilder) Clone() testkit.Builder {
	ranges := make([]string, len(b.ranges))
	copy(ranges, b.ranges)
	return &AdvisoryBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		id:          b.id,
		packageName: b.packageName,
		title:       b.title,
		cve:         b.cve,
		link:        b.link,
		ranges:      ranges,
	}
}
