package advisory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

const (
	friendsOfPHPSourceName = "friendsofphp"
	advisoryOwner          = "FriendsOfPHP"
	advisoryRepo           = "security-advisories"
)

// FriendsOfPHPSource fetches advisory YAML files from the FriendsOfPHP
// security-advisories repository, one directory per package. An
// unauthenticated client works but is rate-limited; a token can be set
// in the audit settings.
type FriendsOfPHPSource struct {
	client *github.Client
}

// NewFriendsOfPHPSource creates the source with an optional auth token.
func NewFriendsOfPHPSource(token string) repositories.AdvisorySourceRepository {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &FriendsOfPHPSource{client: client}
}

func (s *FriendsOfPHPSource) Name() string { return friendsOfPHPSourceName }

// advisoryFile mirrors one YAML advisory in the database.
type advisoryFile struct {
	Title    string `yaml:"title"`
	Link     string `yaml:"link"`
	CVE      string `yaml:"cve"`
	Branches map[string]struct {
		Versions []string `yaml:"versions"`
	} `yaml:"branches"`
}

// Fetch lists the advisory files for each installed package and parses
// them. Packages without an advisory directory are silently skipped; a
// per-package fetch failure is logged and skipped so one package never
// fails the whole feed.
func (s *FriendsOfPHPSource) Fetch(
	ctx context.Context,
	installed []entities.Package,
) ([]entities.Advisory, error) {
	var result []entities.Advisory

	for _, pkg := range installed {
		advisories, err := s.fetchPackage(ctx, pkg.Name)
		if err != nil {
			logger.Warnf(
				"[friendsofphp] Failed to fetch advisories for %s: %v",
				pkg.Name, err,
			)
			continue
		}
		result = append(result, advisories...)
	}

	return result, nil
}

// fetchPackage lists and parses the advisory files under the package's
// directory in the database repository.
func (s *FriendsOfPHPSource) fetchPackage(
	ctx context.Context,
	pkgName string,
) ([]entities.Advisory, error) {
	_, entries, resp, err := s.client.Repositories.GetContents(
		ctx, advisoryOwner, advisoryRepo, pkgName, nil,
	)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil, nil // no advisories published for this package
		}
		return nil, fmt.Errorf("failed to list advisory directory: %w", err)
	}

	var result []entities.Advisory
	for _, entry := range entries {
		if entry.GetType() != "file" || !strings.HasSuffix(entry.GetName(), ".yaml") {
			continue
		}

		advisory, parseErr := s.fetchAdvisoryFile(ctx, pkgName, entry.GetPath(), entry.GetName())
		if parseErr != nil {
			logger.Warnf(
				"[friendsofphp] Skipping malformed advisory %s: %v",
				entry.GetPath(), parseErr,
			)
			continue
		}
		result = append(result, advisory)
	}
	return result, nil
}

// fetchAdvisoryFile downloads and converts one advisory YAML file.
func (s *FriendsOfPHPSource) fetchAdvisoryFile(
	ctx context.Context,
	pkgName, path, fileName string,
) (entities.Advisory, error) {
	file, _, _, err := s.client.Repositories.GetContents(
		ctx, advisoryOwner, advisoryRepo, path, nil,
	)
	if err != nil {
		return entities.Advisory{}, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	content, err := file.GetContent()
	if err != nil {
		return entities.Advisory{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return ParseAdvisoryYAML(pkgName, fileName, []byte(content))
}

// ParseAdvisoryYAML converts one advisory YAML document into the domain
// advisory. Each branch contributes one range: the branch's constraint
// list ANDed together with commas.
func ParseAdvisoryYAML(
	pkgName, fileName string,
	data []byte,
) (entities.Advisory, error) {
	var parsed advisoryFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return entities.Advisory{}, fmt.Errorf("invalid advisory YAML: %w", err)
	}

	branchNames := make([]string, 0, len(parsed.Branches))
	for name := range parsed.Branches {
		branchNames = append(branchNames, name)
	}
	sort.Strings(branchNames)

	var ranges []string
	for _, name := range branchNames {
		branch := parsed.Branches[name]
		if len(branch.Versions) == 0 {
			continue
		}
		ranges = append(ranges, strings.Join(branch.Versions, ","))
	}

	id := strings.TrimSuffix(fileName, ".yaml")
	if parsed.CVE != "" {
		id = parsed.CVE
	}

	return entities.Advisory{
		ID:             id,
		PackageName:    pkgName,
		Title:          parsed.Title,
		CVE:            parsed.CVE,
		Link:           parsed.Link,
		AffectedRanges: ranges,
	}, nil
}
