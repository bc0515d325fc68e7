package patching

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
)

const (
	manifestFileName = "composer.json"
	manifestBackup   = "composer.json.bak"
	manifestFileMode = 0o644
)

// Manifest implements repositories.ManifestRepository on the project's
// composer.json. Registrations live under extra.patches, the layout
// cweagans/composer-patches consumes.
type Manifest struct {
	workingDir string
}

// NewManifest creates the repository for the project described by the
// settings.
func NewManifest(settings *entities.Settings) repositories.ManifestRepository {
	return &Manifest{workingDir: settings.Composer.WorkingDir}
}

var _ repositories.ManifestRepository = (*Manifest)(nil)

// RegisterPatch records a patch under extra.patches, writing a backup
// of the manifest first. Unknown manifest keys are preserved.
func (m *Manifest) RegisterPatch(pkg, description, patchPath string) error {
	manifestPath := filepath.Join(m.workingDir, manifestFileName)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", manifestFileName, err)
	}

	var document map[string]interface{}
	if unmarshalErr := json.Unmarshal(data, &document); unmarshalErr != nil {
		return fmt.Errorf("failed to parse %s: %w", manifestFileName, unmarshalErr)
	}

	backupPath := filepath.Join(m.workingDir, manifestBackup)
	if backupErr := os.WriteFile(backupPath, data, manifestFileMode); backupErr != nil {
		return fmt.Errorf("failed to back up manifest: %w", backupErr)
	}

	registerPatch(document, pkg, description, patchPath)

	updated, marshalErr := json.MarshalIndent(document, "", "    ")
	if marshalErr != nil {
		return fmt.Errorf("failed to encode manifest: %w", marshalErr)
	}
	updated = append(updated, '\n')

	if writeErr := os.WriteFile(manifestPath, updated, manifestFileMode); writeErr != nil {
		return fmt.Errorf("failed to write %s: %w", manifestFileName, writeErr)
	}

	logger.Infof("Registered patch %q for %s (backup in %s)", patchPath, pkg, manifestBackup)
	return nil
}

// Patches returns the registered patches: package -> description -> path.
// Missing or empty extra.patches yields an empty map.
func (m *Manifest) Patches() (map[string]map[string]string, error) {
	manifestPath := filepath.Join(m.workingDir, manifestFileName)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifestFileName, err)
	}

	var document struct {
		Extra struct {
			Patches map[string]map[string]string `json:"patches"`
		} `json:"extra"`
	}
	if unmarshalErr := json.Unmarshal(data, &document); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestFileName, unmarshalErr)
	}

	if document.Extra.Patches == nil {
		return map[string]map[string]string{}, nil
	}
	return document.Extra.Patches, nil
}

// registerPatch inserts the entry into the document, creating the
// extra and extra.patches objects as needed.
func registerPatch(document map[string]interface{}, pkg, description, patchPath string) {
	extra, ok := document["extra"].(map[string]interface{})
	if !ok {
		extra = map[string]interface{}{}
		document["extra"] = extra
	}

	patches, ok := extra["patches"].(map[string]interface{})
	if !ok {
		patches = map[string]interface{}{}
		extra["patches"] = patches
	}

	entries, ok := patches[pkg].(map[string]interface{})
	if !ok {
		entries = map[string]interface{}{}
		patches[pkg] = entries
	}

	entries[description] = patchPath
}
