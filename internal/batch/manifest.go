package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/edelwud/expoci/pkg/options"
)

// ManifestFile is the name of the manifest written next to the workflows
const ManifestFile = "workflow-manifest.json"

// ManifestEntry describes one generated workflow
type ManifestEntry struct {
	Path          string        `json:"path"`
	Filename      string        `json:"filename"`
	Key           string        `json:"key"`
	Valid         bool          `json:"valid"`
	Configuration Configuration `json:"configuration"`
}

// Configuration is the combination a workflow was generated from
type Configuration struct {
	Storage    options.StorageTarget `json:"storage"`
	BuildKinds []options.BuildKind   `json:"build_types"`
	Checks     []options.Check       `json:"checks"`
	Triggers   []options.Trigger     `json:"triggers"`
	IOS        bool                  `json:"ios"`
	Index      int                   `json:"index"`
}

// Manifest lists generated workflows in index order
type Manifest []ManifestEntry

// Sort orders entries by combination index
func (m Manifest) Sort() {
	slices.SortFunc(m, func(a, b ManifestEntry) int {
		return a.Configuration.Index - b.Configuration.Index
	})
}

// WriteManifest writes the manifest as indented JSON into dir
func WriteManifest(dir string, m Manifest) error {
	if m == nil {
		m = Manifest{}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}
