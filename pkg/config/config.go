// Package config provides configuration management for expoci
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/edelwud/expoci/pkg/options"
)

// DefaultOutputPath is where generate writes the workflow
const DefaultOutputPath = ".github/workflows/ci.yml"

// Config represents the expoci configuration
type Config struct {
	// Workflow holds the options the workflow is generated from
	Workflow options.BuildOptions `yaml:"workflow" json:"workflow"`

	// Output controls where generate writes
	Output OutputConfig `yaml:"output" json:"output"`

	// Batch configures the combination generator
	Batch BatchConfig `yaml:"batch" json:"batch"`
}

// OutputConfig controls the generated file
type OutputConfig struct {
	// Path of the workflow file, relative to the working directory
	Path string `yaml:"path" json:"path"`
	// Header prepends the "Generated by" comment
	Header bool `yaml:"header" json:"header"`
}

// BatchConfig configures batch generation
type BatchConfig struct {
	// Dir receives one workflow per combination plus the manifest
	Dir string `yaml:"dir" json:"dir"`
	// Limit stops after this many combinations (0 means all)
	Limit int `yaml:"limit,omitempty" json:"limit,omitempty" jsonschema:"minimum=0"`
	// Workers bounds parallel writes
	Workers int `yaml:"workers" json:"workers" jsonschema:"minimum=1"`
	// Include patterns on combination keys (if set, only matches are generated)
	Include []string `yaml:"include,omitempty" json:"include,omitempty"`
	// Exclude patterns on combination keys
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	// ValidOnly skips combinations the validator rejects
	ValidOnly bool `yaml:"valid_only" json:"valid_only"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Workflow: options.Default(),
		Output: OutputConfig{
			Path:   DefaultOutputPath,
			Header: true,
		},
		Batch: BatchConfig{
			Dir:     "examples",
			Workers: 4,
		},
	}
}

// Load reads configuration from a file. Fields missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ConfigFiles lists the file names LoadOrDefault looks for, in order
var ConfigFiles = []string{
	".expoci.yaml",
	".expoci.yml",
	"expoci.yaml",
	"expoci.yml",
}

// Find returns the first config file present in dir, or ""
func Find(dir string) string {
	for _, name := range ConfigFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadOrDefault loads config from file or returns default if not found
func LoadOrDefault(dir string) (*Config, error) {
	if p := Find(dir); p != "" {
		return Load(p)
	}
	return DefaultConfig(), nil
}

// Save writes configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is usable. The workflow options
// themselves are checked by the validation package so that commands can
// report them field by field.
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}

	if c.Batch.Dir == "" {
		return fmt.Errorf("batch.dir is required")
	}

	if c.Batch.Limit < 0 {
		return fmt.Errorf("batch.limit must not be negative")
	}

	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1")
	}

	for _, p := range append(append([]string(nil), c.Batch.Include...), c.Batch.Exclude...) {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("invalid batch pattern %q: %w", p, err)
		}
	}

	return nil
}
