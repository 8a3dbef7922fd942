package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/edelwud/expoci/pkg/options"
)

// writeTestConfig writes content to a config file
func writeTestConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !reflect.DeepEqual(cfg.Workflow, options.Default()) {
		t.Errorf("expected default workflow options, got %+v", cfg.Workflow)
	}
	if cfg.Output.Path != DefaultOutputPath {
		t.Errorf("expected output path %q, got %q", DefaultOutputPath, cfg.Output.Path)
	}
	if !cfg.Output.Header {
		t.Error("expected header to be enabled")
	}
	if cfg.Batch.Dir != "examples" {
		t.Errorf("expected batch dir 'examples', got %q", cfg.Batch.Dir)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Batch.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".expoci.yaml")

	writeTestConfig(t, configPath, `
workflow:
  storage: zoho-drive
  build_types: [dev, prod-aab]
  triggers: [manual]
  advanced:
    ios_support: true
output:
  path: .github/workflows/mobile.yml
batch:
  limit: 50
  exclude:
    - "custom/**"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Workflow.Storage != options.StorageZohoDrive {
		t.Errorf("expected zoho-drive storage, got %q", cfg.Workflow.Storage)
	}
	if !reflect.DeepEqual(cfg.Workflow.BuildKinds, []options.BuildKind{options.BuildDev, options.BuildProdAAB}) {
		t.Errorf("unexpected build kinds: %v", cfg.Workflow.BuildKinds)
	}
	if !reflect.DeepEqual(cfg.Workflow.Triggers, []options.Trigger{options.TriggerManual}) {
		t.Errorf("unexpected triggers: %v", cfg.Workflow.Triggers)
	}
	if !cfg.Workflow.Advanced.IOSSupport {
		t.Error("expected iOS support")
	}
	// Unset fields keep their defaults
	if !cfg.Workflow.Advanced.Caching {
		t.Error("expected caching to keep its default")
	}
	if !reflect.DeepEqual(cfg.Workflow.Checks, options.Checks) {
		t.Errorf("expected default checks, got %v", cfg.Workflow.Checks)
	}
	if cfg.Output.Path != ".github/workflows/mobile.yml" {
		t.Errorf("unexpected output path %q", cfg.Output.Path)
	}
	if !cfg.Output.Header {
		t.Error("expected header to keep its default")
	}
	if cfg.Batch.Limit != 50 || cfg.Batch.Workers != 4 {
		t.Errorf("unexpected batch config: %+v", cfg.Batch)
	}
	if !reflect.DeepEqual(cfg.Batch.Exclude, []string{"custom/**"}) {
		t.Errorf("unexpected exclude patterns: %v", cfg.Batch.Exclude)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/.expoci.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".expoci.yaml")
	writeTestConfig(t, configPath, "workflow: [unclosed")

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		cfg, err := LoadOrDefault(t.TempDir())
		if err != nil {
			t.Fatalf("LoadOrDefault failed: %v", err)
		}
		if !reflect.DeepEqual(cfg, DefaultConfig()) {
			t.Error("expected default config")
		}
	})

	for _, name := range ConfigFiles {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeTestConfig(t, filepath.Join(tmpDir, name), "workflow:\n  storage: custom\n")

			cfg, err := LoadOrDefault(tmpDir)
			if err != nil {
				t.Fatalf("LoadOrDefault failed: %v", err)
			}
			if cfg.Workflow.Storage != options.StorageCustom {
				t.Errorf("expected config from %s to be loaded", name)
			}
		})
	}

	t.Run("first match wins", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeTestConfig(t, filepath.Join(tmpDir, ".expoci.yaml"), "workflow:\n  storage: custom\n")
		writeTestConfig(t, filepath.Join(tmpDir, "expoci.yml"), "workflow:\n  storage: zoho-drive\n")

		if got := Find(tmpDir); filepath.Base(got) != ".expoci.yaml" {
			t.Errorf("expected .expoci.yaml, got %q", got)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "default",
			modify: func(*Config) {},
		},
		{
			name:    "missing output path",
			modify:  func(c *Config) { c.Output.Path = "" },
			wantErr: "output.path is required",
		},
		{
			name:    "missing batch dir",
			modify:  func(c *Config) { c.Batch.Dir = "" },
			wantErr: "batch.dir is required",
		},
		{
			name:    "negative limit",
			modify:  func(c *Config) { c.Batch.Limit = -1 },
			wantErr: "batch.limit must not be negative",
		},
		{
			name:    "no workers",
			modify:  func(c *Config) { c.Batch.Workers = 0 },
			wantErr: "batch.workers must be at least 1",
		},
		{
			name:    "bad pattern",
			modify:  func(c *Config) { c.Batch.Include = []string{"[zoho"} },
			wantErr: "invalid batch pattern",
		},
		{
			name: "invalid workflow options are not a config error",
			modify: func(c *Config) {
				c.Workflow.BuildKinds = nil
				c.Workflow.Storage = options.StorageGitHubRelease
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".expoci.yaml")

	cfg := DefaultConfig()
	cfg.Workflow.Storage = options.StorageGoogleDrive
	cfg.Workflow.Checks = nil
	cfg.Batch.Include = []string{"google-drive/**"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.Contains(string(data), "storage: google-drive") {
		t.Errorf("saved config should contain the storage:\n%s", data)
	}
	if !strings.Contains(string(data), "checks: []") {
		t.Errorf("empty checks should be written explicitly:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Workflow.Storage != options.StorageGoogleDrive {
		t.Errorf("expected google-drive after reload, got %q", loaded.Workflow.Storage)
	}
	if !reflect.DeepEqual(loaded.Batch.Include, cfg.Batch.Include) {
		t.Errorf("expected include patterns to survive, got %v", loaded.Batch.Include)
	}
	if len(loaded.Workflow.Checks) != 0 {
		t.Errorf("expected no checks after reload, got %v", loaded.Workflow.Checks)
	}
}

func TestLoad_MissingChecksKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".expoci.yaml")
	writeTestConfig(t, path, `
workflow:
  storage: github
  build_types: [dev]
  triggers: [push]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Workflow.Checks, options.Default().Checks) {
		t.Errorf("expected default checks when the key is absent, got %v", cfg.Workflow.Checks)
	}
}

func TestGenerateJSONSchema(t *testing.T) {
	var schema map[string]any
	if err := json.Unmarshal([]byte(GenerateJSONSchema()), &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}

	if schema["title"] != "expoci Configuration" {
		t.Errorf("unexpected title %v", schema["title"])
	}

	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatal("schema has no properties")
	}
	for _, key := range []string{"workflow", "output", "batch"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema is missing %q", key)
		}
	}

	workflow := props["workflow"].(map[string]any)["properties"].(map[string]any)
	if _, ok := workflow["build_types"]; !ok {
		t.Error("workflow schema should use yaml field names")
	}
}
