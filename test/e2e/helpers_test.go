// Package e2e provides end-to-end tests for expoci workflow generation
package e2e

import (
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/edelwud/expoci/internal/pipeline/github"
	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/config"
	"github.com/edelwud/expoci/pkg/options"
)

// testdataDir returns the absolute path to the testdata directory
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get caller info")
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}

// fixtureDir returns the absolute path to a specific fixture directory
func fixtureDir(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(testdataDir(t), name)
}

// Workflow mirrors the rendered YAML the way GitHub reads it
type Workflow struct {
	Name string         `yaml:"name"`
	On   map[string]any `yaml:"on"`
	Env  map[string]any `yaml:"env"`
	Jobs map[string]Job `yaml:"jobs"`
}

// Job is a parsed workflow job
type Job struct {
	Needs    string `yaml:"needs"`
	If       string `yaml:"if"`
	RunsOn   string `yaml:"runs-on"`
	Strategy *struct {
		Matrix struct {
			Include []map[string]string `yaml:"include"`
		} `yaml:"matrix"`
	} `yaml:"strategy"`
	Steps []Step `yaml:"steps"`
}

// Step is a parsed job step
type Step struct {
	Name string            `yaml:"name"`
	If   string            `yaml:"if"`
	Uses string            `yaml:"uses"`
	Run  string            `yaml:"run"`
	Env  map[string]string `yaml:"env"`
}

// Fixture represents a loaded test fixture with all components
type Fixture struct {
	Name     string
	Dir      string
	Config   *config.Config
	Options  options.BuildOptions
	YAML     []byte
	Workflow *Workflow
}

// LoadFixture loads a fixture config, checks the options and renders them
func LoadFixture(t *testing.T, name string) *Fixture {
	t.Helper()

	dir := fixtureDir(t, name)

	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		t.Fatalf("failed to load config for fixture %s: %v", name, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid config in fixture %s: %v", name, err)
	}

	o := cfg.Workflow.Canonical()
	if err := validation.Validate(o).Err(); err != nil {
		t.Fatalf("fixture %s: %v", name, err)
	}

	data := render(t, o)
	return &Fixture{
		Name:     name,
		Dir:      dir,
		Config:   cfg,
		Options:  o,
		YAML:     data,
		Workflow: parse(t, data),
	}
}

// render generates the workflow YAML for o
func render(t *testing.T, o options.BuildOptions) []byte {
	t.Helper()
	result, err := github.NewGenerator().Generate(o)
	if err != nil {
		t.Fatalf("failed to generate workflow: %v", err)
	}
	out, err := result.ToYAML()
	if err != nil {
		t.Fatalf("failed to render workflow: %v", err)
	}
	return out
}

// parse reads rendered YAML back
func parse(t *testing.T, data []byte) *Workflow {
	t.Helper()
	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		t.Fatalf("generated YAML does not parse: %v\n%s", err, data)
	}
	return &w
}

// AssertJobExists checks that a job with the given id exists in the workflow
func AssertJobExists(t *testing.T, w *Workflow, id string) {
	t.Helper()
	if _, exists := w.Jobs[id]; !exists {
		t.Errorf("expected job %s to exist", id)
	}
}

// AssertJobNotExists checks that a job with the given id does not exist
func AssertJobNotExists(t *testing.T, w *Workflow, id string) {
	t.Helper()
	if _, exists := w.Jobs[id]; exists {
		t.Errorf("expected job %s to not exist", id)
	}
}

// AssertJobNeeds checks the single job a job waits for
func AssertJobNeeds(t *testing.T, w *Workflow, id, need string) {
	t.Helper()
	job, exists := w.Jobs[id]
	if !exists {
		t.Errorf("job %s does not exist", id)
		return
	}
	if job.Needs != need {
		t.Errorf("job %s should need %q, got %q", id, need, job.Needs)
	}
}

// AssertStepExists checks that a job has a step with the given name
func AssertStepExists(t *testing.T, w *Workflow, id, step string) {
	t.Helper()
	if !slices.Contains(StepNames(w, id), step) {
		t.Errorf("job %s should have step %q, got %v", id, step, StepNames(w, id))
	}
}

// AssertStepNotExists checks that a job has no step with the given name
func AssertStepNotExists(t *testing.T, w *Workflow, id, step string) {
	t.Helper()
	if slices.Contains(StepNames(w, id), step) {
		t.Errorf("job %s should not have step %q", id, step)
	}
}

// AssertTriggers checks the event clauses of the workflow
func AssertTriggers(t *testing.T, w *Workflow, expected ...string) {
	t.Helper()
	var got []string
	for _, event := range []string{"push", "pull_request", "workflow_dispatch"} {
		if _, ok := w.On[event]; ok {
			got = append(got, event)
		}
	}
	if !slices.Equal(got, expected) {
		t.Errorf("expected triggers %v, got %v", expected, got)
	}
}

// AssertJobCount checks the total number of jobs in the workflow
func AssertJobCount(t *testing.T, w *Workflow, expected int) {
	t.Helper()
	if len(w.Jobs) != expected {
		t.Errorf("expected %d jobs, got %d", expected, len(w.Jobs))
	}
}

// StepNames returns the step names of a job in order
func StepNames(w *Workflow, id string) []string {
	job, exists := w.Jobs[id]
	if !exists {
		return nil
	}
	names := make([]string, len(job.Steps))
	for i, s := range job.Steps {
		names[i] = s.Name
	}
	return names
}

// FindStep returns the named step of a job
func FindStep(w *Workflow, id, name string) (Step, bool) {
	for _, s := range w.Jobs[id].Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// DispatchChoices returns the buildType options of the manual trigger
func DispatchChoices(t *testing.T, w *Workflow) []string {
	t.Helper()
	dispatch, ok := w.On["workflow_dispatch"].(map[string]any)
	if !ok {
		return nil
	}
	inputs, ok := dispatch["inputs"].(map[string]any)
	if !ok {
		t.Fatal("workflow_dispatch has no inputs")
	}
	buildType, ok := inputs["buildType"].(map[string]any)
	if !ok {
		t.Fatal("workflow_dispatch has no buildType input")
	}
	raw, _ := buildType["options"].([]any)
	choices := make([]string, len(raw))
	for i, c := range raw {
		choices[i], _ = c.(string)
	}
	return choices
}

// HasDispatchInput reports whether the manual trigger declares the input
func HasDispatchInput(w *Workflow, input string) bool {
	dispatch, ok := w.On["workflow_dispatch"].(map[string]any)
	if !ok {
		return false
	}
	inputs, _ := dispatch["inputs"].(map[string]any)
	_, ok = inputs[input]
	return ok
}
