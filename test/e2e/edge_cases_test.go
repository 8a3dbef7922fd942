package e2e

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edelwud/expoci/internal/batch"
	"github.com/edelwud/expoci/internal/filter"
	"github.com/edelwud/expoci/internal/pipeline/github"
	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/config"
	"github.com/edelwud/expoci/pkg/options"
)

// TestEdgeCase_ReleaseWithoutManual tests that an inconsistent config is
// reported and that reselecting the storage repairs it
func TestEdgeCase_ReleaseWithoutManual(t *testing.T) {
	cfg, err := config.LoadOrDefault(fixtureDir(t, "release-no-manual"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	result := validation.Validate(cfg.Workflow)
	if result.Valid() {
		t.Fatal("expected release storage without manual trigger to be invalid")
	}
	msgs := result.Messages()
	if len(msgs) != 1 || msgs[0] != validation.MsgReleaseNeedsManual {
		t.Errorf("unexpected violations: %v", msgs)
	}

	var verr *validation.Error
	if !errors.As(result.Err(), &verr) {
		t.Fatalf("expected *validation.Error, got %T", result.Err())
	}

	repaired, notices, err := validation.Apply(cfg.Workflow, validation.SetStorage(cfg.Workflow.Storage))
	if err != nil {
		t.Fatalf("SetStorage failed: %v", err)
	}
	if len(notices) != 1 {
		t.Errorf("expected one notice, got %v", notices)
	}
	if !validation.Validate(repaired).Valid() {
		t.Errorf("repaired options should be valid: %v", validation.Validate(repaired).Messages())
	}
}

// TestEdgeCase_RefusedOverride tests that removing a required trigger is refused
func TestEdgeCase_RefusedOverride(t *testing.T) {
	fixture := LoadFixture(t, "release")

	next, _, err := validation.ApplyAll(fixture.Options,
		validation.ToggleCheck(options.CheckESLint, true),
		validation.ToggleTrigger(options.TriggerManual, false),
	)
	if !errors.Is(err, validation.ErrRefused) {
		t.Fatalf("expected refusal, got %v", err)
	}
	if next.HasCheck(options.CheckESLint) {
		t.Error("a refused batch of mutations must leave the draft unchanged")
	}
}

// TestEdgeCase_InvalidOptionsStillRender tests that the generator renders
// anything it is given
func TestEdgeCase_InvalidOptionsStillRender(t *testing.T) {
	w := parse(t, render(t, options.BuildOptions{}))

	AssertTriggers(t, w)
	AssertJobCount(t, w, 2)
	AssertJobNeeds(t, w, github.DeployJobID, github.GateJobID)
	for _, name := range StepNames(w, github.DeployJobID) {
		if strings.HasPrefix(name, "Build ") {
			t.Errorf("unexpected build step %q", name)
		}
	}
}

// TestEdgeCase_Deterministic tests that rendering is repeatable
func TestEdgeCase_Deterministic(t *testing.T) {
	first := LoadFixture(t, "ios-publish")
	second := LoadFixture(t, "ios-publish")

	if string(first.YAML) != string(second.YAML) {
		t.Error("rendering the same options twice should give identical output")
	}
}

// TestEdgeCase_BatchFromConfig tests a batch run configured by a fixture
func TestEdgeCase_BatchFromConfig(t *testing.T) {
	fixture := LoadFixture(t, "remote-minimal")
	dir := filepath.Join(t.TempDir(), fixture.Config.Batch.Dir)

	driver := batch.NewDriver(github.NewGenerator(), batch.DefaultTable(), batch.Options{
		Dir:     dir,
		Limit:   fixture.Config.Batch.Limit,
		Workers: fixture.Config.Batch.Workers,
		Filter: &filter.GlobOptionsFilter{
			GlobFilter: filter.NewGlobFilter(fixture.Config.Batch.Exclude, fixture.Config.Batch.Include),
		},
	})

	result, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("batch run failed: %v", err)
	}
	if result.Written() != 10 {
		t.Fatalf("expected 10 workflows, got %d", result.Written())
	}
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", result.Failures)
	}

	manifest, err := batch.ReadManifest(dir)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	for i, entry := range manifest {
		if entry.Configuration.Index != i {
			t.Errorf("manifest entry %d has index %d", i, entry.Configuration.Index)
		}
		if !strings.HasPrefix(entry.Key, "google-drive/") {
			t.Errorf("unexpected combination %s", entry.Key)
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Filename))
		if err != nil {
			t.Fatalf("failed to read %s: %v", entry.Filename, err)
		}
		w := parse(t, data)
		AssertJobExists(t, w, github.DeployJobID)
		AssertStepExists(t, w, github.DeployJobID, "Setup rclone")
	}
}
