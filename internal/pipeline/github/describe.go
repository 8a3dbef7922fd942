package github

import (
	"fmt"

	"github.com/edelwud/expoci/internal/graph"
	"github.com/edelwud/expoci/internal/pipeline"
	"github.com/edelwud/expoci/pkg/options"
)

// JobGraph builds the needs graph of a generated workflow
func JobGraph(w *Workflow) *graph.JobGraph {
	g := graph.NewJobGraph()
	for _, nj := range w.Jobs {
		g.AddJob(nj.ID, len(nj.Job.Steps))
	}
	for _, nj := range w.Jobs {
		if nj.Job.Needs != "" {
			g.AddNeed(nj.ID, nj.Job.Needs)
		}
	}
	return g
}

// Describe summarizes the workflow generated for o without rendering YAML
func Describe(o options.BuildOptions) (*pipeline.Summary, error) {
	w := Generate(o)

	levels, err := JobGraph(w).ExecutionLevels()
	if err != nil {
		return nil, fmt.Errorf("failed to calculate execution levels: %w", err)
	}

	summary := &pipeline.Summary{
		Name:           w.Name,
		ExecutionOrder: levels,
		Platforms:      []string{PlatformAndroid},
		Artifacts:      ArtifactPaths(o),
	}

	for _, nj := range w.Jobs {
		js := pipeline.JobSummary{ID: nj.ID, Steps: len(nj.Job.Steps)}
		if nj.Job.Needs != "" {
			js.Needs = []string{nj.Job.Needs}
		}
		if nj.Job.Strategy != nil {
			for _, e := range nj.Job.Strategy.Matrix.Include {
				js.Matrix = append(js.Matrix, e.Platform)
			}
		}
		summary.Jobs = append(summary.Jobs, js)
	}

	if o.Advanced.IOSSupport {
		summary.Platforms = append(summary.Platforms, PlatformIOS)
	}
	if w.On.WorkflowDispatch != nil {
		summary.DispatchChoices = DispatchChoices(o)
	}
	for _, s := range RequiredSecrets(o) {
		summary.Secrets = append(summary.Secrets, s.Name)
	}

	return summary, nil
}
