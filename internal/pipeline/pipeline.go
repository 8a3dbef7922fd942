// Package pipeline defines what every CI pipeline generator produces
package pipeline

import "github.com/edelwud/expoci/pkg/options"

// Summary describes a pipeline without rendering it
type Summary struct {
	Name            string       `json:"name"`
	Jobs            []JobSummary `json:"jobs"`
	ExecutionOrder  [][]string   `json:"execution_order"`
	DispatchChoices []string     `json:"dispatch_choices,omitempty"`
	Platforms       []string     `json:"platforms"`
	Artifacts       []string     `json:"artifacts"`
	Secrets         []string     `json:"secrets"`
}

// JobSummary describes one job of a pipeline
type JobSummary struct {
	ID     string   `json:"id"`
	Needs  []string `json:"needs,omitempty"`
	Steps  int      `json:"steps"`
	Matrix []string `json:"matrix,omitempty"`
}

// TotalSteps returns the number of steps across all jobs
func (s *Summary) TotalSteps() int {
	total := 0
	for _, j := range s.Jobs {
		total += j.Steps
	}
	return total
}

// GeneratedPipeline represents a generated CI pipeline
type GeneratedPipeline interface {
	ToYAML() ([]byte, error)
}

// Generator defines the interface for CI pipeline generators
type Generator interface {
	Generate(o options.BuildOptions) (GeneratedPipeline, error)
	DryRun(o options.BuildOptions) (*Summary, error)
}
