package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edelwud/expoci/internal/graph"
	"github.com/edelwud/expoci/internal/pipeline/github"
	"github.com/edelwud/expoci/pkg/log"
)

var (
	graphFormat string
	graphOutput string
	showStats   bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Display the workflow job graph",
	Long: `Display the jobs of the generated workflow and the needs between them.

Formats:
  - dot: GraphViz DOT format (can be rendered with: dot -Tpng -o jobs.png)
  - list: Jobs in run order with their needs, dependents and upstream jobs
  - levels: Execution levels (jobs at the same level run in parallel)

Examples:
  # Output DOT format to file
  expoci graph --format dot -o jobs.dot

  # Show execution levels for a setup without checks
  expoci graph --format levels --check none

  # Show statistics
  expoci graph --stats`,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "dot", "output format: dot, list, levels")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "output file (default: stdout)")
	graphCmd.Flags().BoolVar(&showStats, "stats", false, "show graph statistics")
	addOptionFlags(graphCmd)
}

func runGraph(cmd *cobra.Command, _ []string) error {
	o, notices, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	logNotices(notices)

	log.Debug("building job graph")
	g := github.JobGraph(github.Generate(o))

	if showStats {
		showGraphStats(g)
		return nil
	}

	log.WithField("format", graphFormat).Debug("generating output")

	var output string
	switch graphFormat {
	case "dot":
		output = g.ToDOT()
	case "list":
		output, err = formatList(g)
	case "levels":
		output, err = formatLevels(g)
	default:
		return fmt.Errorf("unknown format: %s", graphFormat)
	}
	if err != nil {
		return err
	}

	if graphOutput != "" {
		if err := os.WriteFile(graphOutput, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		log.WithField("file", graphOutput).Info("graph written")
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

func showGraphStats(g *graph.JobGraph) {
	stats := g.GetStats()

	log.Info("job graph statistics")
	log.IncreasePadding()
	log.WithField("count", stats.TotalJobs).Info("total jobs")
	log.WithField("count", stats.TotalSteps).Info("total steps")
	log.WithField("count", stats.TotalEdges).Info("total needs")
	log.WithField("count", stats.RootJobs).Info("root jobs (no needs)")
	log.WithField("count", stats.LeafJobs).Info("leaf jobs (nothing needs them)")
	log.WithField("depth", stats.MaxDepth).Info("max depth")

	if stats.HasCycles {
		log.WithField("count", stats.CycleCount).Warn("cycles detected")
		log.IncreasePadding()
		for i, cycle := range g.DetectCycles() {
			log.WithField("cycle", i+1).WithField("path", strings.Join(cycle, " -> ")).Warn("cycle")
		}
		log.DecreasePadding()
	} else {
		log.Info("no cycles")
	}
	log.DecreasePadding()
}

// formatList renders jobs in topological order. Each line shows the job's
// needs (<-), the jobs that need it (->) and, when it differs from the
// direct needs, everything it transitively waits for.
func formatList(g *graph.JobGraph) (string, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, id := range sorted {
		fmt.Fprintf(&sb, "%s (%d steps)", id, g.Node(id).Steps)
		needs := g.Needs(id)
		if len(needs) > 0 {
			fmt.Fprintf(&sb, " <- %s", strings.Join(needs, ", "))
		}
		if neededBy := g.NeededBy(id); len(neededBy) > 0 {
			fmt.Fprintf(&sb, " -> %s", strings.Join(neededBy, ", "))
		}
		if upstream := g.Upstream(id); len(upstream) > len(needs) {
			fmt.Fprintf(&sb, " [upstream: %s]", strings.Join(upstream, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// formatLevels renders execution levels, one per line
func formatLevels(g *graph.JobGraph) (string, error) {
	levels, err := g.ExecutionLevels()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, level := range levels {
		fmt.Fprintf(&sb, "level %d: %s\n", i, strings.Join(level, ", "))
	}
	return sb.String(), nil
}
