// Package graph provides job dependency graph construction and analysis
package graph

import (
	"fmt"
	"sort"
	"strings"
)

// JobGraph represents the needs relationships between workflow jobs
type JobGraph struct {
	// order keeps jobs in the order they were added
	order []string
	nodes map[string]*Node
	// Edges represent needs (from -> to means "from needs to")
	edges map[string][]string
	// Reverse edges (to -> from means "to is needed by from")
	reverseEdges map[string][]string
}

// Node represents a job in the graph
type Node struct {
	ID string
	// Steps is the number of steps the job runs
	Steps int
	// InDegree is the number of jobs this job needs
	InDegree int
	// OutDegree is the number of jobs that need this one
	OutDegree int
}

// NewJobGraph creates a new empty job graph
func NewJobGraph() *JobGraph {
	return &JobGraph{
		nodes:        make(map[string]*Node),
		edges:        make(map[string][]string),
		reverseEdges: make(map[string][]string),
	}
}

// AddJob adds a job to the graph
func (g *JobGraph) AddJob(id string, steps int) {
	if _, exists := g.nodes[id]; exists {
		return
	}
	g.nodes[id] = &Node{ID: id, Steps: steps}
	g.order = append(g.order, id)
}

// AddNeed records that job needs dependency. Unknown jobs are ignored.
func (g *JobGraph) AddNeed(job, dependency string) {
	if _, exists := g.nodes[job]; !exists {
		return
	}
	if _, exists := g.nodes[dependency]; !exists {
		return
	}

	for _, existing := range g.edges[job] {
		if existing == dependency {
			return
		}
	}

	g.edges[job] = append(g.edges[job], dependency)
	g.reverseEdges[dependency] = append(g.reverseEdges[dependency], job)

	g.nodes[job].InDegree++
	g.nodes[dependency].OutDegree++
}

// Jobs returns job ids in insertion order
func (g *JobGraph) Jobs() []string {
	return append([]string(nil), g.order...)
}

// Node returns a job by id
func (g *JobGraph) Node(id string) *Node {
	return g.nodes[id]
}

// Needs returns the direct dependencies of a job
func (g *JobGraph) Needs(id string) []string {
	return g.edges[id]
}

// NeededBy returns the jobs that directly need the given job
func (g *JobGraph) NeededBy(id string) []string {
	return g.reverseEdges[id]
}

// Upstream returns every job the given job waits for, transitively
func (g *JobGraph) Upstream(id string) []string {
	visited := make(map[string]bool)
	var result []string

	var visit func(id string)
	visit = func(id string) {
		for _, dep := range g.edges[id] {
			if !visited[dep] {
				visited[dep] = true
				result = append(result, dep)
				visit(dep)
			}
		}
	}

	visit(id)
	return result
}

// TopologicalSort returns jobs in run order (needs first).
// Returns an error if there's a cycle.
func (g *JobGraph) TopologicalSort() ([]string, error) {
	// Kahn's algorithm
	inDegree := make(map[string]int, len(g.nodes))
	var queue []string
	for _, id := range g.order {
		inDegree[id] = len(g.edges[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		job := queue[0]
		queue = queue[1:]
		result = append(result, job)

		for _, dep := range g.reverseEdges[job] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("cycle detected in job graph")
	}

	return result, nil
}

// ExecutionLevels returns jobs grouped by level.
// Jobs at the same level can run in parallel.
func (g *JobGraph) ExecutionLevels() ([][]string, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	if len(sorted) == 0 {
		return nil, nil
	}

	// Longest path from any root
	levels := make(map[string]int, len(sorted))
	maxLevel := 0
	for _, id := range sorted {
		level := 0
		for _, dep := range g.edges[id] {
			if levels[dep]+1 > level {
				level = levels[dep] + 1
			}
		}
		levels[id] = level
		if level > maxLevel {
			maxLevel = level
		}
	}

	result := make([][]string, maxLevel+1)
	for _, id := range sorted {
		result[levels[id]] = append(result[levels[id]], id)
	}
	for i := range result {
		sort.Strings(result[i])
	}

	return result, nil
}

// DetectCycles returns all cycles in the graph
func (g *JobGraph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make([]string, 0)

	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, next := range g.edges[id] {
			if !visited[next] {
				dfs(next)
				continue
			}
			if !recStack[next] {
				continue
			}
			for i, n := range path {
				if n == next {
					cycles = append(cycles, append([]string(nil), path[i:]...))
					break
				}
			}
		}

		path = path[:len(path)-1]
		recStack[id] = false
	}

	for _, id := range g.order {
		if !visited[id] {
			dfs(id)
		}
	}

	return cycles
}

// ToDOT exports the graph in DOT format for visualization
func (g *JobGraph) ToDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph jobs {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n\n")

	for _, id := range g.order {
		fmt.Fprintf(&sb, "  \"%s\" [label=\"%s\\n%d steps\"];\n", id, id, g.nodes[id].Steps)
	}

	sb.WriteString("\n")

	// Edges point in run order: dependency -> job
	for _, id := range g.order {
		for _, dep := range g.edges[id] {
			fmt.Fprintf(&sb, "  \"%s\" -> \"%s\";\n", dep, id)
		}
	}

	sb.WriteString("}\n")

	return sb.String()
}

// Stats holds statistics about the graph
type Stats struct {
	TotalJobs  int
	TotalSteps int
	TotalEdges int
	RootJobs   int // Jobs that need nothing
	LeafJobs   int // Jobs nothing needs
	MaxDepth   int // Longest needs chain
	HasCycles  bool
	CycleCount int
}

// GetStats returns statistics about the job graph
func (g *JobGraph) GetStats() Stats {
	stats := Stats{TotalJobs: len(g.nodes)}

	for _, id := range g.order {
		stats.TotalSteps += g.nodes[id].Steps
		stats.TotalEdges += len(g.edges[id])
		if len(g.edges[id]) == 0 {
			stats.RootJobs++
		}
		if len(g.reverseEdges[id]) == 0 {
			stats.LeafJobs++
		}
	}

	if levels, err := g.ExecutionLevels(); err == nil && len(levels) > 0 {
		stats.MaxDepth = len(levels) - 1
	}

	cycles := g.DetectCycles()
	stats.HasCycles = len(cycles) > 0
	stats.CycleCount = len(cycles)

	return stats
}
