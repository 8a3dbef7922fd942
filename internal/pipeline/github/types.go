// Package github provides GitHub Actions workflow generation
package github

import (
	"bytes"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Workflow represents a GitHub Actions workflow document
type Workflow struct {
	Name string   `yaml:"name"`
	On   Triggers `yaml:"on"`
	Env  Map      `yaml:"env,omitempty"`
	Jobs Jobs     `yaml:"jobs"`
}

// Triggers holds the event clauses of a workflow
type Triggers struct {
	Push             *PushTrigger        `yaml:"push,omitempty"`
	PullRequest      *PullRequestTrigger `yaml:"pull_request,omitempty"`
	WorkflowDispatch *Dispatch           `yaml:"workflow_dispatch,omitempty"`
}

// PushTrigger runs the workflow on pushes to the listed branches
type PushTrigger struct {
	Branches    Flow     `yaml:"branches"`
	PathsIgnore []string `yaml:"paths-ignore,omitempty"`
}

// PullRequestTrigger runs the workflow for pull requests against the listed branches
type PullRequestTrigger struct {
	Branches Flow `yaml:"branches"`
}

// Dispatch is the manual trigger with its inputs
type Dispatch struct {
	Inputs Map `yaml:"inputs"`
}

// Input is a workflow_dispatch input
type Input struct {
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Default     string   `yaml:"default,omitempty"`
	Options     []string `yaml:"options,omitempty"`
}

// Job represents a workflow job
type Job struct {
	Needs    string    `yaml:"needs,omitempty"`
	If       string    `yaml:"if,omitempty"`
	Strategy *Strategy `yaml:"strategy,omitempty"`
	RunsOn   string    `yaml:"runs-on"`
	Steps    []Step    `yaml:"steps"`
}

// Strategy holds a job's build matrix
type Strategy struct {
	Matrix Matrix `yaml:"matrix"`
}

// Matrix lists explicit matrix entries
type Matrix struct {
	Include []MatrixEntry `yaml:"include"`
}

// MatrixEntry is one platform leg of the build matrix
type MatrixEntry struct {
	Platform string `yaml:"platform"`
	Runner   string `yaml:"runner"`
}

// Step represents a job step
type Step struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id,omitempty"`
	If   string `yaml:"if,omitempty"`
	Uses string `yaml:"uses,omitempty"`
	With Map    `yaml:"with,omitempty"`
	Run  Script `yaml:"run,omitempty"`
	Env  Map    `yaml:"env,omitempty"`
}

// NamedJob pairs a job with its id
type NamedJob struct {
	ID  string
	Job *Job
}

// Jobs is an ordered set of jobs
type Jobs []NamedJob

// Get returns the job with the given id, or nil
func (j Jobs) Get(id string) *Job {
	for _, nj := range j {
		if nj.ID == id {
			return nj.Job
		}
	}
	return nil
}

// MarshalYAML renders jobs as a mapping in insertion order
func (j Jobs) MarshalYAML() (interface{}, error) {
	m := make(Map, len(j))
	for i, nj := range j {
		m[i] = Entry{Key: nj.ID, Value: nj.Job}
	}
	return m.MarshalYAML()
}

// Entry is a key/value pair of an ordered mapping
type Entry struct {
	Key   string
	Value any
}

// Map is a mapping that keeps insertion order when rendered
type Map []Entry

// Get returns the value stored under key
func (m Map) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// MarshalYAML implements custom marshaling to keep key order
func (m Map) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		key := &yaml.Node{}
		key.SetString(e.Key)

		value := &yaml.Node{}
		if err := value.Encode(e.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// Flow is a string sequence rendered inline, e.g. [main, master]
type Flow []string

// MarshalYAML implements custom marshaling to output flow style
func (f Flow) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, s := range f {
		item := &yaml.Node{}
		item.SetString(s)
		node.Content = append(node.Content, item)
	}
	return node, nil
}

// Script is a shell snippet; multi-line scripts render as literal blocks
type Script string

// MarshalYAML implements custom marshaling to output literal blocks
func (s Script) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{}
	node.SetString(string(s))
	if strings.Contains(string(s), "\n") {
		node.Style = yaml.LiteralStyle
	}
	return node, nil
}

// lines joins script lines into a Script ending with a newline
func lines(l ...string) Script {
	return Script(strings.Join(l, "\n") + "\n")
}

// ToYAML converts the workflow to YAML
func (w *Workflow) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(w); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
