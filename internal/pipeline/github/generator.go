package github

import (
	"github.com/edelwud/expoci/internal/pipeline"
	"github.com/edelwud/expoci/pkg/options"
)

const (
	// WorkflowName is the name of every generated workflow
	WorkflowName = "React Native CI/CD"
	// GateJobID is the job that skips runs marked [skip ci]
	GateJobID = "gate"
	// VerifyJobID is the job running static checks and tests
	VerifyJobID = "verify"
	// DeployJobID is the build job for every storage target but releases
	DeployJobID = "build-and-deploy"
	// ReleaseJobID is the build job when publishing to GitHub Releases
	ReleaseJobID = "build-and-release"
	// DefaultRunner runs every job and the Android matrix leg
	DefaultRunner = "ubuntu-latest"
	// MacRunner runs the iOS matrix leg
	MacRunner = "macos-latest"
	// NodeVersion is the Node.js version installed by setup-node
	NodeVersion = "20"
	// ArtifactName is the name of the archived build outputs
	ArtifactName = "app-builds"
	// ArtifactRetentionDays is how long archived outputs are kept
	ArtifactRetentionDays = 7
	// ChoiceAll is the dispatch choice that runs everything
	ChoiceAll = "all"
	// ChoicePublishExpo is the dispatch choice that publishes an update
	ChoicePublishExpo = "publish-expo"
	// ChoicePublishStores is the dispatch choice that submits to the stores
	ChoicePublishStores = "publish-stores"
	// legacyNodeOptions is exported to every step through the env section
	legacyNodeOptions = "--openssl-legacy-provider"
)

// Branches that count as the main line
var mainBranches = Flow{"main", "master"}

// Generator generates GitHub Actions workflows
type Generator struct{}

// NewGenerator creates a new workflow generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate creates a workflow for the given options
func (g *Generator) Generate(o options.BuildOptions) (pipeline.GeneratedPipeline, error) {
	return Generate(o), nil
}

// DryRun describes the workflow without rendering it
func (g *Generator) DryRun(o options.BuildOptions) (*pipeline.Summary, error) {
	return Describe(o)
}

// jobBuilder returns a job, or nil when the job is not part of the workflow
type jobBuilder func(o options.BuildOptions) *NamedJob

// jobBuilders produce the job graph in document order
var jobBuilders = []jobBuilder{
	gateJob,
	verifyJob,
	buildJob,
}

// Generate builds the workflow tree for o. It accepts any options value,
// valid or not; unset fields mean the feature is absent.
func Generate(o options.BuildOptions) *Workflow {
	w := &Workflow{
		Name: WorkflowName,
		On:   buildTriggers(o),
		Env:  buildEnv(o),
	}
	for _, build := range jobBuilders {
		if job := build(o); job != nil {
			w.Jobs = append(w.Jobs, *job)
		}
	}
	return w
}

// Render generates the workflow for o and renders it to YAML
func Render(o options.BuildOptions) ([]byte, error) {
	return Generate(o).ToYAML()
}

// BuildJobID returns the id of the build job for o
func BuildJobID(o options.BuildOptions) string {
	if o.Storage == options.StorageGitHubRelease {
		return ReleaseJobID
	}
	return DeployJobID
}

func buildTriggers(o options.BuildOptions) Triggers {
	var t Triggers
	if o.HasTrigger(options.TriggerPush) {
		t.Push = &PushTrigger{
			Branches:    mainBranches,
			PathsIgnore: []string{"**.md", "LICENSE", "docs/**"},
		}
	}
	if o.HasTrigger(options.TriggerPullRequest) {
		t.PullRequest = &PullRequestTrigger{Branches: mainBranches}
	}
	if o.HasTrigger(options.TriggerManual) {
		t.WorkflowDispatch = buildDispatch(o)
	}
	return t
}

func buildDispatch(o options.BuildOptions) *Dispatch {
	inputs := Map{{
		Key: "buildType",
		Value: Input{
			Type:        "choice",
			Description: "Build type to run",
			Options:     DispatchChoices(o),
		},
	}}
	if o.Advanced.IOSSupport {
		inputs = append(inputs, Entry{
			Key: "platform",
			Value: Input{
				Type:        "choice",
				Description: "Platform to build",
				Default:     ChoiceAll,
				Options:     []string{PlatformAndroid, PlatformIOS, ChoiceAll},
			},
		})
	}
	return &Dispatch{Inputs: inputs}
}

// DispatchChoices returns the buildType options offered by the manual
// trigger: each build output, the publishing actions, then "all"
func DispatchChoices(o options.BuildOptions) []string {
	var choices []string
	for _, a := range Artifacts(o) {
		choices = append(choices, a.Choice)
	}
	if o.Advanced.PublishToExpo {
		choices = append(choices, ChoicePublishExpo)
	}
	if o.Advanced.PublishToStores {
		choices = append(choices, ChoicePublishStores)
	}
	return append(choices, ChoiceAll)
}

func buildEnv(o options.BuildOptions) Map {
	env := secretEnv(RequiredSecrets(o))
	return append(env, Entry{Key: "NODE_OPTIONS", Value: legacyNodeOptions})
}
