package github

import (
	"github.com/edelwud/expoci/pkg/options"
)

// checkRuns maps each static check to its yarn script
var checkRuns = []struct {
	check options.Check
	name  string
	run   Script
}{
	{options.CheckTypeScript, "Run TypeScript check", "yarn tsc"},
	{options.CheckESLint, "Run ESLint", "yarn lint"},
	{options.CheckPrettier, "Run Prettier check", "yarn format:check"},
}

// testRuns maps each test flag to its yarn script
var testRuns = []struct {
	enabled func(options.Advanced) bool
	name    string
	run     Script
}{
	{func(a options.Advanced) bool { return a.UnitTests }, "Run unit tests", "yarn test"},
	{func(a options.Advanced) bool { return a.ComponentTests }, "Run component tests", "yarn test:rntl"},
	{func(a options.Advanced) bool { return a.HookTests }, "Run hook tests", "yarn test:hooks"},
}

func gateJob(_ options.BuildOptions) *NamedJob {
	return &NamedJob{
		ID: GateJobID,
		Job: &Job{
			If:     "!contains(github.event.head_commit.message, '[skip ci]')",
			RunsOn: DefaultRunner,
			Steps: []Step{{
				Name: "Skip CI check",
				Run:  `echo "Proceeding with workflow"`,
			}},
		},
	}
}

func verifyJob(o options.BuildOptions) *NamedJob {
	if !o.NeedsVerify() {
		return nil
	}

	steps := []Step{checkoutStep(), setupNodeStep()}
	steps = append(steps, yarnCacheSteps(o)...)
	steps = append(steps, Step{Name: "Install dependencies", Run: "yarn install"})

	for _, c := range checkRuns {
		if o.HasCheck(c.check) {
			steps = append(steps, Step{Name: c.name, Run: c.run})
		}
	}
	for _, t := range testRuns {
		if t.enabled(o.Advanced) {
			steps = append(steps, Step{Name: t.name, Run: t.run})
		}
	}
	if o.Advanced.Notifications {
		steps = append(steps, notifyStep("Notify test results", "Test Results", "Tests", "passed"))
	}

	return &NamedJob{
		ID: VerifyJobID,
		Job: &Job{
			Needs:  GateJobID,
			RunsOn: DefaultRunner,
			Steps:  steps,
		},
	}
}
