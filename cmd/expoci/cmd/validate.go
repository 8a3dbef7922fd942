package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edelwud/expoci/internal/pipeline/github"
	"github.com/edelwud/expoci/internal/ui"
	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/log"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate workflow options",
	Long: `Validate the configured workflow options and the job graph they produce.

This command will:
  - Apply flag overrides through the option rules
  - Check that build types and triggers are selected
  - Check that GitHub Releases, iOS and publishing have the manual trigger
  - Check that the generated job graph has a valid execution order
  - Report any issues found`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addOptionFlags(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	hasErrors := false

	log.Info("validating workflow options")

	// 1. Resolve options
	o, notices, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	logNotices(notices)

	// 2. Option rules
	result := validation.Validate(o)
	ui.Fprint(cmd.OutOrStdout(), ui.Report(result))
	if !result.Valid() {
		hasErrors = true
	}

	// 3. Job graph
	g := github.JobGraph(github.Generate(o))
	graphErr := log.Section("checking job graph", func() error {
		levels, err := g.ExecutionLevels()
		if err != nil {
			return err
		}
		stats := g.GetStats()
		log.WithField("jobs", stats.TotalJobs).WithField("steps", stats.TotalSteps).Info("jobs")
		log.WithField("levels", len(levels)).Debug("execution levels determined")
		return nil
	})
	if graphErr != nil {
		hasErrors = true
		log.WithError(graphErr).Error("cannot determine execution order")
	}

	// 4. Summary
	if hasErrors {
		log.Error("validation FAILED - please fix the issues above")
		return fmt.Errorf("validation failed")
	}

	log.Info("validation PASSED")
	return nil
}
