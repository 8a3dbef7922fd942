package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edelwud/expoci/internal/pipeline/github"
	"github.com/edelwud/expoci/internal/prompt"
	"github.com/edelwud/expoci/internal/ui"
	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/log"
	"github.com/edelwud/expoci/pkg/options"
)

// generatedHeader is prepended to every written workflow
const generatedHeader = `# Generated by expoci
# DO NOT EDIT - this file is auto-generated
# https://github.com/edelwud/expoci

`

var (
	// Generate command flags
	outputFile  string
	dryRun      bool
	interactive bool
	noHeader    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the GitHub Actions workflow",
	Long: `Generate a GitHub Actions workflow from the configured options.

Options come from .expoci.yaml and can be overridden with flags. Overrides
follow the same rules as the interactive form: choosing GitHub Releases,
iOS or publishing adds the manual trigger, component and hook tests enable
unit tests, and removing the manual trigger while it is required fails.

Examples:
  # Generate into .github/workflows/ci.yml
  expoci generate

  # Print to stdout
  expoci generate -o -

  # Release builds to GitHub Releases
  expoci generate --storage github-release --build prod-apk,prod-aab

  # Add iOS builds and notifications
  expoci generate --enable ios_support,notifications

  # Pick every option interactively
  expoci generate --interactive

  # Show the jobs without writing anything
  expoci generate --dry-run`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file, '-' for stdout (default: output.path from config)")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without creating output")
	generateCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose options in an interactive form")
	generateCmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the generated-file header")
	addOptionFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	// 1. Resolve options
	o, notices, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	if interactive {
		var more []validation.Notice
		o, more, err = prompt.Collect(o, false, prompt.Form)
		if err != nil {
			return err
		}
		notices = append(notices, more...)
	}
	logNotices(notices)

	// 2. Validate
	result := validation.Validate(o)
	if !result.Valid() {
		ui.Fprint(os.Stderr, ui.Report(result))
		return result.Err()
	}
	log.WithField("options", o.Key()).Debug("options resolved")
	if log.IsDebug() {
		for _, s := range github.RequiredSecrets(o) {
			log.WithField("secret", s.Name).Debug("required secret")
		}
	}

	generator := github.NewGenerator()

	// 3. Dry run
	if dryRun {
		summary, dryRunErr := generator.DryRun(o)
		if dryRunErr != nil {
			return fmt.Errorf("dry run failed: %w", dryRunErr)
		}

		log.Info("dry run results")
		log.IncreasePadding()
		log.WithField("name", summary.Name).Info("workflow")
		log.WithField("platforms", strings.Join(summary.Platforms, ", ")).Info("platforms")
		log.WithField("jobs", len(summary.Jobs)).WithField("steps", summary.TotalSteps()).Info("jobs")
		if len(summary.DispatchChoices) > 0 {
			log.WithField("choices", strings.Join(summary.DispatchChoices, ", ")).Info("manual dispatch")
		}
		log.WithField("count", len(summary.Secrets)).Info("required secrets")
		log.DecreasePadding()

		log.Info("execution order")
		log.IncreasePadding()
		for i, level := range summary.ExecutionOrder {
			log.WithField("level", i).WithField("jobs", strings.Join(level, ", ")).Info("level")
		}
		log.DecreasePadding()
		return nil
	}

	// 4. Generate
	content, err := renderWorkflow(generator, o, !noHeader && cfg.Output.Header)
	if err != nil {
		return err
	}

	// 5. Output
	target := outputFile
	if target == "" {
		target = cfg.Output.Path
	}
	if target == "-" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(workDir, target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(target, content, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	log.WithField("file", target).Info("workflow written")

	return nil
}

// renderWorkflow generates the workflow YAML, optionally with the header comment
func renderWorkflow(generator *github.Generator, o options.BuildOptions, header bool) ([]byte, error) {
	workflow, err := generator.Generate(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate workflow: %w", err)
	}

	content, err := workflow.ToYAML()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workflow: %w", err)
	}

	if header {
		content = append([]byte(generatedHeader), content...)
	}
	return content, nil
}
