package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/edelwud/expoci/internal/pipeline/github"
	"github.com/edelwud/expoci/internal/ui"
	"github.com/edelwud/expoci/pkg/log"
	"github.com/edelwud/expoci/pkg/options"
)

var (
	secretNamesOnly bool
	secretsEnvFile  string
)

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "List the repository secrets the workflow needs",
	Long: `List the GitHub repository secrets referenced by the generated workflow.

Examples:
  # Show secrets with descriptions
  expoci secrets

  # Secrets for a Google Drive setup with store publishing
  expoci secrets --storage google-drive --enable publish_to_stores

  # Names only, one per line
  expoci secrets --names

  # Check a dotenv file for secrets that are not set yet
  expoci secrets --env-file .env.ci`,
	RunE: runSecrets,
}

func init() {
	rootCmd.AddCommand(secretsCmd)

	secretsCmd.Flags().BoolVar(&secretNamesOnly, "names", false, "print secret names only")
	secretsCmd.Flags().StringVar(&secretsEnvFile, "env-file", "", "report required secrets missing from this dotenv file")
	addOptionFlags(secretsCmd)
}

func runSecrets(cmd *cobra.Command, _ []string) error {
	o, notices, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	logNotices(notices)

	if secretsEnvFile != "" {
		return checkSecrets(cmd, o)
	}

	secrets := github.RequiredSecrets(o)
	out := cmd.OutOrStdout()

	if secretNamesOnly {
		for _, s := range secrets {
			fmt.Fprintln(out, s.Name)
		}
		return nil
	}

	rows := make([]ui.Row, 0, len(secrets))
	for _, s := range secrets {
		rows = append(rows, ui.Row{Key: s.Name, Value: s.Description})
	}
	ui.Fprint(out, ui.List("Required repository secrets", rows))
	return nil
}

// checkSecrets lists the required secrets a dotenv file does not define
func checkSecrets(cmd *cobra.Command, o options.BuildOptions) error {
	defined, err := godotenv.Read(secretsEnvFile)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	missing := github.MissingSecrets(o, defined)
	if len(missing) == 0 {
		log.WithField("file", secretsEnvFile).Info("all required secrets are set")
		return nil
	}

	rows := make([]ui.Row, 0, len(missing))
	for _, s := range missing {
		rows = append(rows, ui.Row{Key: s.Name, Value: s.Description})
	}
	ui.Fprint(cmd.OutOrStdout(), ui.List("Missing repository secrets", rows))
	return fmt.Errorf("%d required secret(s) missing from %s", len(missing), secretsEnvFile)
}
