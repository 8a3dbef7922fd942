package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edelwud/expoci/pkg/config"
	"github.com/edelwud/expoci/pkg/log"
)

var (
	// Global flags
	cfgFile  string
	workDir  string
	verbose  bool
	logLevel string

	// Version info
	versionInfo struct {
		Version string
		Commit  string
		Date    string
	}

	// Global config
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "expoci",
	Short: "Generate GitHub Actions workflows for React Native and Expo apps",
	Long: `expoci generates a GitHub Actions CI/CD workflow for React Native and
Expo projects from a small set of options: where builds are stored, which
builds to produce, which checks and tests to run and what triggers the
workflow.

Features:
  - EAS builds for Android and, optionally, iOS in a platform matrix
  - Uploads to GitHub Releases, Zoho Drive, Google Drive or any rclone remote
  - Expo and app store publishing behind manual dispatch choices
  - Guarded option rules that keep the workflow consistent
  - Batch generation of every option combination for regression checks`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		log.Init()
		log.ResetPadding()
		if logLevel != "" {
			if err := log.SetLevelFromString(logLevel); err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
		}
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		// Skip config loading for version command
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadOrDefault(workDir)
		}

		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return cfg.Validate()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets version information
func SetVersion(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: .expoci.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "d", cwd, "working directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}
