package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edelwud/expoci/internal/prompt"
	"github.com/edelwud/expoci/pkg/config"
	"github.com/edelwud/expoci/pkg/log"
)

var (
	forceInit       bool
	interactiveInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize expoci configuration",
	Long: `Create a default .expoci.yaml configuration file in the current directory.

The defaults are GitHub Artifacts storage, every build type, check and
trigger, and build caching. Use --interactive to pick the options in a form instead.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&interactiveInit, "interactive", "i", false, "choose options in an interactive form")
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := filepath.Join(workDir, config.ConfigFiles[0])

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !forceInit {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
	}

	log.Debug("creating default configuration")
	newCfg := config.DefaultConfig()

	workflow, notices, err := prompt.Collect(newCfg.Workflow, !interactiveInit, prompt.Form)
	if err != nil {
		return err
	}
	logNotices(notices)
	newCfg.Workflow = workflow

	if err := newCfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	log.WithField("file", configPath).Info("configuration created")
	log.Info("you can now customize the configuration and run:")
	log.IncreasePadding()
	log.Info("expoci generate")
	log.DecreasePadding()

	return nil
}
