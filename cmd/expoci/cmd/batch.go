package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edelwud/expoci/internal/batch"
	"github.com/edelwud/expoci/internal/filter"
	"github.com/edelwud/expoci/internal/pipeline/github"
	"github.com/edelwud/expoci/internal/ui"
	"github.com/edelwud/expoci/pkg/log"
	"github.com/edelwud/expoci/pkg/options"
)

var (
	// Batch command flags
	batchDir       string
	batchLimit     int
	batchWorkers   int
	batchValidOnly bool
	batchIncludes  []string
	batchExcludes  []string
	batchStorages  []string
	batchFeatures  []string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate workflows for every option combination",
	Long: `Generate one workflow per combination of a representative option table
(storage x build types x checks x triggers x advanced presets) and write a
workflow-manifest.json describing them. Used to check that every
combination renders.

Combinations are selected by key, e.g.
  zoho-drive/dev+prod-apk/typescript/push-main+manual/ios_support+caching

Examples:
  # Generate everything into ./examples
  expoci batch

  # First 100 combinations only
  expoci batch --limit 100

  # Skip custom storage and combinations the validator rejects
  expoci batch --exclude "custom/**" --valid-only

  # Only iOS combinations on Zoho Drive
  expoci batch --storage zoho-drive --feature ios_support`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchDir, "out", "o", "", "output directory (default: batch.dir from config)")
	batchCmd.Flags().IntVarP(&batchLimit, "limit", "l", 0, "stop after this many combinations")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel writers (default: batch.workers from config)")
	batchCmd.Flags().BoolVar(&batchValidOnly, "valid-only", false, "skip combinations that fail validation")
	batchCmd.Flags().StringArrayVarP(&batchIncludes, "include", "i", nil, "glob patterns to include combinations")
	batchCmd.Flags().StringArrayVarP(&batchExcludes, "exclude", "x", nil, "glob patterns to exclude combinations")
	batchCmd.Flags().StringSliceVar(&batchStorages, "storage", nil, "only these storage targets")
	batchCmd.Flags().StringSliceVar(&batchFeatures, "feature", nil, "only combinations with these advanced options enabled")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	opts := batch.Options{
		Dir:       cfg.Batch.Dir,
		Limit:     cfg.Batch.Limit,
		Workers:   cfg.Batch.Workers,
		ValidOnly: cfg.Batch.ValidOnly || batchValidOnly,
	}
	if batchDir != "" {
		opts.Dir = batchDir
	}
	if !filepath.IsAbs(opts.Dir) {
		opts.Dir = filepath.Join(workDir, opts.Dir)
	}
	if cmd.Flags().Changed("limit") {
		opts.Limit = batchLimit
	}
	if batchWorkers > 0 {
		opts.Workers = batchWorkers
	}

	// Combine config patterns with command line patterns
	allExcludes := append([]string{}, cfg.Batch.Exclude...)
	allExcludes = append(allExcludes, batchExcludes...)
	allIncludes := append([]string{}, cfg.Batch.Include...)
	allIncludes = append(allIncludes, batchIncludes...)

	filters := []filter.OptionsFilter{
		&filter.GlobOptionsFilter{GlobFilter: filter.NewGlobFilter(allExcludes, allIncludes)},
	}
	if len(batchStorages) > 0 {
		storages := make([]options.StorageTarget, 0, len(batchStorages))
		for _, s := range batchStorages {
			target, err := options.ParseStorageTarget(s)
			if err != nil {
				return err
			}
			storages = append(storages, target)
		}
		filters = append(filters, &filter.StorageFilter{Storages: storages})
	}
	if len(batchFeatures) > 0 {
		flags := make([]options.AdvancedFlag, 0, len(batchFeatures))
		for _, f := range batchFeatures {
			if _, err := (options.Advanced{}).With(options.AdvancedFlag(f), true); err != nil {
				return err
			}
			flags = append(flags, options.AdvancedFlag(f))
		}
		filters = append(filters, &filter.FeatureFilter{Flags: flags})
	}
	opts.Filter = filter.NewCompositeFilter(filters...)

	table := batch.DefaultTable()
	log.WithField("combinations", table.Size()).WithField("dir", opts.Dir).Info("generating workflows")

	result, err := batch.NewDriver(github.NewGenerator(), table, opts).Run(cmd.Context())
	if err != nil {
		return err
	}

	ui.Fprint(cmd.OutOrStdout(), ui.BatchSummary(opts.Dir, result)+"\n")
	if len(result.Failures) > 0 {
		log.WithField("count", len(result.Failures)).Warn("some combinations failed")
	}
	return nil
}
