package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/log"
	"github.com/edelwud/expoci/pkg/options"
)

var (
	// Option override flags, shared by every command that resolves options
	storageFlag  string
	buildFlags   []string
	checkFlags   []string
	triggerFlags []string
	enableFlags  []string
	disableFlags []string
)

// addOptionFlags registers the flags that override the configured workflow options
func addOptionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&storageFlag, "storage", "", "storage target: "+joinValues(options.StorageTargets))
	flags.StringSliceVar(&buildFlags, "build", nil, "build types: "+joinValues(options.BuildKinds))
	flags.StringSliceVar(&checkFlags, "check", nil, "static checks ('none' for no checks): "+joinValues(options.Checks))
	flags.StringSliceVar(&triggerFlags, "trigger", nil, "triggers: "+joinValues(options.Triggers))
	flags.StringSliceVar(&enableFlags, "enable", nil, "advanced options to enable: "+joinValues(options.AdvancedFlags))
	flags.StringSliceVar(&disableFlags, "disable", nil, "advanced options to disable")
}

// resolveOptions applies flag overrides to the configured options through
// the guarded mutations. A refused override is an error.
func resolveOptions(cmd *cobra.Command) (options.BuildOptions, []validation.Notice, error) {
	flags := cmd.Flags()
	var mutations []validation.Mutation

	if flags.Changed("storage") {
		s, err := options.ParseStorageTarget(storageFlag)
		if err != nil {
			return options.BuildOptions{}, nil, err
		}
		mutations = append(mutations, validation.SetStorage(s))
	}

	if flags.Changed("build") {
		kinds, err := options.ParseBuildKinds(buildFlags)
		if err != nil {
			return options.BuildOptions{}, nil, err
		}
		mutations = append(mutations, validation.SetBuildKinds(kinds...))
	}

	if flags.Changed("check") {
		var checks []options.Check
		if !(len(checkFlags) == 1 && checkFlags[0] == "none") {
			var err error
			if checks, err = options.ParseChecks(checkFlags); err != nil {
				return options.BuildOptions{}, nil, err
			}
		}
		mutations = append(mutations, validation.SetChecks(checks...))
	}

	for _, f := range enableFlags {
		mutations = append(mutations, validation.SetAdvanced(options.AdvancedFlag(strings.TrimSpace(f)), true))
	}
	for _, f := range disableFlags {
		mutations = append(mutations, validation.SetAdvanced(options.AdvancedFlag(strings.TrimSpace(f)), false))
	}

	if flags.Changed("trigger") {
		triggers, err := options.ParseTriggers(triggerFlags)
		if err != nil {
			return options.BuildOptions{}, nil, err
		}
		mutations = append(mutations, validation.SetTriggers(triggers...))
	}

	o, notices, err := validation.ApplyAll(cfg.Workflow, mutations...)
	if err != nil {
		return o, nil, fmt.Errorf("cannot apply option overrides: %w", err)
	}

	o, repaired := validation.Repair(o)
	return o.Canonical(), append(notices, repaired...), nil
}

// logNotices reports automatic repairs
func logNotices(notices []validation.Notice) {
	for _, n := range notices {
		log.WithField("field", string(n.Field)).Warn(n.Message)
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
