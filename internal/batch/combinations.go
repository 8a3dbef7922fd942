// Package batch generates workflows for a table of option combinations,
// used for regression coverage of the generator
package batch

import (
	"fmt"
	"strings"

	"github.com/edelwud/expoci/pkg/options"
)

// Preset is a named set of advanced flags
type Preset struct {
	Name     string
	Advanced options.Advanced
}

// Table lists the values crossed to produce combinations
type Table struct {
	Storages []options.StorageTarget
	Builds   [][]options.BuildKind
	Checks   [][]options.Check
	Triggers [][]options.Trigger
	Presets  []Preset
}

// DefaultTable returns the representative combination table:
// 4 storages x 5 build sets x 5 check sets x 5 trigger sets x 4 presets.
func DefaultTable() Table {
	return Table{
		Storages: []options.StorageTarget{
			options.StorageGitHubRelease,
			options.StorageZohoDrive,
			options.StorageGoogleDrive,
			options.StorageCustom,
		},
		Builds: [][]options.BuildKind{
			{options.BuildDev},
			{options.BuildProdAPK},
			{options.BuildProdAAB},
			{options.BuildDev, options.BuildProdAPK},
			{options.BuildDev, options.BuildProdAPK, options.BuildProdAAB},
		},
		Checks: [][]options.Check{
			{options.CheckTypeScript},
			{options.CheckESLint},
			{options.CheckPrettier},
			{options.CheckTypeScript, options.CheckESLint},
			{options.CheckTypeScript, options.CheckESLint, options.CheckPrettier},
		},
		Triggers: [][]options.Trigger{
			{options.TriggerPush},
			{options.TriggerPullRequest},
			{options.TriggerManual},
			{options.TriggerPush, options.TriggerPullRequest},
			{options.TriggerPush, options.TriggerPullRequest, options.TriggerManual},
		},
		Presets: []Preset{
			{Name: "base", Advanced: options.Advanced{Caching: true}},
			{Name: "ios", Advanced: options.Advanced{IOSSupport: true, Caching: true}},
			{Name: "publish", Advanced: options.Advanced{
				PublishToExpo: true,
				UnitTests:     true,
				Caching:       true,
				Notifications: true,
			}},
			{Name: "full", Advanced: options.Advanced{
				IOSSupport:      true,
				PublishToExpo:   true,
				PublishToStores: true,
				UnitTests:       true,
				ComponentTests:  true,
				HookTests:       true,
				Caching:         true,
				Notifications:   true,
			}},
		},
	}
}

// Size returns the number of combinations in the table
func (t Table) Size() int {
	return len(t.Storages) * len(t.Builds) * len(t.Checks) * len(t.Triggers) * len(t.Presets)
}

// Each calls fn for every combination in table order until fn returns false
func (t Table) Each(fn func(o options.BuildOptions) bool) {
	for _, storage := range t.Storages {
		for _, builds := range t.Builds {
			for _, checks := range t.Checks {
				for _, triggers := range t.Triggers {
					for _, preset := range t.Presets {
						o := options.BuildOptions{
							Storage:    storage,
							BuildKinds: append([]options.BuildKind(nil), builds...),
							Checks:     append([]options.Check(nil), checks...),
							Triggers:   append([]options.Trigger(nil), triggers...),
							Advanced:   preset.Advanced,
						}
						if !fn(o) {
							return
						}
					}
				}
			}
		}
	}
}

// Combinations returns every combination in table order
func (t Table) Combinations() []options.BuildOptions {
	result := make([]options.BuildOptions, 0, t.Size())
	t.Each(func(o options.BuildOptions) bool {
		result = append(result, o)
		return true
	})
	return result
}

// FileName names the output of a combination:
// workflow_<storage>_<builds>_<triggers>_ios-<bool>_<index>.yml
func FileName(o options.BuildOptions, index int) string {
	return fmt.Sprintf("workflow_%s_%s_%s_ios-%t_%d.yml",
		o.Storage,
		join(o.BuildKinds),
		join(o.Triggers),
		o.Advanced.IOSSupport,
		index,
	)
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, "-")
}
