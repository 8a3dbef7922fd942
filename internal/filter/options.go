package filter

import (
	"slices"

	"github.com/edelwud/expoci/pkg/options"
)

// OptionsFilter is an interface for option combination filters
type OptionsFilter interface {
	Match(o options.BuildOptions) bool
}

// StorageFilter keeps combinations targeting one of the listed storages
type StorageFilter struct {
	Storages []options.StorageTarget
}

// Match returns true if o uploads to one of the specified storages
func (f *StorageFilter) Match(o options.BuildOptions) bool {
	return len(f.Storages) == 0 || slices.Contains(f.Storages, o.Storage)
}

// FeatureFilter keeps combinations that enable every listed advanced flag
type FeatureFilter struct {
	Flags []options.AdvancedFlag
}

// Match returns true if all flags are enabled in o
func (f *FeatureFilter) Match(o options.BuildOptions) bool {
	for _, flag := range f.Flags {
		if !o.Advanced.Get(flag) {
			return false
		}
	}
	return true
}

// PredicateFilter adapts a plain function to OptionsFilter
type PredicateFilter func(o options.BuildOptions) bool

// Match implements OptionsFilter
func (f PredicateFilter) Match(o options.BuildOptions) bool {
	return f(o)
}

// GlobOptionsFilter wraps GlobFilter to implement OptionsFilter
type GlobOptionsFilter struct {
	*GlobFilter
}

// Match implements OptionsFilter
func (f *GlobOptionsFilter) Match(o options.BuildOptions) bool {
	return f.GlobFilter.Match(o.Key())
}

// CompositeFilter combines multiple filters with AND logic
type CompositeFilter struct {
	filters []OptionsFilter
}

// NewCompositeFilter creates a composite filter
func NewCompositeFilter(filters ...OptionsFilter) *CompositeFilter {
	return &CompositeFilter{filters: filters}
}

// Match returns true if all filters match
func (f *CompositeFilter) Match(o options.BuildOptions) bool {
	for _, filter := range f.filters {
		if !filter.Match(o) {
			return false
		}
	}
	return true
}

// Filter applies the composite filter to a list of combinations
func (f *CompositeFilter) Filter(combos []options.BuildOptions) []options.BuildOptions {
	var result []options.BuildOptions
	for _, o := range combos {
		if f.Match(o) {
			result = append(result, o)
		}
	}
	return result
}
