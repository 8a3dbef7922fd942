// Package filter selects workflow option combinations by key patterns and
// option predicates
package filter

import (
	"path"
	"strings"
)

// GlobFilter filters combination keys based on glob patterns.
// Keys look like "zoho-drive/dev+prod-apk/typescript/push-main+manual/ios_support".
type GlobFilter struct {
	// ExcludePatterns are patterns to exclude (e.g., "custom/**")
	ExcludePatterns []string
	// IncludePatterns are patterns to include (if empty, all are included)
	IncludePatterns []string
}

// NewGlobFilter creates a new filter with the given patterns
func NewGlobFilter(exclude, include []string) *GlobFilter {
	return &GlobFilter{
		ExcludePatterns: exclude,
		IncludePatterns: include,
	}
}

// Match reports whether key passes the filter.
// Exclude patterns win over include patterns.
func (f *GlobFilter) Match(key string) bool {
	for _, pattern := range f.ExcludePatterns {
		if matchGlob(pattern, key) {
			return false
		}
	}

	if len(f.IncludePatterns) == 0 {
		return true
	}

	for _, pattern := range f.IncludePatterns {
		if matchGlob(pattern, key) {
			return true
		}
	}

	return false
}

// matchPattern wraps path.Match and returns false on invalid patterns
func matchPattern(pattern, name string) bool {
	matched, err := path.Match(pattern, name)
	if err != nil {
		return false
	}
	return matched
}

// matchGlob provides extended glob matching with ** support
func matchGlob(pattern, key string) bool {
	if strings.Contains(pattern, "**") {
		return matchDoubleStarGlob(pattern, key)
	}
	return matchPattern(pattern, key)
}

// matchDoubleStarGlob handles ** patterns that match any number of key segments
func matchDoubleStarGlob(pattern, key string) bool {
	parts := strings.Split(pattern, "**")

	// For pattern like "a/**/b", parts = ["a/", "/b"]
	prefix := strings.TrimSuffix(parts[0], "/")
	if prefix != "" {
		if !matchPrefix(prefix, key) {
			return false
		}
		key = strings.Join(strings.Split(key, "/")[len(strings.Split(prefix, "/")):], "/")
	}

	suffix := strings.TrimPrefix(parts[len(parts)-1], "/")
	if suffix != "" && !matchSuffix(suffix, key) {
		return false
	}

	for i := 1; i < len(parts)-1; i++ {
		middle := strings.Trim(parts[i], "/")
		if middle != "" && !strings.Contains(key, middle) {
			return false
		}
	}

	return true
}

// matchPrefix matches a glob prefix against the leading key segments
func matchPrefix(prefix, key string) bool {
	prefixParts := strings.Split(prefix, "/")
	keyParts := strings.Split(key, "/")

	if len(prefixParts) > len(keyParts) {
		return false
	}

	for i, pp := range prefixParts {
		if !matchPattern(pp, keyParts[i]) {
			return false
		}
	}

	return true
}

// matchSuffix matches a glob suffix against the trailing key segments
func matchSuffix(suffix, key string) bool {
	suffixParts := strings.Split(suffix, "/")
	keyParts := strings.Split(key, "/")

	if len(suffixParts) > len(keyParts) {
		return false
	}

	offset := len(keyParts) - len(suffixParts)
	for i, sp := range suffixParts {
		if !matchPattern(sp, keyParts[offset+i]) {
			return false
		}
	}

	return true
}
