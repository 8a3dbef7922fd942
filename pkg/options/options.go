// Package options defines the choices a workflow is generated from
package options

import (
	"fmt"
	"slices"
	"strings"
)

// StorageTarget is where build outputs are persisted after a build
type StorageTarget string

// Storage targets
const (
	StorageGitHub        StorageTarget = "github"
	StorageGitHubRelease StorageTarget = "github-release"
	StorageZohoDrive     StorageTarget = "zoho-drive"
	StorageGoogleDrive   StorageTarget = "google-drive"
	StorageCustom        StorageTarget = "custom"
)

// StorageTargets lists every storage target in canonical order
var StorageTargets = []StorageTarget{
	StorageGitHub,
	StorageGitHubRelease,
	StorageZohoDrive,
	StorageGoogleDrive,
	StorageCustom,
}

// BuildKind is a build artifact variant
type BuildKind string

// Build kinds
const (
	BuildDev     BuildKind = "dev"
	BuildProdAPK BuildKind = "prod-apk"
	BuildProdAAB BuildKind = "prod-aab"
)

// BuildKinds lists every build kind in canonical order
var BuildKinds = []BuildKind{BuildDev, BuildProdAPK, BuildProdAAB}

// Check is a static check run before building
type Check string

// Static checks
const (
	CheckTypeScript Check = "typescript"
	CheckESLint     Check = "eslint"
	CheckPrettier   Check = "prettier"
)

// Checks lists every static check in canonical order
var Checks = []Check{CheckTypeScript, CheckESLint, CheckPrettier}

// Trigger is an event class that starts the workflow
type Trigger string

// Triggers
const (
	TriggerPush        Trigger = "push-main"
	TriggerPullRequest Trigger = "pull-request"
	TriggerManual      Trigger = "manual"
)

// Triggers lists every trigger in canonical order
var Triggers = []Trigger{TriggerPush, TriggerPullRequest, TriggerManual}

// Valid reports whether s is a known storage target
func (s StorageTarget) Valid() bool { return slices.Contains(StorageTargets, s) }

// Remote reports whether artifacts are copied to a remote drive with rclone
func (s StorageTarget) Remote() bool {
	return s == StorageZohoDrive || s == StorageGoogleDrive || s == StorageCustom
}

// Valid reports whether k is a known build kind
func (k BuildKind) Valid() bool { return slices.Contains(BuildKinds, k) }

// Valid reports whether c is a known check
func (c Check) Valid() bool { return slices.Contains(Checks, c) }

// Valid reports whether t is a known trigger
func (t Trigger) Valid() bool { return slices.Contains(Triggers, t) }

// ParseStorageTarget converts a wire value to a StorageTarget
func ParseStorageTarget(s string) (StorageTarget, error) {
	t := StorageTarget(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown storage target %q (want one of %s)", s, join(StorageTargets))
	}
	return t, nil
}

// ParseBuildKinds converts wire values to build kinds
func ParseBuildKinds(values []string) ([]BuildKind, error) {
	return parseSet(values, "build type", BuildKinds)
}

// ParseChecks converts wire values to checks
func ParseChecks(values []string) ([]Check, error) {
	return parseSet(values, "check", Checks)
}

// ParseTriggers converts wire values to triggers
func ParseTriggers(values []string) ([]Trigger, error) {
	return parseSet(values, "trigger", Triggers)
}

func parseSet[T ~string](values []string, what string, known []T) ([]T, error) {
	result := make([]T, 0, len(values))
	for _, v := range values {
		item := T(strings.TrimSpace(v))
		if !slices.Contains(known, item) {
			return nil, fmt.Errorf("unknown %s %q (want one of %s)", what, v, join(known))
		}
		if !slices.Contains(result, item) {
			result = append(result, item)
		}
	}
	return result, nil
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// BuildOptions is the single input to workflow generation
type BuildOptions struct {
	// Storage selects where artifacts go after the build
	Storage StorageTarget `yaml:"storage" json:"storage" jsonschema:"enum=github,enum=github-release,enum=zoho-drive,enum=google-drive,enum=custom"`
	// BuildKinds are the artifacts to build; must not be empty
	BuildKinds []BuildKind `yaml:"build_types" json:"build_types" jsonschema:"minItems=1"`
	// Checks are static checks run in the verify job
	Checks []Check `yaml:"checks" json:"checks,omitempty"`
	// Triggers start the workflow; must not be empty
	Triggers []Trigger `yaml:"triggers" json:"triggers" jsonschema:"minItems=1"`
	// Advanced holds the optional feature flags
	Advanced Advanced `yaml:"advanced" json:"advanced"`
}

// Default returns the options a new configuration starts with
func Default() BuildOptions {
	return BuildOptions{
		Storage:    StorageGitHub,
		BuildKinds: slices.Clone(BuildKinds),
		Checks:     slices.Clone(Checks),
		Triggers:   slices.Clone(Triggers),
		Advanced:   Advanced{Caching: true},
	}
}

// HasBuildKind reports whether k is selected
func (o BuildOptions) HasBuildKind(k BuildKind) bool { return slices.Contains(o.BuildKinds, k) }

// HasCheck reports whether c is selected
func (o BuildOptions) HasCheck(c Check) bool { return slices.Contains(o.Checks, c) }

// HasTrigger reports whether t is selected
func (o BuildOptions) HasTrigger(t Trigger) bool { return slices.Contains(o.Triggers, t) }

// HasProdBuild reports whether any production build kind is selected
func (o BuildOptions) HasProdBuild() bool {
	return o.HasBuildKind(BuildProdAPK) || o.HasBuildKind(BuildProdAAB)
}

// HasTests reports whether any test runner flag is set
func (o BuildOptions) HasTests() bool {
	return o.Advanced.UnitTests || o.Advanced.ComponentTests || o.Advanced.HookTests
}

// NeedsVerify reports whether the verify job is emitted
func (o BuildOptions) NeedsVerify() bool {
	return o.HasAnyCheck() || o.HasTests()
}

// HasAnyCheck reports whether at least one known check is selected
func (o BuildOptions) HasAnyCheck() bool {
	for _, c := range Checks {
		if o.HasCheck(c) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (o BuildOptions) Clone() BuildOptions {
	o.BuildKinds = slices.Clone(o.BuildKinds)
	o.Checks = slices.Clone(o.Checks)
	o.Triggers = slices.Clone(o.Triggers)
	return o
}

// Canonical returns a copy with sets deduplicated, unknown values dropped and
// elements in canonical order. Two structurally equal option sets have equal
// canonical forms.
func (o BuildOptions) Canonical() BuildOptions {
	o.BuildKinds = canonical(o.BuildKinds, BuildKinds)
	o.Checks = canonical(o.Checks, Checks)
	o.Triggers = canonical(o.Triggers, Triggers)
	return o
}

func canonical[T comparable](selected, order []T) []T {
	result := make([]T, 0, len(selected))
	for _, v := range order {
		if slices.Contains(selected, v) {
			result = append(result, v)
		}
	}
	return result
}

// Key returns a path-like identifier of the canonical options, e.g.
// "zoho-drive/dev+prod-apk/typescript/push-main+manual/ios_support+caching".
// Empty sets render as "none".
func (o BuildOptions) Key() string {
	c := o.Canonical()
	var flags []string
	for _, f := range AdvancedFlags {
		if c.Advanced.Get(f) {
			flags = append(flags, string(f))
		}
	}
	storage := string(c.Storage)
	if storage == "" {
		storage = "none"
	}
	return strings.Join([]string{
		storage,
		segment(c.BuildKinds),
		segment(c.Checks),
		segment(c.Triggers),
		segment(flags),
	}, "/")
}

func segment[T ~string](values []T) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, "+")
}
