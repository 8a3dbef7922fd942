package validation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/edelwud/expoci/pkg/options"
)

// ErrRefused is matched by every refused mutation
var ErrRefused = errors.New("mutation refused")

// Refusal reasons
const (
	MsgKeepManualRelease = "Cannot remove Manual trigger when using GitHub Releases storage"
	MsgKeepManualFeature = "Manual trigger is required when using iOS or publishing features"
	MsgKeepUnitTests     = "Unit tests are required while component or hook tests are enabled"
)

// RefusalError reports a mutation that would break a guarded rule. The
// draft it was applied to is left unchanged.
type RefusalError struct {
	Field  Field
	Reason string
}

func (e *RefusalError) Error() string { return e.Reason }

// Is makes errors.Is(err, ErrRefused) match any refusal
func (e *RefusalError) Is(target error) bool { return target == ErrRefused }

// Notice describes an automatic repair made while applying a mutation
type Notice struct {
	Field   Field
	Message string
}

// Mutation edits a draft in place and reports any repairs it made.
// Use Apply to run it; a mutation that returns an error leaves no trace.
type Mutation func(draft *options.BuildOptions) ([]Notice, error)

// Apply runs m against a copy of draft. On success the edited copy is
// returned; on error the original draft is returned untouched.
func Apply(draft options.BuildOptions, m Mutation) (options.BuildOptions, []Notice, error) {
	next := draft.Clone()
	notices, err := m(&next)
	if err != nil {
		return draft, nil, err
	}
	return next, notices, nil
}

// ApplyAll applies mutations in order. Either all succeed or draft is
// returned unchanged with the first error.
func ApplyAll(draft options.BuildOptions, ms ...Mutation) (options.BuildOptions, []Notice, error) {
	next := draft
	var all []Notice
	for _, m := range ms {
		var notices []Notice
		var err error
		next, notices, err = Apply(next, m)
		if err != nil {
			return draft, nil, err
		}
		all = append(all, notices...)
	}
	return next, all, nil
}

// SetStorage selects a storage target. Choosing GitHub Releases adds the
// manual trigger when missing.
func SetStorage(s options.StorageTarget) Mutation {
	return func(d *options.BuildOptions) ([]Notice, error) {
		if !s.Valid() {
			return nil, fmt.Errorf("unknown storage target %q", s)
		}
		d.Storage = s
		if s == options.StorageGitHubRelease {
			return ensureManual(d, "GitHub Releases"), nil
		}
		return nil, nil
	}
}

// ToggleBuildKind adds or removes one build kind. Removing the last one is
// refused.
func ToggleBuildKind(k options.BuildKind, on bool) Mutation {
	return func(d *options.BuildOptions) ([]Notice, error) {
		if !k.Valid() {
			return nil, fmt.Errorf("unknown build type %q", k)
		}
		next, err := toggle(d.BuildKinds, k, on, FieldBuildKinds, MsgNoBuildKinds)
		if err != nil {
			return nil, err
		}
		d.BuildKinds = next
		return nil, nil
	}
}

// ToggleCheck adds or removes one static check
func ToggleCheck(c options.Check, on bool) Mutation {
	return func(d *options.BuildOptions) ([]Notice, error) {
		if !c.Valid() {
			return nil, fmt.Errorf("unknown check %q", c)
		}
		if on {
			if !d.HasCheck(c) {
				d.Checks = append(d.Checks, c)
			}
			return nil, nil
		}
		d.Checks = slices.DeleteFunc(d.Checks, func(x options.Check) bool { return x == c })
		return nil, nil
	}
}

// ToggleTrigger adds or removes one trigger. Removing the last trigger, or
// the manual trigger while something requires it, is refused.
func ToggleTrigger(t options.Trigger, on bool) Mutation {
	return func(d *options.BuildOptions) ([]Notice, error) {
		if !t.Valid() {
			return nil, fmt.Errorf("unknown trigger %q", t)
		}
		if !on && t == options.TriggerManual && d.HasTrigger(t) {
			if err := guardManual(*d); err != nil {
				return nil, err
			}
		}
		next, err := toggle(d.Triggers, t, on, FieldTriggers, MsgNoTriggers)
		if err != nil {
			return nil, err
		}
		d.Triggers = next
		return nil, nil
	}
}

// SetBuildKinds replaces the build kinds. An empty set is refused.
func SetBuildKinds(kinds ...options.BuildKind) Mutation {
	return func(d *options.BuildOptions) ([]Notice, error) {
		if len(kinds) == 0 {
			return nil, &RefusalError{Field: FieldBuildKinds, Reason: MsgNoBuildKinds}
		}
		for _, k := range kinds {
			if !k.Valid() {
				return nil, fmt.Errorf("unknown build type %q", k)
			}
		}
		d.BuildKinds = slices.Clone(kinds)
		return nil, nil
	}
}

// SetChecks replaces the static checks; an empty set is allowed
func SetChecks(checks ...options.Check) Mutation {
	return func(d *options.BuildOptions) ([]Notice, error) {
		for _, c := range checks {
			if !c.Valid() {
				return nil, fmt.Errorf("unknown check %q", c)
			}
		}
		d.Checks = slices.Clone(checks)
		return nil, nil
	}
}

// SetTriggers replaces the triggers. An empty set, or a set without the
// manual trigger while something requires it, is refused.
func SetTriggers(triggers ...options.Trigger) Mutation {
	return func(d *options.BuildOptions) ([]Notice, error) {
		if len(triggers) == 0 {
			return nil, &RefusalError{Field: FieldTriggers, Reason: MsgNoTriggers}
		}
		for _, t := range triggers {
			if !t.Valid() {
				return nil, fmt.Errorf("unknown trigger %q", t)
			}
		}
		if !slices.Contains(triggers, options.TriggerManual) {
			if err := guardManual(*d); err != nil {
				return nil, err
			}
		}
		d.Triggers = slices.Clone(triggers)
		return nil, nil
	}
}

// SetAdvanced switches one advanced flag. Enabling iOS or publishing adds
// the manual trigger; enabling component or hook tests enables unit tests.
// Disabling unit tests while they are required is refused.
func SetAdvanced(f options.AdvancedFlag, on bool) Mutation {
	return func(d *options.BuildOptions) ([]Notice, error) {
		adv, err := d.Advanced.With(f, on)
		if err != nil {
			return nil, err
		}
		if f == options.FlagUnitTests && !on && (adv.ComponentTests || adv.HookTests) {
			return nil, &RefusalError{Field: FieldGeneral, Reason: MsgKeepUnitTests}
		}
		d.Advanced = adv
		if !on {
			return nil, nil
		}

		var notices []Notice
		if f.ForcesManual() {
			feature := "publishing"
			if f == options.FlagIOSSupport {
				feature = "iOS builds"
			}
			notices = append(notices, ensureManual(d, feature)...)
		}
		if f.ForcesUnitTests() && !d.Advanced.UnitTests {
			d.Advanced.UnitTests = true
			what := "component tests"
			if f == options.FlagHookTests {
				what = "hook tests"
			}
			notices = append(notices, Notice{
				Field:   FieldGeneral,
				Message: fmt.Sprintf("Added unit tests since they're required for %s", what),
			})
		}
		return notices, nil
	}
}

// Repair applies the rules that are fixed rather than reported: component
// and hook tests imply unit tests. The input is not modified.
func Repair(o options.BuildOptions) (options.BuildOptions, []Notice) {
	o = o.Clone()
	var notices []Notice
	if (o.Advanced.ComponentTests || o.Advanced.HookTests) && !o.Advanced.UnitTests {
		o.Advanced.UnitTests = true
		notices = append(notices, Notice{
			Field:   FieldGeneral,
			Message: "Enabled unit tests since component or hook tests are selected",
		})
	}
	return o, notices
}

func ensureManual(d *options.BuildOptions, feature string) []Notice {
	if d.HasTrigger(options.TriggerManual) {
		return nil
	}
	d.Triggers = append(d.Triggers, options.TriggerManual)
	return []Notice{{
		Field:   FieldTriggers,
		Message: fmt.Sprintf("Added 'Manual workflow dispatch' trigger since it's required for %s", feature),
	}}
}

func guardManual(d options.BuildOptions) error {
	switch {
	case d.Storage == options.StorageGitHubRelease:
		return &RefusalError{Field: FieldTriggers, Reason: MsgKeepManualRelease}
	case ManualForcedBy(d) != "":
		return &RefusalError{Field: FieldTriggers, Reason: MsgKeepManualFeature}
	}
	return nil
}

func toggle[T comparable](set []T, item T, on bool, field Field, lastMsg string) ([]T, error) {
	if on {
		if slices.Contains(set, item) {
			return set, nil
		}
		return append(set, item), nil
	}
	if !slices.Contains(set, item) {
		return set, nil
	}
	rest := slices.DeleteFunc(slices.Clone(set), func(x T) bool { return x == item })
	if len(rest) == 0 {
		return nil, &RefusalError{Field: field, Reason: lastMsg}
	}
	return rest, nil
}
