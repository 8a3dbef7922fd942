// Package prompt collects workflow options interactively and reconciles the
// answers with the guarded option rules.
package prompt

import (
	"errors"
	"fmt"
	"slices"

	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/options"
)

// PromptFn asks for options starting from the current draft and returns the
// answers as requested, before any rule is applied.
type PromptFn func(draft options.BuildOptions) (options.BuildOptions, error)

// Collect resolves the options to generate from. With useDefaults or a nil
// promptFn the draft is kept as is. Otherwise the answers are reconciled with
// the draft; see Reconcile.
func Collect(
	draft options.BuildOptions,
	useDefaults bool,
	promptFn PromptFn,
) (options.BuildOptions, []validation.Notice, error) {
	if useDefaults || promptFn == nil {
		return draft, nil, nil
	}

	answers, err := promptFn(draft.Clone())
	if err != nil {
		return draft, nil, fmt.Errorf("prompting for options: %w", err)
	}

	return Reconcile(draft, answers)
}

// Reconcile moves draft towards answers one guarded mutation at a time, the
// way a user toggling a form would. Automatic repairs are returned as notices.
// Only values present in draft are ever removed, so a value added by a repair
// stays. A refused change is reported as a notice and skipped, so the result
// always satisfies the guarded rules. Only unknown values are errors.
func Reconcile(draft, answers options.BuildOptions) (options.BuildOptions, []validation.Notice, error) {
	r := &reconciler{draft: draft}

	if answers.Storage != draft.Storage {
		r.apply(validation.SetStorage(answers.Storage))
	}

	// Additions run before removals so required sets never pass through empty
	for _, k := range options.BuildKinds {
		if answers.HasBuildKind(k) {
			r.apply(validation.ToggleBuildKind(k, true))
		}
	}
	for _, k := range options.BuildKinds {
		if !answers.HasBuildKind(k) && draft.HasBuildKind(k) {
			r.apply(validation.ToggleBuildKind(k, false))
		}
	}

	for _, c := range options.Checks {
		if answers.HasCheck(c) != r.draft.HasCheck(c) {
			r.apply(validation.ToggleCheck(c, answers.HasCheck(c)))
		}
	}

	// Enabling runs first so forced flags are in place; disabling runs in
	// reverse so component and hook tests go before unit tests
	for _, f := range options.AdvancedFlags {
		if answers.Advanced.Get(f) && !r.draft.Advanced.Get(f) {
			r.apply(validation.SetAdvanced(f, true))
		}
	}
	for _, f := range slices.Backward(options.AdvancedFlags) {
		if !answers.Advanced.Get(f) && draft.Advanced.Get(f) {
			r.apply(validation.SetAdvanced(f, false))
		}
	}

	for _, t := range options.Triggers {
		if answers.HasTrigger(t) {
			r.apply(validation.ToggleTrigger(t, true))
		}
	}
	for _, t := range options.Triggers {
		if !answers.HasTrigger(t) && draft.HasTrigger(t) {
			r.apply(validation.ToggleTrigger(t, false))
		}
	}

	if r.err != nil {
		return draft, nil, r.err
	}
	return r.draft.Canonical(), r.notices, nil
}

// reconciler threads a draft through mutations, keeping the first hard error
type reconciler struct {
	draft   options.BuildOptions
	notices []validation.Notice
	err     error
}

func (r *reconciler) apply(m validation.Mutation) {
	if r.err != nil {
		return
	}

	next, notices, err := validation.Apply(r.draft, m)
	var refusal *validation.RefusalError
	switch {
	case errors.As(err, &refusal):
		r.notices = append(r.notices, validation.Notice{Field: refusal.Field, Message: refusal.Reason})
	case err != nil:
		r.err = err
	default:
		r.draft = next
		r.notices = append(r.notices, notices...)
	}
}
