package prompt_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edelwud/expoci/internal/batch"
	"github.com/edelwud/expoci/internal/prompt"
	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/options"
)

func answering(answers options.BuildOptions) prompt.PromptFn {
	return func(options.BuildOptions) (options.BuildOptions, error) {
		return answers, nil
	}
}

func messages(notices []validation.Notice) []string {
	var out []string
	for _, n := range notices {
		out = append(out, n.Message)
	}
	return out
}

func TestCollect_Defaults(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	called := false
	fn := func(options.BuildOptions) (options.BuildOptions, error) {
		called = true
		return options.BuildOptions{}, nil
	}

	got, notices, err := prompt.Collect(draft, true, fn)
	require.NoError(t, err)
	assert.Equal(t, draft, got)
	assert.Empty(t, notices)
	assert.False(t, called, "prompt must not run with defaults")

	got, _, err = prompt.Collect(draft, false, nil)
	require.NoError(t, err)
	assert.Equal(t, draft, got)
}

func TestCollect_PromptError(t *testing.T) {
	t.Parallel()

	fn := func(options.BuildOptions) (options.BuildOptions, error) {
		return options.BuildOptions{}, prompt.ErrAborted
	}

	_, _, err := prompt.Collect(options.Default(), false, fn)
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrAborted)
	assert.Contains(t, err.Error(), "prompting for options")
}

func TestCollect_PromptSeesDraft(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	draft.Storage = options.StorageZohoDrive

	var seen options.BuildOptions
	fn := func(d options.BuildOptions) (options.BuildOptions, error) {
		seen = d
		return d, nil
	}

	got, notices, err := prompt.Collect(draft, false, fn)
	require.NoError(t, err)
	assert.Equal(t, options.StorageZohoDrive, seen.Storage)
	assert.Equal(t, draft.Canonical(), got)
	assert.Empty(t, notices)
}

func TestReconcile_ReleaseKeepsManual(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	answers := draft.Clone()
	answers.Storage = options.StorageGitHubRelease
	answers.Triggers = []options.Trigger{options.TriggerPush}

	got, notices, err := prompt.Reconcile(draft, answers)
	require.NoError(t, err)

	assert.Equal(t, options.StorageGitHubRelease, got.Storage)
	assert.Equal(t, []options.Trigger{options.TriggerPush, options.TriggerManual}, got.Triggers)
	require.Len(t, notices, 1)
	assert.Equal(t, validation.FieldTriggers, notices[0].Field)
	assert.Equal(t, validation.MsgKeepManualRelease, notices[0].Message)
}

func TestReconcile_IOSAddsManual(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	draft.Triggers = []options.Trigger{options.TriggerPush}

	answers := draft.Clone()
	answers.Advanced.IOSSupport = true

	got, notices, err := prompt.Reconcile(draft, answers)
	require.NoError(t, err)

	assert.True(t, got.HasTrigger(options.TriggerManual))
	assert.Equal(t, []string{"Added 'Manual workflow dispatch' trigger since it's required for iOS builds"}, messages(notices))
}

func TestReconcile_HookTestsForceUnitTests(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	answers := draft.Clone()
	answers.Advanced.HookTests = true

	got, notices, err := prompt.Reconcile(draft, answers)
	require.NoError(t, err)

	assert.True(t, got.Advanced.HookTests)
	assert.True(t, got.Advanced.UnitTests)
	assert.Equal(t, []string{"Added unit tests since they're required for hook tests"}, messages(notices))
}

func TestReconcile_DisableTestsTogether(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	draft.Advanced.UnitTests = true
	draft.Advanced.ComponentTests = true

	answers := draft.Clone()
	answers.Advanced.UnitTests = false
	answers.Advanced.ComponentTests = false

	got, notices, err := prompt.Reconcile(draft, answers)
	require.NoError(t, err)

	assert.False(t, got.Advanced.UnitTests)
	assert.False(t, got.Advanced.ComponentTests)
	assert.Empty(t, notices)
}

func TestReconcile_RefusesUnitTestsOff(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	draft.Advanced.UnitTests = true
	draft.Advanced.ComponentTests = true

	answers := draft.Clone()
	answers.Advanced.UnitTests = false

	got, notices, err := prompt.Reconcile(draft, answers)
	require.NoError(t, err)

	assert.True(t, got.Advanced.UnitTests)
	assert.Equal(t, []string{validation.MsgKeepUnitTests}, messages(notices))
}

func TestReconcile_KeepsLastBuildKind(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	answers := draft.Clone()
	answers.BuildKinds = nil

	got, notices, err := prompt.Reconcile(draft, answers)
	require.NoError(t, err)

	assert.Equal(t, []options.BuildKind{options.BuildProdAAB}, got.BuildKinds)
	require.Len(t, notices, 1)
	assert.Equal(t, validation.FieldBuildKinds, notices[0].Field)
	assert.Equal(t, validation.MsgNoBuildKinds, notices[0].Message)
}

func TestReconcile_ChecksAndOrder(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	answers := draft.Clone()
	answers.Checks = []options.Check{options.CheckPrettier}
	answers.BuildKinds = []options.BuildKind{options.BuildProdAAB, options.BuildDev}

	got, notices, err := prompt.Reconcile(draft, answers)
	require.NoError(t, err)

	assert.Equal(t, []options.Check{options.CheckPrettier}, got.Checks)
	assert.Equal(t, []options.BuildKind{options.BuildDev, options.BuildProdAAB}, got.BuildKinds)
	assert.Empty(t, notices)
}

func TestReconcile_UnknownValue(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	answers := draft.Clone()
	answers.Storage = "dropbox"

	got, _, err := prompt.Reconcile(draft, answers)
	require.Error(t, err)
	assert.False(t, errors.Is(err, validation.ErrRefused))
	assert.Equal(t, draft, got)
}

func TestReconcile_AlwaysValid(t *testing.T) {
	t.Parallel()

	draft := options.Default()
	for _, answers := range batch.DefaultTable().Combinations() {
		got, _, err := prompt.Reconcile(draft, answers)
		require.NoError(t, err)
		if result := validation.Validate(got); !result.Valid() {
			t.Fatalf("answers %s reconciled to invalid options: %v", answers.Key(), result.Messages())
		}
	}
}
