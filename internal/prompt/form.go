package prompt

import (
	"errors"
	"slices"

	"charm.land/huh/v2"

	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/options"
)

var storageLabels = map[options.StorageTarget]string{
	options.StorageGitHub:        "GitHub Artifacts (7-day retention)",
	options.StorageGitHubRelease: "GitHub Releases",
	options.StorageZohoDrive:     "Zoho Drive",
	options.StorageGoogleDrive:   "Google Drive",
	options.StorageCustom:        "Custom Cloud Storage (rclone)",
}

var buildKindLabels = map[options.BuildKind]string{
	options.BuildDev:     "Development Build (debug APK)",
	options.BuildProdAPK: "Production APK",
	options.BuildProdAAB: "Production AAB (Play Store)",
}

var checkLabels = map[options.Check]string{
	options.CheckTypeScript: "TypeScript Check",
	options.CheckESLint:     "ESLint",
	options.CheckPrettier:   "Prettier Format Check",
}

var triggerLabels = map[options.Trigger]string{
	options.TriggerPush:        "Push to main/master branch",
	options.TriggerPullRequest: "Pull requests to main/master",
	options.TriggerManual:      "Manual workflow dispatch",
}

var flagLabels = map[options.AdvancedFlag]string{
	options.FlagIOSSupport:      "iOS Support (requires Apple Developer credentials)",
	options.FlagPublishToExpo:   "Publish to Expo",
	options.FlagPublishToStores: "Submit to App Stores",
	options.FlagUnitTests:       "Jest Tests",
	options.FlagComponentTests:  "React Native Testing Library",
	options.FlagHookTests:       "renderHook() Support",
	options.FlagCaching:         "Enable Build Caching",
	options.FlagNotifications:   "Add Slack/Discord Notifications",
}

// ErrAborted is returned when the user cancels the form
var ErrAborted = errors.New("prompt aborted")

// answers holds form values; huh binds to plain slices and scalars
type answers struct {
	storage  options.StorageTarget
	builds   []options.BuildKind
	checks   []options.Check
	triggers []options.Trigger
	flags    []options.AdvancedFlag
}

func answersFrom(o options.BuildOptions) *answers {
	a := &answers{
		storage:  o.Storage,
		builds:   slices.Clone(o.BuildKinds),
		checks:   slices.Clone(o.Checks),
		triggers: slices.Clone(o.Triggers),
	}
	for _, f := range options.AdvancedFlags {
		if o.Advanced.Get(f) {
			a.flags = append(a.flags, f)
		}
	}
	return a
}

func (a *answers) options() options.BuildOptions {
	o := options.BuildOptions{
		Storage:    a.storage,
		BuildKinds: slices.Clone(a.builds),
		Checks:     slices.Clone(a.checks),
		Triggers:   slices.Clone(a.triggers),
	}
	for _, f := range a.flags {
		// flags come from AdvancedFlags, so With cannot fail
		o.Advanced, _ = o.Advanced.With(f, true)
	}
	return o.Canonical()
}

// Form asks for every option in a terminal form. It satisfies PromptFn.
func Form(draft options.BuildOptions) (options.BuildOptions, error) {
	a := answersFrom(draft)
	if err := newForm(a).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return draft, ErrAborted
		}
		return draft, err
	}
	return a.options(), nil
}

func newForm(a *answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[options.StorageTarget]().
				Title("Where would you like to store your build artifacts?").
				Options(choices(options.StorageTargets, storageLabels, nil)...).
				Value(&a.storage),
			huh.NewMultiSelect[options.BuildKind]().
				Title("Which build types do you need?").
				Options(choices(options.BuildKinds, buildKindLabels, a.builds)...).
				Validate(nonEmpty[options.BuildKind](validation.MsgNoBuildKinds)).
				Value(&a.builds),
		),
		huh.NewGroup(
			huh.NewMultiSelect[options.Check]().
				Title("Testing & Quality Checks").
				Options(choices(options.Checks, checkLabels, a.checks)...).
				Value(&a.checks),
			huh.NewMultiSelect[options.Trigger]().
				Title("Triggers").
				Description("Manual dispatch is kept when GitHub Releases, iOS or publishing need it.").
				Options(choices(options.Triggers, triggerLabels, a.triggers)...).
				Validate(nonEmpty[options.Trigger](validation.MsgNoTriggers)).
				Value(&a.triggers),
		),
		huh.NewGroup(
			huh.NewMultiSelect[options.AdvancedFlag]().
				Title("Advanced Configuration").
				Options(choices(options.AdvancedFlags, flagLabels, a.flags)...).
				Value(&a.flags),
		),
	)
}

func choices[T ~string](values []T, labels map[T]string, selected []T) []huh.Option[T] {
	opts := make([]huh.Option[T], 0, len(values))
	for _, v := range values {
		label := labels[v]
		if label == "" {
			label = string(v)
		}
		opts = append(opts, huh.NewOption(label, v).Selected(slices.Contains(selected, v)))
	}
	return opts
}

func nonEmpty[T any](msg string) func([]T) error {
	return func(values []T) error {
		if len(values) == 0 {
			return errors.New(msg)
		}
		return nil
	}
}
