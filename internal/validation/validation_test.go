package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/options"
)

func TestValidate_Default(t *testing.T) {
	t.Parallel()

	r := validation.Validate(options.Default())
	assert.True(t, r.Valid())
	require.NoError(t, r.Err())
}

func TestValidate_EmptySets(t *testing.T) {
	t.Parallel()

	r := validation.Validate(options.BuildOptions{Storage: options.StorageGitHub})
	require.False(t, r.Valid())

	kinds := r.ByField(validation.FieldBuildKinds)
	require.Len(t, kinds, 1)
	assert.Equal(t, validation.MsgNoBuildKinds, kinds[0].Message)

	triggers := r.ByField(validation.FieldTriggers)
	require.Len(t, triggers, 1)
	assert.Equal(t, validation.MsgNoTriggers, triggers[0].Message)
}

func TestValidate_ManualRequired(t *testing.T) {
	t.Parallel()

	base := options.BuildOptions{
		Storage:    options.StorageGitHub,
		BuildKinds: []options.BuildKind{options.BuildDev},
		Triggers:   []options.Trigger{options.TriggerPush},
	}

	tests := []struct {
		name   string
		mutate func(o *options.BuildOptions)
		want   string
	}{
		{
			name:   "github release",
			mutate: func(o *options.BuildOptions) { o.Storage = options.StorageGitHubRelease },
			want:   validation.MsgReleaseNeedsManual,
		},
		{
			name:   "ios",
			mutate: func(o *options.BuildOptions) { o.Advanced.IOSSupport = true },
			want:   validation.MsgIOSNeedsManual,
		},
		{
			name:   "publish to expo",
			mutate: func(o *options.BuildOptions) { o.Advanced.PublishToExpo = true },
			want:   validation.MsgPublishNeedsManual,
		},
		{
			name:   "publish to stores",
			mutate: func(o *options.BuildOptions) { o.Advanced.PublishToStores = true },
			want:   validation.MsgPublishNeedsManual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o := base.Clone()
			tt.mutate(&o)

			r := validation.Validate(o)
			require.False(t, r.Valid())
			general := r.ByField(validation.FieldGeneral)
			require.Len(t, general, 1)
			assert.Equal(t, tt.want, general[0].Message)

			o.Triggers = append(o.Triggers, options.TriggerManual)
			assert.True(t, validation.Validate(o).Valid())
		})
	}
}

func TestValidate_ReportsEveryGeneralViolation(t *testing.T) {
	t.Parallel()

	o := options.BuildOptions{
		Storage:    options.StorageGitHubRelease,
		BuildKinds: []options.BuildKind{options.BuildDev},
		Triggers:   []options.Trigger{options.TriggerPush},
		Advanced:   options.Advanced{IOSSupport: true, PublishToStores: true},
	}

	r := validation.Validate(o)
	assert.Equal(t, []string{
		validation.MsgReleaseNeedsManual,
		validation.MsgIOSNeedsManual,
		validation.MsgPublishNeedsManual,
	}, r.Messages())
}

func TestValidate_UnknownValues(t *testing.T) {
	t.Parallel()

	o := options.Default()
	o.Storage = "dropbox"
	o.Checks = append(o.Checks, "mypy")

	r := validation.Validate(o)
	require.False(t, r.Valid())
	assert.Len(t, r.ByField(validation.FieldGeneral), 2)
}

func TestValidate_UnitForcingIsNotAViolation(t *testing.T) {
	t.Parallel()

	o := options.Default()
	o.Advanced.HookTests = true

	assert.True(t, validation.Validate(o).Valid())
}

func TestValidate_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	o := options.Default()
	before := o.Clone()
	validation.Validate(o)
	assert.Equal(t, before, o)
}

func TestResult_Err(t *testing.T) {
	t.Parallel()

	err := validation.Validate(options.BuildOptions{}).Err()
	require.Error(t, err)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Violations, 2)
	assert.Contains(t, err.Error(), "buildKinds: "+validation.MsgNoBuildKinds)
}
