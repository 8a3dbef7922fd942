package github

import (
	"fmt"

	"github.com/edelwud/expoci/pkg/options"
)

// Action references
const (
	actionCheckout    = "actions/checkout@v4"
	actionSetupNode   = "actions/setup-node@v4"
	actionCache       = "actions/cache@v3"
	actionUpload      = "actions/upload-artifact@v4"
	actionSlackNotify = "rtCamp/action-slack-notify@v2"
	actionRelease     = "softprops/action-gh-release@v1"
	actionRclone      = "AnimMouse/setup-rclone@v1"
)

const (
	// buildNodeOptions raises the heap limit for local EAS builds
	buildNodeOptions = `export NODE_OPTIONS="--openssl-legacy-provider --max_old_space_size=4096"`
	// appVersion reads the app version from app.json
	appVersion = `VERSION=$(node -p "require('./app.json').expo.version")`
	// buildNumber is shared by every matrix leg of one workflow run
	buildNumber = "BUILD_NUMBER=${{ github.run_number }}"
)

const (
	eventPush     = "github.event_name == 'push'"
	eventDispatch = "github.event_name == 'workflow_dispatch'"
	alwaysRun     = "always()"
)

// choiceCondition runs a step when the dispatch picks choice or "all", or
// on a push
func choiceCondition(choice string) string {
	return fmt.Sprintf("%s || %s", dispatchCondition(choice), eventPush)
}

// dispatchCondition runs a step only when the dispatch picks choice or "all"
func dispatchCondition(choice string) string {
	return fmt.Sprintf("github.event.inputs.buildType == '%s' || github.event.inputs.buildType == '%s'", ChoiceAll, choice)
}

// platformCondition restricts a step to one matrix leg, honoring the
// dispatch platform input when present
func platformCondition(platform string) string {
	return fmt.Sprintf(
		"matrix.platform == '%s' && (github.event_name != 'workflow_dispatch' || github.event.inputs.platform == '%s' || github.event.inputs.platform == '%s')",
		platform, ChoiceAll, platform,
	)
}

// onPlatform adds the platform restriction when the job runs a matrix
func onPlatform(o options.BuildOptions, cond, platform string) string {
	if !o.Advanced.IOSSupport {
		return cond
	}
	return fmt.Sprintf("(%s) && %s", cond, platformCondition(platform))
}

// artifactCondition runs a step producing or handling a
func artifactCondition(o options.BuildOptions, a Artifact) string {
	return onPlatform(o, choiceCondition(a.Choice), a.Platform)
}

func checkoutStep() Step {
	return Step{Name: "Checkout repository", Uses: actionCheckout}
}

func setupNodeStep() Step {
	return Step{
		Name: "Setup Node.js",
		Uses: actionSetupNode,
		With: Map{
			{Key: "node-version", Value: NodeVersion},
			{Key: "cache", Value: "yarn"},
		},
	}
}

// yarnCacheSteps returns the cache directory lookup and the cache restore
func yarnCacheSteps(o options.BuildOptions) []Step {
	if !o.Advanced.Caching {
		return nil
	}
	return []Step{
		{
			Name: "Get yarn cache directory path",
			ID:   "yarn-cache-dir-path",
			Run:  `echo "dir=$(yarn cache dir)" >> $GITHUB_OUTPUT`,
		},
		{
			Name: "Setup yarn cache",
			Uses: actionCache,
			With: Map{
				{Key: "path", Value: "${{ steps.yarn-cache-dir-path.outputs.dir }}"},
				{Key: "key", Value: "${{ runner.os }}-yarn-${{ hashFiles('**/yarn.lock') }}"},
				{Key: "restore-keys", Value: lines("${{ runner.os }}-yarn-")},
			},
		},
	}
}

// notifyStep posts the job status to Slack
func notifyStep(name, title, subject, success string) Step {
	return Step{
		Name: name,
		If:   alwaysRun,
		Uses: actionSlackNotify,
		Env: Map{
			{Key: "SLACK_WEBHOOK", Value: "${{ env.SLACK_WEBHOOK }}"},
			{Key: "SLACK_COLOR", Value: "${{ job.status == 'success' && 'good' || 'danger' }}"},
			{Key: "SLACK_TITLE", Value: title},
			{Key: "SLACK_MESSAGE", Value: fmt.Sprintf("%s ${{ job.status == 'success' && '%s' || 'failed' }}", subject, success)},
		},
	}
}
