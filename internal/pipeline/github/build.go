package github

import (
	"fmt"
	"strings"

	"github.com/edelwud/expoci/pkg/options"
)

// buildCondition limits the build job to main-line pushes and manual runs
const buildCondition = "(github.event_name == 'push' && (github.ref == 'refs/heads/main' || github.ref == 'refs/heads/master')) || " + eventDispatch

// stepGroup returns the steps one phase of the build job contributes
type stepGroup func(o options.BuildOptions) []Step

// buildStepGroups are the phases of the build job in execution order
var buildStepGroups = []stepGroup{
	setupSteps,
	yarnCacheSteps,
	installSteps,
	projectFixSteps,
	androidBuildSteps,
	iosBuildSteps,
	publishExpoSteps,
	publishStoreSteps,
	uploadSteps,
	archiveSteps,
	buildNotifySteps,
}

func buildJob(o options.BuildOptions) *NamedJob {
	needs := GateJobID
	if o.NeedsVerify() {
		needs = VerifyJobID
	}

	job := &Job{
		Needs:  needs,
		If:     buildCondition,
		RunsOn: DefaultRunner,
	}
	if o.Advanced.IOSSupport {
		job.Strategy = &Strategy{Matrix: Matrix{Include: []MatrixEntry{
			{Platform: PlatformAndroid, Runner: DefaultRunner},
			{Platform: PlatformIOS, Runner: MacRunner},
		}}}
		job.RunsOn = "${{ matrix.runner }}"
	}

	for _, group := range buildStepGroups {
		job.Steps = append(job.Steps, group(o)...)
	}

	return &NamedJob{ID: BuildJobID(o), Job: job}
}

func setupSteps(_ options.BuildOptions) []Step {
	return []Step{checkoutStep(), setupNodeStep()}
}

func installSteps(_ options.BuildOptions) []Step {
	return []Step{
		{
			Name: "Install dependencies",
			Run:  lines("yarn install", "yarn global add eas-cli@latest"),
		},
		{
			Name: "Setup EAS build cache",
			Uses: actionCache,
			With: Map{
				{Key: "path", Value: "~/.eas-build-local"},
				{Key: "key", Value: "${{ runner.os }}-eas-build-local-${{ hashFiles('**/package.json') }}"},
				{Key: "restore-keys", Value: lines("${{ runner.os }}-eas-build-local-")},
			},
		},
		{
			Name: "Verify EAS CLI installation",
			Run:  lines(`echo "EAS CLI version:"`, "eas --version"),
		},
	}
}

// appEntry is the package.json main entry EAS local builds expect
const appEntry = "node_modules/expo/AppEntry.js"

// metroConfig replaces metro.config.js so SVG files go through
// react-native-svg-transformer
var metroConfig = []string{
	"/* eslint-disable @typescript-eslint/no-var-requires */",
	"const { getDefaultConfig } = require('expo/metro-config');",
	"",
	"const config = getDefaultConfig(__dirname);",
	"",
	"const { transformer, resolver } = config;",
	"",
	"config.transformer = {",
	"  ...transformer,",
	"  babelTransformerPath: require.resolve('react-native-svg-transformer/expo'),",
	"};",
	"",
	"config.resolver = {",
	"  ...resolver,",
	"  assetExts: resolver.assetExts.filter(ext => ext !== 'svg'),",
	"  sourceExts: [...resolver.sourceExts, 'svg'],",
	"};",
	"",
	"module.exports = config;",
}

func projectFixSteps(_ options.BuildOptions) []Step {
	metro := []string{
		"if [ -f ./metro.config.js ]; then",
		"  cp ./metro.config.js ./metro.config.js.backup",
		"  cat > ./metro.config.js << 'EOF'",
	}
	metro = append(metro, metroConfig...)
	metro = append(metro,
		"EOF",
		`  echo "metro.config.js updated to CommonJS format"`,
		"else",
		`  echo "metro.config.js not found"`,
		"fi",
	)

	return []Step{
		{
			Name: "Fix package.json main entry",
			Run: lines(
				"if ! command -v jq > /dev/null 2>&1; then",
				"  sudo apt-get update && sudo apt-get install -y jq",
				"fi",
				"if [ ! -f ./package.json ]; then",
				`  echo "package.json not found"`,
				"  exit 1",
				"fi",
				"cp package.json package.json.bak",
				fmt.Sprintf(`jq '.main = "%s"' package.json > package.json.tmp && mv package.json.tmp package.json`, appEntry),
				`grep '"main"' package.json`,
			),
		},
		{
			Name: "Update metro.config.js for SVG support",
			Run:  lines(metro...),
		},
	}
}

func easBuildStep(o options.BuildOptions, a Artifact) Step {
	return Step{
		Name: "Build " + a.Title,
		If:   artifactCondition(o, a),
		Run: lines(
			buildNodeOptions,
			fmt.Sprintf("eas build --platform %s --profile %s --local --non-interactive --output=%s", a.Platform, a.Profile, a.Path),
		),
		Env: Map{{Key: "NODE_ENV", Value: a.NodeEnv}},
	}
}

func androidBuildSteps(o options.BuildOptions) []Step {
	var steps []Step
	for _, a := range AndroidArtifacts(o) {
		steps = append(steps, easBuildStep(o, a))
	}
	return steps
}

func iosBuildSteps(o options.BuildOptions) []Step {
	var steps []Step
	for _, a := range IOSArtifacts(o) {
		steps = append(steps, easBuildStep(o, a))
	}
	return steps
}

func publishExpoSteps(o options.BuildOptions) []Step {
	if !o.Advanced.PublishToExpo {
		return nil
	}
	return []Step{{
		Name: "Publish to Expo",
		If:   onPlatform(o, dispatchCondition(ChoicePublishExpo), PlatformAndroid),
		Run:  "eas update --auto",
		Env:  secretEnv(expoSecrets),
	}}
}

func publishStoreSteps(o options.BuildOptions) []Step {
	if !o.Advanced.PublishToStores {
		return nil
	}

	var steps []Step
	if a, ok := storeArtifact(o, PlatformAndroid); ok {
		steps = append(steps, Step{
			Name: "Submit to Play Store",
			If:   onPlatform(o, dispatchCondition(ChoicePublishStores), PlatformAndroid),
			Run:  Script(fmt.Sprintf("eas submit -p android --path %s --non-interactive", a.Path)),
			Env:  secretEnv(append(append([]Secret{}, expoSecrets...), storeSecrets...)),
		})
	}
	if a, ok := storeArtifact(o, PlatformIOS); ok {
		steps = append(steps, Step{
			Name: "Submit to App Store",
			If:   onPlatform(o, dispatchCondition(ChoicePublishStores), PlatformIOS),
			Run:  Script(fmt.Sprintf("eas submit -p ios --path %s --non-interactive", a.Path)),
			Env:  secretEnv(append(append([]Secret{}, expoSecrets...), iosSecrets...)),
		})
	}
	return steps
}

func archiveSteps(o options.BuildOptions) []Step {
	name := ArtifactName
	if o.Advanced.IOSSupport {
		name += "-${{ matrix.platform }}"
	}
	return []Step{{
		Name: "Upload build artifacts to GitHub",
		Uses: actionUpload,
		With: Map{
			{Key: "name", Value: name},
			{Key: "path", Value: pathList(ArtifactPaths(o))},
			{Key: "retention-days", Value: ArtifactRetentionDays},
		},
	}}
}

func buildNotifySteps(o options.BuildOptions) []Step {
	if !o.Advanced.Notifications {
		return nil
	}
	return []Step{notifyStep("Notify build completion", "Build Results", "Build", "completed successfully")}
}

// pathList renders artifact paths one per line
func pathList(paths []string) Script {
	if len(paths) == 0 {
		return ""
	}
	return Script(strings.Join(paths, "\n") + "\n")
}
