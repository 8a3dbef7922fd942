package github

import (
	"path"
	"strings"

	"github.com/edelwud/expoci/pkg/options"
)

// Platforms
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

// Artifact is a build output produced by one EAS build step
type Artifact struct {
	// Choice is the workflow_dispatch buildType value that selects it
	Choice   string
	Title    string
	Platform string
	Profile  string
	NodeEnv  string
	Path     string
}

// RemoteName returns the file name used on remote storage, e.g.
// app-dev-$VERSION-$BUILD_NUMBER.apk
func (a Artifact) RemoteName() string {
	base := path.Base(a.Path)
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext) + "-$VERSION-$BUILD_NUMBER" + ext
}

var androidArtifacts = map[options.BuildKind]Artifact{
	options.BuildDev: {
		Choice:   string(options.BuildDev),
		Title:    "development APK",
		Platform: PlatformAndroid,
		Profile:  "development",
		NodeEnv:  "development",
		Path:     "./app-dev.apk",
	},
	options.BuildProdAPK: {
		Choice:   string(options.BuildProdAPK),
		Title:    "production APK",
		Platform: PlatformAndroid,
		Profile:  "production-apk",
		NodeEnv:  "production",
		Path:     "./app-prod.apk",
	},
	options.BuildProdAAB: {
		Choice:   string(options.BuildProdAAB),
		Title:    "production AAB",
		Platform: PlatformAndroid,
		Profile:  "production",
		NodeEnv:  "production",
		Path:     "./app-prod.aab",
	},
}

var (
	iosDevArtifact = Artifact{
		Choice:   "ios-dev",
		Title:    "iOS development app",
		Platform: PlatformIOS,
		Profile:  "development",
		NodeEnv:  "development",
		Path:     "./app-ios-dev.app",
	}
	iosProdArtifact = Artifact{
		Choice:   "ios-prod",
		Title:    "iOS production IPA",
		Platform: PlatformIOS,
		Profile:  "production",
		NodeEnv:  "production",
		Path:     "./app-ios-prod.ipa",
	}
)

// AndroidArtifacts returns the Android outputs for the selected build kinds
// in canonical order
func AndroidArtifacts(o options.BuildOptions) []Artifact {
	var result []Artifact
	for _, k := range options.BuildKinds {
		if o.HasBuildKind(k) {
			result = append(result, androidArtifacts[k])
		}
	}
	return result
}

// IOSArtifacts returns the iOS outputs mirroring the selected build kinds.
// The production IPA is also built when store submission is on, since the
// App Store step needs it. Empty unless iOS support is enabled.
func IOSArtifacts(o options.BuildOptions) []Artifact {
	if !o.Advanced.IOSSupport {
		return nil
	}
	var result []Artifact
	if o.HasBuildKind(options.BuildDev) {
		result = append(result, iosDevArtifact)
	}
	if o.HasProdBuild() || o.Advanced.PublishToStores {
		result = append(result, iosProdArtifact)
	}
	return result
}

// Artifacts returns every build output, Android first
func Artifacts(o options.BuildOptions) []Artifact {
	return append(AndroidArtifacts(o), IOSArtifacts(o)...)
}

// ArtifactPaths returns the local paths of every build output
func ArtifactPaths(o options.BuildOptions) []string {
	artifacts := Artifacts(o)
	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = a.Path
	}
	return paths
}

// storeArtifact returns the artifact submitted to the platform's store.
// Android prefers the AAB, then the production APK, and falls back to the
// AAB path when neither is built.
func storeArtifact(o options.BuildOptions, platform string) (Artifact, bool) {
	if platform == PlatformIOS {
		if !o.Advanced.IOSSupport {
			return Artifact{}, false
		}
		return iosProdArtifact, true
	}
	for _, k := range []options.BuildKind{options.BuildProdAAB, options.BuildProdAPK} {
		if o.HasBuildKind(k) {
			return androidArtifacts[k], true
		}
	}
	return androidArtifacts[options.BuildProdAAB], true
}
