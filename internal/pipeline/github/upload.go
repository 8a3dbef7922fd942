package github

import (
	"fmt"

	"github.com/edelwud/expoci/pkg/options"
)

// rcloneConfigPath is where the generated rclone config is written
const rcloneConfigPath = "~/.config/rclone/rclone.conf"

// remoteStorage describes an rclone remote for one storage target
type remoteStorage struct {
	remote string
	label  string
	// config holds the key/value lines of the remote section
	config []string
}

var remoteStorages = map[options.StorageTarget]remoteStorage{
	options.StorageZohoDrive: {
		remote: "zohodrive",
		label:  "Zoho Drive",
		config: []string{
			"type = ${RCLONE_CONFIG_ZOHODRIVE_TYPE}",
			"region = com",
			"token = ${RCLONE_CONFIG_ZOHODRIVE_TOKEN}",
			"root_folder_id = ${RCLONE_CONFIG_ZOHODRIVE_DRIVE_ID}",
		},
	},
	options.StorageGoogleDrive: {
		remote: "gdrive",
		label:  "Google Drive",
		config: []string{
			"type = ${RCLONE_CONFIG_GDRIVE_TYPE}",
			"token = ${RCLONE_CONFIG_GDRIVE_TOKEN}",
			"root_folder_id = ${RCLONE_CONFIG_GDRIVE_ROOT_FOLDER_ID}",
		},
	},
	options.StorageCustom: {
		remote: "cloud",
		label:  "cloud storage",
		config: []string{
			"type = ${CLOUD_STORAGE_TYPE}",
			"token = ${CLOUD_STORAGE_TOKEN}",
			"root_folder_id = ${CLOUD_STORAGE_ROOT_ID}",
		},
	},
}

// uploadSteps returns the storage phase selected by the storage target
func uploadSteps(o options.BuildOptions) []Step {
	switch {
	case o.Storage == options.StorageGitHubRelease:
		return releaseSteps(o)
	case o.Storage.Remote():
		return remoteSteps(o, remoteStorages[o.Storage])
	}
	return nil
}

func releaseSteps(o options.BuildOptions) []Step {
	tag := "v${{ steps.build-info.outputs.version }}-${{ steps.build-info.outputs.build_number }}"
	return []Step{
		{
			Name: "Generate build information",
			ID:   "build-info",
			Run: lines(
				appVersion,
				buildNumber,
				`echo "version=$VERSION" >> $GITHUB_OUTPUT`,
				`echo "build_number=$BUILD_NUMBER" >> $GITHUB_OUTPUT`,
				"if git describe --tags --abbrev=0 > /dev/null 2>&1; then",
				"  LAST_TAG=$(git describe --tags --abbrev=0)",
				`  git log $LAST_TAG..HEAD --pretty=format:"- %s" > changelog.md`,
				"else",
				`  git log --pretty=format:"- %s" -n 10 > changelog.md`,
				"fi",
			),
		},
		{
			Name: "Create GitHub Release",
			Uses: actionRelease,
			With: Map{
				{Key: "draft", Value: true},
				{Key: "name", Value: "Release " + tag},
				{Key: "tag_name", Value: tag},
				{Key: "files", Value: pathList(ArtifactPaths(o))},
				{Key: "body_path", Value: "changelog.md"},
			},
			Env: Map{{Key: "GITHUB_TOKEN", Value: "${{ secrets.GITHUB_TOKEN }}"}},
		},
	}
}

func remoteSteps(o options.BuildOptions, rs remoteStorage) []Step {
	config := []string{
		"mkdir -p ~/.config/rclone",
		fmt.Sprintf("cat > %s << EOF", rcloneConfigPath),
		fmt.Sprintf("[%s]", rs.remote),
	}
	config = append(config, rs.config...)
	config = append(config,
		"EOF",
		fmt.Sprintf("chmod 600 %s", rcloneConfigPath),
		fmt.Sprintf("rclone ls %s: --max-depth 1", rs.remote),
	)

	steps := []Step{
		{
			Name: "Setup rclone",
			Uses: actionRclone,
			With: Map{{Key: "version", Value: "latest"}},
		},
		{
			Name: "Configure rclone",
			Run:  lines(config...),
		},
		{
			Name: "Create remote build folder",
			Run: lines(
				appVersion,
				buildNumber,
				`FOLDER_PATH="App Builds/$VERSION-$BUILD_NUMBER"`,
				fmt.Sprintf(`rclone mkdir "%s:$FOLDER_PATH"`, rs.remote),
				`echo "VERSION=$VERSION" >> $GITHUB_ENV`,
				`echo "BUILD_NUMBER=$BUILD_NUMBER" >> $GITHUB_ENV`,
				`echo "FOLDER_PATH=$FOLDER_PATH" >> $GITHUB_ENV`,
			),
		},
	}

	for _, a := range Artifacts(o) {
		steps = append(steps, Step{
			Name: fmt.Sprintf("Upload %s to %s", a.Title, rs.label),
			If:   artifactCondition(o, a),
			Run:  Script(fmt.Sprintf(`rclone copyto %s "%s:$FOLDER_PATH/%s" -v`, a.Path, rs.remote, a.RemoteName())),
		})
	}
	return steps
}
