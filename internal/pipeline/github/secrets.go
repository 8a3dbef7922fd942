package github

import (
	"fmt"

	"github.com/edelwud/expoci/pkg/options"
)

// Secret is a repository secret referenced by the workflow
type Secret struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Ref returns the expression that reads the secret
func (s Secret) Ref() string {
	return fmt.Sprintf("${{ secrets.%s }}", s.Name)
}

var (
	expoSecrets = []Secret{
		{Name: "EXPO_TOKEN", Description: "Your Expo account token"},
	}
	iosSecrets = []Secret{
		{Name: "EXPO_APPLE_ID", Description: "Your Apple Developer account email"},
		{Name: "EXPO_APPLE_PASSWORD", Description: "Your Apple Developer account password or app-specific password"},
		{Name: "EXPO_TEAM_ID", Description: "Your Apple Developer Team ID"},
	}
	storeSecrets = []Secret{
		{Name: "GOOGLE_PLAY_SERVICE_ACCOUNT", Description: "Google Play service account JSON (base64 encoded)"},
	}
	notificationSecrets = []Secret{
		{Name: "SLACK_WEBHOOK", Description: "Slack webhook URL for notifications (optional)"},
		{Name: "DISCORD_WEBHOOK", Description: "Discord webhook URL for notifications (optional)"},
	}
	storageSecrets = map[options.StorageTarget][]Secret{
		options.StorageZohoDrive: {
			{Name: "RCLONE_CONFIG_ZOHODRIVE_TYPE", Description: `Set to "zoho" for Zoho Drive`},
			{Name: "RCLONE_CONFIG_ZOHODRIVE_TOKEN", Description: "Authentication token for Zoho Drive"},
			{Name: "RCLONE_CONFIG_ZOHODRIVE_DRIVE_ID", Description: "Root folder ID in Zoho Drive"},
		},
		options.StorageGoogleDrive: {
			{Name: "RCLONE_CONFIG_GDRIVE_TYPE", Description: `Set to "drive" for Google Drive`},
			{Name: "RCLONE_CONFIG_GDRIVE_TOKEN", Description: "Authentication token for Google Drive"},
			{Name: "RCLONE_CONFIG_GDRIVE_ROOT_FOLDER_ID", Description: "Root folder ID in Google Drive"},
		},
		options.StorageCustom: {
			{Name: "CLOUD_STORAGE_TYPE", Description: `Your cloud storage provider type (e.g., "zoho", "drive")`},
			{Name: "CLOUD_STORAGE_TOKEN", Description: "Authentication token for your cloud storage"},
			{Name: "CLOUD_STORAGE_ROOT_ID", Description: "Root folder ID in your cloud storage"},
		},
	}
)

// StorageSecrets returns the credentials a storage target needs. GitHub
// artifacts and releases need none.
func StorageSecrets(s options.StorageTarget) []Secret {
	return storageSecrets[s]
}

// RequiredSecrets lists the repository secrets the generated workflow reads,
// in the order they appear in its env section
func RequiredSecrets(o options.BuildOptions) []Secret {
	secrets := append([]Secret{}, expoSecrets...)
	if o.Advanced.IOSSupport {
		secrets = append(secrets, iosSecrets...)
	}
	if o.Advanced.PublishToStores {
		secrets = append(secrets, storeSecrets...)
	}
	if o.Advanced.Notifications {
		secrets = append(secrets, notificationSecrets...)
	}
	return append(secrets, StorageSecrets(o.Storage)...)
}

// secretEnv maps each secret to an env entry reading it
func secretEnv(secrets []Secret) Map {
	env := make(Map, 0, len(secrets))
	for _, s := range secrets {
		env = append(env, Entry{Key: s.Name, Value: s.Ref()})
	}
	return env
}

// MissingSecrets returns the required secrets with no value in defined
func MissingSecrets(o options.BuildOptions, defined map[string]string) []Secret {
	var missing []Secret
	for _, s := range RequiredSecrets(o) {
		if defined[s.Name] == "" {
			missing = append(missing, s)
		}
	}
	return missing
}
