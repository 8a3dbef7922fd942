package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema returns the JSON Schema for .expoci.yaml configuration
func GenerateJSONSchema() string {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.ID = "https://github.com/edelwud/expoci/raw/main/expoci.schema.json"
	schema.Title = "expoci Configuration"
	schema.Description = "Configuration schema for expoci - GitHub Actions workflow generator for React Native and Expo apps"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "{}"
	}

	return string(data)
}
