package skills

import "github.com/invopop/jsonschema"

// GenerateSchema reflects the JSON schema for a skill's input type.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}
