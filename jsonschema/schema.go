package jsonschema

// Draft is the dialect emitted by the projection.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	Schema string             `json:"$schema,omitempty"`
	Ref    string             `json:"$ref,omitempty"`
	Defs   map[string]*Schema `json:"$defs,omitempty"`

	// Core
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union
	AnyOf []*Schema `json:"anyOf,omitempty"`
}

// DefRef returns the local reference to a definition in $defs.
func DefRef(name string) string { return "#/$defs/" + name }
