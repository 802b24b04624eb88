package genai

// Schema mirrors the subset of the Gemini responseSchema format we use.
// It is declared independently of any request so callers can build and test
// response contracts without touching the network.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

const (
	TypeObject  = "OBJECT"
	TypeArray   = "ARRAY"
	TypeString  = "STRING"
	TypeNumber  = "NUMBER"
	TypeInteger = "INTEGER"
	TypeBoolean = "BOOLEAN"
)

func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: properties, Required: required}
}

func Array(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

func String() *Schema {
	return &Schema{Type: TypeString}
}

func StringEnum(values ...string) *Schema {
	return &Schema{Type: TypeString, Enum: values}
}

func Number() *Schema {
	return &Schema{Type: TypeNumber}
}

func StringWithDescription(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}
