package tools

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// ToolDefinition describes one tool: its contract (name, description, input
// schema) and the handler that runs it against a workspace.
type ToolDefinition struct {
	Op          Op
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
	// RawSchema is the full JSON Schema document for transports that take one verbatim.
	RawSchema json.RawMessage
	Hints     Hints
	Function  func(ctx context.Context, ws Workspace, input json.RawMessage) (string, error)
}

// Hints advertise side effects to clients that surface them.
type Hints struct {
	ReadOnly    bool
	Idempotent  bool
	Destructive bool
}

func reflectSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// GenerateSchema derives the Anthropic tool input schema from T's JSON tags.
// Fields without omitempty are required.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	schema := reflectSchema[T]()
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
		Required:   schema.Required,
	}
}

// GenerateRawSchema returns T's schema as a standalone JSON document.
func GenerateRawSchema[T any]() json.RawMessage {
	b, err := json.Marshal(reflectSchema[T]())
	if err != nil {
		panic(err)
	}
	return b
}
