package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/codetour-mcp/internal/store"
)

type ReadTourInput struct {
	Path string `json:"path" jsonschema_description:"Path to the tour file."`
}

var ReadTourDefinition = ToolDefinition{
	Op:          OpReadTour,
	Name:        OpReadTour.String(),
	Description: "Read a complete tour object from a file.",
	InputSchema: ReadTourInputSchema,
	RawSchema:   GenerateRawSchema[ReadTourInput](),
	Hints:       Hints{ReadOnly: true, Idempotent: true},
	Function:    ReadTour,
}

var ReadTourInputSchema = GenerateSchema[ReadTourInput]()

func ReadTour(_ context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[ReadTourInput](input)
	if err != nil {
		return "", err
	}
	if err := require("path", in.Path); err != nil {
		return "", err
	}
	t, err := store.Load(ws.Resolve(in.Path))
	if err != nil {
		return "", err
	}
	return render(t)
}
