package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/codetour-mcp/internal/store"
)

type ListToursInput struct {
	Dir string `json:"dir,omitempty" jsonschema_description:"Directory to search for tours (default: '.tours')."`
}

var ListToursDefinition = ToolDefinition{
	Op:          OpListTours,
	Name:        OpListTours.String(),
	Description: "List all tours in a directory (non-recursive) with their title, description and step count. Unreadable tour files are skipped.",
	InputSchema: ListToursInputSchema,
	RawSchema:   GenerateRawSchema[ListToursInput](),
	Hints:       Hints{ReadOnly: true, Idempotent: true},
	Function:    ListTours,
}

var ListToursInputSchema = GenerateSchema[ListToursInput]()

func ListTours(ctx context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[ListToursInput](input)
	if err != nil {
		return "", err
	}
	dir := ws.Tours()
	if in.Dir != "" {
		dir = ws.Resolve(in.Dir)
	}
	entries, err := store.List(ctx, dir)
	if err != nil {
		return "", err
	}
	return render(entries)
}
