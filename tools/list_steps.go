package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/codetour-mcp/internal/store"
)

type ListStepsInput struct {
	TourPath string `json:"tour_path" jsonschema_description:"Path to the tour file."`
}

var ListStepsDefinition = ToolDefinition{
	Op:          OpListSteps,
	Name:        OpListSteps.String(),
	Description: "List all steps in a tour. Descriptions are truncated to 50 characters; a step's pattern is reported as patternRegex.",
	InputSchema: ListStepsInputSchema,
	RawSchema:   GenerateRawSchema[ListStepsInput](),
	Hints:       Hints{ReadOnly: true, Idempotent: true},
	Function:    ListSteps,
}

var ListStepsInputSchema = GenerateSchema[ListStepsInput]()

func ListSteps(_ context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[ListStepsInput](input)
	if err != nil {
		return "", err
	}
	if err := require("tour_path", in.TourPath); err != nil {
		return "", err
	}
	t, err := store.Load(ws.Resolve(in.TourPath))
	if err != nil {
		return "", err
	}
	return render(t.ListSteps())
}
