package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/codetour-mcp/tour"
)

type UpdateStepInput struct {
	TourPath    string   `json:"tour_path" jsonschema_description:"Path to the tour file."`
	Index       *Integer `json:"index" jsonschema_description:"Step index (0-based)."`
	Description *string  `json:"description,omitempty" jsonschema_description:"New description."`
	Title       *string  `json:"title,omitempty" jsonschema_description:"New title."`
}

var UpdateStepDefinition = ToolDefinition{
	Op:          OpUpdateStep,
	Name:        OpUpdateStep.String(),
	Description: "Update an existing step's description or title. Fields not supplied are left unchanged.",
	InputSchema: UpdateStepInputSchema,
	RawSchema:   GenerateRawSchema[UpdateStepInput](),
	Hints:       Hints{Idempotent: true},
	Function:    UpdateStep,
}

var UpdateStepInputSchema = GenerateSchema[UpdateStepInput]()

func UpdateStep(ctx context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[UpdateStepInput](input)
	if err != nil {
		return "", err
	}
	if err := require("tour_path", in.TourPath); err != nil {
		return "", err
	}
	i, err := requireIndex(in.Index)
	if err != nil {
		return "", err
	}
	return edit(ctx, ws.Resolve(in.TourPath), func(t *tour.Tour) (string, error) {
		if err := t.UpdateStep(i, tour.StepUpdate{Description: in.Description, Title: in.Title}); err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated step at index %d", i), nil
	})
}
