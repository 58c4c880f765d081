package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/codetour-mcp/tour"
)

type RemoveStepInput struct {
	TourPath string   `json:"tour_path" jsonschema_description:"Path to the tour file."`
	Index    *Integer `json:"index" jsonschema_description:"Step index (0-based)."`
}

var RemoveStepDefinition = ToolDefinition{
	Op:          OpRemoveStep,
	Name:        OpRemoveStep.String(),
	Description: "Remove a step from a tour. Later steps shift down by one.",
	InputSchema: RemoveStepInputSchema,
	RawSchema:   GenerateRawSchema[RemoveStepInput](),
	Hints:       Hints{Destructive: true},
	Function:    RemoveStep,
}

var RemoveStepInputSchema = GenerateSchema[RemoveStepInput]()

func RemoveStep(ctx context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[RemoveStepInput](input)
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
		if err := t.RemoveStep(i); err != nil {
			return "", err
		}
		return fmt.Sprintf("Removed step at index %d", i), nil
	})
}
