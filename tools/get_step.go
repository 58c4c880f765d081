package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/codetour-mcp/internal/store"
)

type GetStepInput struct {
	TourPath string   `json:"tour_path" jsonschema_description:"Path to the tour file."`
	Index    *Integer `json:"index" jsonschema_description:"Step index (0-based)."`
}

var GetStepDefinition = ToolDefinition{
	Op:          OpGetStep,
	Name:        OpGetStep.String(),
	Description: "Get a specific step from a tour, exactly as stored.",
	InputSchema: GetStepInputSchema,
	RawSchema:   GenerateRawSchema[GetStepInput](),
	Hints:       Hints{ReadOnly: true, Idempotent: true},
	Function:    GetStep,
}

var GetStepInputSchema = GenerateSchema[GetStepInput]()

func GetStep(_ context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[GetStepInput](input)
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
	t, err := store.Load(ws.Resolve(in.TourPath))
	if err != nil {
		return "", err
	}
	step, err := t.Step(i)
	if err != nil {
		return "", err
	}
	return render(step)
}
