package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/petasbytes/codetour-mcp/internal/store"
	"github.com/petasbytes/codetour-mcp/internal/telemetry"
	"github.com/petasbytes/codetour-mcp/tour"
)

type CreateTourInput struct {
	Path        string `json:"path,omitempty" jsonschema_description:"Path to the tour file (e.g. '.tours/my-tour.tour'). When omitted the path is derived from the title."`
	Title       string `json:"title" jsonschema_description:"Title of the tour."`
	Description string `json:"description,omitempty" jsonschema_description:"Optional description of the tour."`
	Workspace   string `json:"workspace,omitempty" jsonschema_description:"Workspace root used to derive the path when path is omitted."`
}

var CreateTourDefinition = ToolDefinition{
	Op:   OpCreateTour,
	Name: OpCreateTour.String(),
	Description: `Create a new CodeTour file with no steps.

Give either an explicit path, or only a title (and optionally a workspace) to create <workspace>/.tours/<slug>.tour where the slug is the lower-cased title with spaces and slashes replaced by '-'. Fails if a file already exists at the resolved path.`,
	InputSchema: CreateTourInputSchema,
	RawSchema:   GenerateRawSchema[CreateTourInput](),
	Function:    CreateTour,
}

var CreateTourInputSchema = GenerateSchema[CreateTourInput]()

func CreateTour(ctx context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[CreateTourInput](input)
	if err != nil {
		return "", err
	}
	if err := require("title", in.Title); err != nil {
		return "", err
	}

	shown := in.Path
	if shown == "" {
		shown = store.PathForTitle(filepath.Join(in.Workspace, ws.toursDir()), in.Title)
	}
	path := ws.Resolve(shown)

	if err := store.Create(path, tour.New(in.Title, in.Description)); err != nil {
		return "", err
	}
	telemetry.Emit(ctx, slog.LevelDebug, "tour_saved", "path", path, "steps", 0)
	return fmt.Sprintf("Created tour '%s' at %s", in.Title, shown), nil
}
