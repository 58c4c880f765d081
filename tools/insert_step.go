package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/codetour-mcp/tour"
)

type InsertStepInput struct {
	TourPath     string   `json:"tour_path" jsonschema_description:"Path to the tour file."`
	Index        *Integer `json:"index,omitempty" jsonschema_description:"Position to insert the step (omit to append)."`
	File         string   `json:"file" jsonschema_description:"File path relative to workspace root."`
	PatternRegex string   `json:"pattern_regex" jsonschema_description:"Regular expression to match in the file."`
	Description  string   `json:"description" jsonschema_description:"Description of the step."`
	Title        string   `json:"title,omitempty" jsonschema_description:"Optional title for the step."`
}

var InsertStepDefinition = ToolDefinition{
	Op:          OpInsertStep,
	Name:        OpInsertStep.String(),
	Description: "Insert a step into a tour using pattern regex. Omit index to append; an index past either end is clamped.",
	InputSchema: InsertStepInputSchema,
	RawSchema:   GenerateRawSchema[InsertStepInput](),
	Function:    InsertStep,
}

var InsertStepInputSchema = GenerateSchema[InsertStepInput]()

func InsertStep(ctx context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[InsertStepInput](input)
	if err != nil {
		return "", err
	}
	if err := requireAll("tour_path", in.TourPath, "file", in.File, "pattern_regex", in.PatternRegex, "description", in.Description); err != nil {
		return "", err
	}
	step := tour.BuildStep(in.File, in.Description, in.Title, tour.AtPattern(in.PatternRegex))
	return insert(ctx, ws.Resolve(in.TourPath), step, in.Index.intPtr())
}

type InsertStepByDirectoryInput struct {
	TourPath    string   `json:"tour_path" jsonschema_description:"Path to the tour file."`
	Index       *Integer `json:"index,omitempty" jsonschema_description:"Position to insert the step (omit to append)."`
	File        string   `json:"file" jsonschema_description:"File path relative to workspace root."`
	Directory   string   `json:"directory" jsonschema_description:"Directory path relative to workspace root."`
	Description string   `json:"description" jsonschema_description:"Description of the step."`
	Title       string   `json:"title,omitempty" jsonschema_description:"Optional title for the step."`
}

var InsertStepByDirectoryDefinition = ToolDefinition{
	Op:          OpInsertStepByDirectory,
	Name:        OpInsertStepByDirectory.String(),
	Description: "Insert a step into a tour using directory location. Omit index to append; an index past either end is clamped.",
	InputSchema: InsertStepByDirectoryInputSchema,
	RawSchema:   GenerateRawSchema[InsertStepByDirectoryInput](),
	Function:    InsertStepByDirectory,
}

var InsertStepByDirectoryInputSchema = GenerateSchema[InsertStepByDirectoryInput]()

func InsertStepByDirectory(ctx context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[InsertStepByDirectoryInput](input)
	if err != nil {
		return "", err
	}
	if err := requireAll("tour_path", in.TourPath, "file", in.File, "directory", in.Directory, "description", in.Description); err != nil {
		return "", err
	}
	step := tour.BuildStep(in.File, in.Description, in.Title, tour.AtDirectory(in.Directory))
	return insert(ctx, ws.Resolve(in.TourPath), step, in.Index.intPtr())
}

type InsertStepByLineInput struct {
	TourPath    string   `json:"tour_path" jsonschema_description:"Path to the tour file."`
	Index       *Integer `json:"index,omitempty" jsonschema_description:"Position to insert the step (omit to append)."`
	File        string   `json:"file" jsonschema_description:"File path relative to workspace root."`
	Line        *Integer `json:"line" jsonschema_description:"1-based line number in the file."`
	Description string   `json:"description" jsonschema_description:"Description of the step."`
	Title       string   `json:"title,omitempty" jsonschema_description:"Optional title for the step."`
}

var InsertStepByLineDefinition = ToolDefinition{
	Op:          OpInsertStepByLine,
	Name:        OpInsertStepByLine.String(),
	Description: "Insert a step into a tour pointing at a line number. Omit index to append; an index past either end is clamped.",
	InputSchema: InsertStepByLineInputSchema,
	RawSchema:   GenerateRawSchema[InsertStepByLineInput](),
	Function:    InsertStepByLine,
}

var InsertStepByLineInputSchema = GenerateSchema[InsertStepByLineInput]()

func InsertStepByLine(ctx context.Context, ws Workspace, input json.RawMessage) (string, error) {
	in, err := decode[InsertStepByLineInput](input)
	if err != nil {
		return "", err
	}
	if err := requireAll("tour_path", in.TourPath, "file", in.File, "description", in.Description); err != nil {
		return "", err
	}
	if in.Line == nil || *in.Line < 1 {
		return "", fmt.Errorf("%w: line must be a positive integer", tour.ErrInvalidInput)
	}
	step := tour.BuildStep(in.File, in.Description, in.Title, tour.AtLine(int(*in.Line)))
	return insert(ctx, ws.Resolve(in.TourPath), step, in.Index.intPtr())
}

func insert(ctx context.Context, path string, step tour.Step, index *int) (string, error) {
	return edit(ctx, path, func(t *tour.Tour) (string, error) {
		i := t.InsertStep(step, index)
		return fmt.Sprintf("Inserted step at index %d", i), nil
	})
}

// requireAll takes field/value pairs and reports the first empty value.
func requireAll(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := require(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
