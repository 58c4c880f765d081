package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/petasbytes/codetour-mcp/internal/store"
	"github.com/petasbytes/codetour-mcp/internal/telemetry"
	"github.com/petasbytes/codetour-mcp/internal/toolerr"
	"github.com/petasbytes/codetour-mcp/tour"
)

// DefaultToursDir is where tours live relative to the workspace root.
const DefaultToursDir = ".tours"

// Workspace anchors relative paths given to tools. Paths are not confined to
// Root; absolute paths are used as given.
type Workspace struct {
	Root     string
	ToursDir string
}

// Resolve joins a relative p onto Root.
func (w Workspace) Resolve(p string) string {
	if filepath.IsAbs(p) || w.Root == "" {
		return p
	}
	return filepath.Join(w.Root, p)
}

// Tours returns the resolved tours directory.
func (w Workspace) Tours() string {
	return w.Resolve(w.toursDir())
}

func (w Workspace) toursDir() string {
	if w.ToursDir == "" {
		return DefaultToursDir
	}
	return w.ToursDir
}

// Toolset runs tool calls by name against one workspace.
type Toolset struct {
	ws Workspace
}

func New(ws Workspace) *Toolset {
	return &Toolset{ws: ws}
}

// Workspace returns the workspace the toolset operates on.
func (ts *Toolset) Workspace() Workspace { return ts.ws }

// Registry returns every tool definition.
func (ts *Toolset) Registry() []ToolDefinition { return Registry() }

// Call runs the tool called name with the raw JSON input and records a
// tool_exec event. Failures are returned as toolerr.ToolError.
func (ts *Toolset) Call(ctx context.Context, name string, input json.RawMessage) (string, error) {
	start := time.Now()
	out, err := ts.call(ctx, name, input)

	var errCode any
	level := slog.LevelInfo
	if err != nil {
		err = toolerr.From(err)
		errCode = toolerr.Code(err)
		level = slog.LevelWarn
	}
	// Sizes only; payloads can carry file contents.
	telemetry.Emit(ctx, level, "tool_exec",
		"tool_name", name,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_size", len(input),
		"output_size", len(out),
		"error", errCode,
	)
	return out, err
}

func (ts *Toolset) call(ctx context.Context, name string, input json.RawMessage) (string, error) {
	op, err := ParseOp(name)
	if err != nil {
		return "", err
	}
	def, err := Definition(op)
	if err != nil {
		return "", err
	}
	return def.Function(ctx, ts.ws, input)
}

// decode unmarshals tool input; an empty input is treated as {}.
func decode[T any](input json.RawMessage) (T, error) {
	var in T
	if len(bytes.TrimSpace(input)) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return in, fmt.Errorf("%w: %v", tour.ErrInvalidInput, err)
	}
	return in, nil
}

func require(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", tour.ErrInvalidInput, field)
	}
	return nil
}

func requireIndex(index *Integer) (int, error) {
	if index == nil {
		return 0, fmt.Errorf("%w: index is required", tour.ErrInvalidInput)
	}
	return int(*index), nil
}

// Integer is an integer tool argument. Integral floats such as 2.0 are
// accepted since some clients send every number as a float.
type Integer int

func (n *Integer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return fmt.Errorf("expected a number, got %s", b)
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	if i, err := num.Int64(); err == nil {
		*n = Integer(i)
		return nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("expected an integer, got %s", num)
	}
	*n = Integer(f)
	return nil
}

// intPtr converts an optional Integer for the tour package.
func (n *Integer) intPtr() *int {
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

// render formats v as two-space indented JSON without HTML escaping.
func render(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// edit loads the tour at path, applies fn and saves the result. Nothing is
// written when fn fails.
func edit(ctx context.Context, path string, fn func(*tour.Tour) (string, error)) (string, error) {
	t, err := store.Load(path)
	if err != nil {
		return "", err
	}
	msg, err := fn(t)
	if err != nil {
		return "", err
	}
	if err := store.Save(path, t); err != nil {
		return "", err
	}
	telemetry.Emit(ctx, slog.LevelDebug, "tour_saved", "path", path, "steps", len(t.Steps))
	return msg, nil
}
