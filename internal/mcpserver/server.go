// Package mcpserver exposes the tour tools over the Model Context Protocol.
//
// Tool failures are reported as results with isError set and the ToolError
// JSON as text; they never terminate the server.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/petasbytes/codetour-mcp/internal/telemetry"
	"github.com/petasbytes/codetour-mcp/internal/toolerr"
	"github.com/petasbytes/codetour-mcp/tools"
	"github.com/petasbytes/codetour-mcp/tour"
)

const Name = "codetour-mcp"

// Version is reported to clients at initialize.
var Version = "0.1.0"

// New builds an MCP server with every tool in the toolset registered.
func New(ts *tools.Toolset, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(tools.Instructions),
	)
	for _, def := range ts.Registry() {
		s.AddTool(toolFor(def), handlerFor(ts, logger, def.Name))
	}
	return s
}

// Serve runs s over newline-delimited JSON-RPC on in/out until ctx is done or in closes.
func Serve(ctx context.Context, s *server.MCPServer, logger *slog.Logger, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
	logger.Info("mcp server listening", "name", Name, "version", Version)
	return stdio.Listen(ctx, in, out)
}

func toolFor(def tools.ToolDefinition) mcp.Tool {
	tool := mcp.NewToolWithRawSchema(def.Name, def.Description, def.RawSchema)
	tool.Annotations = mcp.ToolAnnotation{
		ReadOnlyHint:    boolPtr(def.Hints.ReadOnly),
		DestructiveHint: boolPtr(def.Hints.Destructive),
		IdempotentHint:  boolPtr(def.Hints.Idempotent),
		OpenWorldHint:   boolPtr(false),
	}
	return tool
}

func handlerFor(ts *tools.Toolset, logger *slog.Logger, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = telemetry.WithLogger(ctx, logger)
		ctx = telemetry.WithTurnID(ctx, "call-"+uuid.NewString())

		input, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(toolerr.From(tour.ErrInvalidInput).Error()), nil
		}
		out, err := ts.Call(ctx, name, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func boolPtr(b bool) *bool { return &b }
