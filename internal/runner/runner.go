package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/codetour-mcp/internal/telemetry"
	"github.com/petasbytes/codetour-mcp/tools"
)

// DefaultMaxTokens caps each assistant reply.
const DefaultMaxTokens = 1024

type Runner struct {
	Client    *anthropic.Client
	Tools     *tools.Toolset
	MaxTokens int64
	// System is sent as the system prompt when non-empty.
	System string
	// Out receives assistant text and tool call notices.
	Out io.Writer
}

func New(client *anthropic.Client, ts *tools.Toolset) *Runner {
	return &Runner{Client: client, Tools: ts, MaxTokens: DefaultMaxTokens, Out: os.Stdout}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	defs := r.Tools.Registry()
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunOneStep sends the conversation and either prints text or returns tool results to be appended.
func (r *Runner) RunOneStep(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	// Get turnID from context if present, else generate once for this call.
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
	}
	ctx = telemetry.WithTurnID(ctx, turnID)

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: r.MaxTokens,
		Messages:  conv,
		Tools:     r.anthropicTools(),
	}
	if r.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: r.System}}
	}

	start := time.Now()
	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		telemetry.Emit(ctx, slog.LevelError, "agent_step", "model", string(model), "messages", len(conv), "error", err.Error())
		return nil, nil, err
	}
	telemetry.Emit(ctx, slog.LevelInfo, "agent_step",
		"model", string(model),
		"messages", len(conv),
		"duration_ms", time.Since(start).Milliseconds(),
		"stop_reason", string(msg.StopReason),
		"input_tokens", msg.Usage.InputTokens,
		"output_tokens", msg.Usage.OutputTokens,
	)

	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			fmt.Fprintf(r.Out, "\u001b[93mClaude\u001b[0m: %s\n", v.Text)
		case anthropic.ToolUseBlock:
			// Pass raw JSON input through to the tool implementation
			input := json.RawMessage(v.JSON.Input.Raw())
			toolResults = append(toolResults, r.execTool(ctx, v.ID, v.Name, input))
		}
	}
	return msg, toolResults, nil
}

// execTool runs one tool_use block. Failures go back to the model as an
// error result carrying the ToolError JSON.
func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	fmt.Fprintf(r.Out, "\u001b[92mtool\u001b[0m: %s\n", name)
	resp, err := r.Tools.Call(ctx, name, input)
	if err != nil {
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	return anthropic.NewToolResultBlock(id, resp, false)
}
