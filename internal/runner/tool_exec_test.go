package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/codetour-mcp/internal/provider"
	"github.com/petasbytes/codetour-mcp/internal/telemetry"
)

// withEvents returns a context whose logger writes JSON lines to the returned buffer.
func withEvents(ctx context.Context) (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return telemetry.WithLogger(ctx, logger), buf
}

func readEventLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func lastEvent(events []map[string]any, name string) map[string]any {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i]["event"] == name {
			return events[i]
		}
	}
	return nil
}

func TestRunner_ToolExec_Success(t *testing.T) {
	resp := `{
		"role": "assistant",
		"content": [
			{"type": "tool_use", "id": "t1", "name": "list_tours", "input": {}}
		]
	}`
	r, _, _ := newRunner(t, &fakeTransport{respStatus: 200, respBody: []byte(resp)})
	ctx, buf := withEvents(context.Background())
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("list tours"))}

	if _, _, err := r.RunOneStep(ctx, provider.DefaultModel, conv); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	events := readEventLines(t, buf)

	exec := lastEvent(events, "tool_exec")
	if exec == nil {
		t.Fatal("no tool_exec event found")
	}
	if exec["tool_name"] != "list_tours" {
		t.Errorf("tool_name: want list_tours, got %v", exec["tool_name"])
	}
	if v, ok := exec["duration_ms"].(float64); !ok || v < 0 {
		t.Errorf("duration_ms should be >= 0, got %v", exec["duration_ms"])
	}
	if v, ok := exec["input_size"].(float64); !ok || v != 2 {
		t.Errorf("input_size should be len({}), got %v", exec["input_size"])
	}
	if v, ok := exec["output_size"].(float64); !ok || v != 2 {
		t.Errorf("output_size should be len([]), got %v", exec["output_size"])
	}
	if _, ok := exec["error"]; !ok {
		t.Errorf("missing error field")
	} else if exec["error"] != nil {
		t.Errorf("error should be null on success, got %v", exec["error"])
	}

	step := lastEvent(events, "agent_step")
	if step == nil {
		t.Fatal("no agent_step event found")
	}
	if s, ok := exec["turn_id"].(string); !ok || strings.TrimSpace(s) == "" {
		t.Errorf("turn_id missing or empty: %v", exec["turn_id"])
	}
	if exec["turn_id"] != step["turn_id"] {
		t.Errorf("turn_id mismatch between tool_exec and agent_step: %v vs %v", exec["turn_id"], step["turn_id"])
	}
}

func TestRunner_ToolExec_ErrorCode(t *testing.T) {
	resp := `{
		"role": "assistant",
		"content": [
			{"type": "tool_use", "id": "e1", "name": "remove_step", "input": {"tour_path": "none.tour", "index": 0}}
		]
	}`
	r, _, _ := newRunner(t, &fakeTransport{respStatus: 200, respBody: []byte(resp)})
	ctx, buf := withEvents(context.Background())
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("remove"))}

	if _, _, err := r.RunOneStep(ctx, provider.DefaultModel, conv); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	exec := lastEvent(readEventLines(t, buf), "tool_exec")
	if exec == nil {
		t.Fatal("no tool_exec event found")
	}
	if exec["error"] != "ERR_NOT_FOUND" {
		t.Errorf("expected ERR_NOT_FOUND, got %v", exec["error"])
	}
	if v, ok := exec["output_size"].(float64); !ok || v != 0 {
		t.Errorf("output_size should be 0 on error, got %v", exec["output_size"])
	}
	if exec["level"] != "WARN" {
		t.Errorf("failed tool calls log at WARN, got %v", exec["level"])
	}
}

func TestRunner_ToolExec_TurnID_Propagation(t *testing.T) {
	resp := `{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"list_tours","input":{}}]}`
	r, _, _ := newRunner(t, &fakeTransport{respStatus: 200, respBody: []byte(resp)})
	ctx, buf := withEvents(telemetry.WithTurnID(context.Background(), "turn-xyz"))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("list"))}

	if _, _, err := r.RunOneStep(ctx, provider.DefaultModel, conv); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	events := readEventLines(t, buf)
	step, exec := lastEvent(events, "agent_step"), lastEvent(events, "tool_exec")
	if step == nil || exec == nil {
		t.Fatal("missing agent_step or tool_exec")
	}
	if step["turn_id"] != "turn-xyz" {
		t.Errorf("agent_step turn_id = %v", step["turn_id"])
	}
	if exec["turn_id"] != "turn-xyz" {
		t.Errorf("tool_exec turn_id = %v", exec["turn_id"])
	}
}

func TestRunner_ToolExec_Privacy_NoRawPayloadLeak(t *testing.T) {
	secret := "__SECRET_NEVER_APPEAR__"
	// Input includes a distinctive secret string
	resp := fmt.Sprintf(`{
		"role": "assistant",
		"content": [
			{"type": "tool_use", "id": "t1", "name": "read_tour", "input": {"path": %q}}
		]
	}`, secret)
	r, _, _ := newRunner(t, &fakeTransport{respStatus: 200, respBody: []byte(resp)})
	ctx, buf := withEvents(context.Background())
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("read"))}

	if _, _, err := r.RunOneStep(ctx, provider.DefaultModel, conv); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected events written")
	}
	if strings.Contains(buf.String(), secret) {
		t.Fatalf("raw payload leaked into telemetry: %s", buf.String())
	}
}
