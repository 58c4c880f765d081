package memory_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/go-cmp/cmp"

	"github.com/petasbytes/codetour-mcp/memory"
)

func TestConversation_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".agent", "conv.json")

	in := []memory.Message{{Role: "user", Text: "hi"}, {Role: "assistant", Text: "hello <world>"}}
	if err := memory.SaveConversation(p, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := memory.LoadConversation(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestConversation_SaveEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "conv.json")
	if err := memory.SaveConversation(p, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "[]\n" {
		t.Fatalf("unexpected file: %q", b)
	}
}

func TestConversation_LoadMissing_ReturnsNil(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "does-not-exist.json")

	msgs, err := memory.LoadConversation(p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msgs != nil {
		t.Fatalf("expected nil slice for missing file, got %#v", msgs)
	}
}

func TestConversation_LoadInvalidJSON_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(p, []byte("{oops"), 0o664); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if _, err := memory.LoadConversation(p); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestToParams(t *testing.T) {
	conv := memory.ToParams([]memory.Message{
		{Role: memory.RoleUser, Text: "make a tour"},
		{Role: memory.RoleAssistant, Text: "  "},
		{Role: memory.RoleAssistant, Text: "done"},
	})
	if len(conv) != 2 {
		t.Fatalf("expected blank message dropped, got %d messages", len(conv))
	}
	if conv[0].Role != anthropic.MessageParamRoleUser || conv[1].Role != anthropic.MessageParamRoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", conv[0].Role, conv[1].Role)
	}
}

func TestAssistantText(t *testing.T) {
	var msg anthropic.Message
	body := `{"role":"assistant","content":[{"type":"text","text":"one"},{"type":"tool_use","id":"x","name":"n","input":{}},{"type":"text","text":"two"}]}`
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := memory.AssistantText(&msg); got != "one\ntwo" {
		t.Fatalf("got %q", got)
	}
}
