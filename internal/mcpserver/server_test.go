package mcpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/petasbytes/codetour-mcp/internal/mcpserver"
	"github.com/petasbytes/codetour-mcp/internal/toolerr"
	"github.com/petasbytes/codetour-mcp/tools"
)

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type callResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func newServer(t *testing.T) (*server.MCPServer, string) {
	t.Helper()
	root := t.TempDir()
	logger := slog.New(slog.DiscardHandler)
	s := mcpserver.New(tools.New(tools.Workspace{Root: root}), logger)
	send(t, s, 1, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
	})
	return s, root
}

func send(t *testing.T, s *server.MCPServer, id int, method string, params any) rpcResponse {
	t.Helper()
	msg, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": id, "method": method, "params": params})
	if err != nil {
		t.Fatal(err)
	}
	reply := s.HandleMessage(context.Background(), msg)
	b, err := json.Marshal(reply)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	var resp rpcResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		t.Fatalf("decode reply %s: %v", b, err)
	}
	if resp.Error != nil {
		t.Fatalf("%s: rpc error %d %s", method, resp.Error.Code, resp.Error.Message)
	}
	return resp
}

func callTool(t *testing.T, s *server.MCPServer, id int, name string, args any) callResult {
	t.Helper()
	resp := send(t, s, id, "tools/call", map[string]any{"name": name, "arguments": args})
	var res callResult
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(res.Content) != 1 || res.Content[0].Type != "text" {
		t.Fatalf("unexpected content: %+v", res.Content)
	}
	return res
}

func TestInitialize_Instructions(t *testing.T) {
	s := mcpserver.New(tools.New(tools.Workspace{Root: t.TempDir()}), slog.New(slog.DiscardHandler))
	resp := send(t, s, 1, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
	})
	var res struct {
		ServerInfo struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
		Instructions string `json:"instructions"`
	}
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		t.Fatal(err)
	}
	if res.ServerInfo.Name != mcpserver.Name {
		t.Fatalf("server name = %q", res.ServerInfo.Name)
	}
	if !strings.Contains(res.Instructions, "CodeTour") {
		t.Fatalf("missing instructions: %q", res.Instructions)
	}
}

func TestToolsList(t *testing.T) {
	s, _ := newServer(t)
	resp := send(t, s, 2, "tools/list", map[string]any{})
	var res struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Type     string   `json:"type"`
				Required []string `json:"required"`
			} `json:"inputSchema"`
			Annotations struct {
				ReadOnlyHint    *bool `json:"readOnlyHint"`
				DestructiveHint *bool `json:"destructiveHint"`
			} `json:"annotations"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Tools) != len(tools.Registry()) {
		t.Fatalf("got %d tools, want %d", len(res.Tools), len(tools.Registry()))
	}
	byName := map[string]int{}
	for i, tl := range res.Tools {
		byName[tl.Name] = i
		if tl.InputSchema.Type != "object" {
			t.Errorf("%s: schema type %q", tl.Name, tl.InputSchema.Type)
		}
	}
	read := res.Tools[byName["read_tour"]]
	if read.Annotations.ReadOnlyHint == nil || !*read.Annotations.ReadOnlyHint {
		t.Errorf("read_tour should be annotated read-only")
	}
	remove := res.Tools[byName["remove_step"]]
	if remove.Annotations.DestructiveHint == nil || !*remove.Annotations.DestructiveHint {
		t.Errorf("remove_step should be annotated destructive")
	}
	if got := res.Tools[byName["insert_step"]].InputSchema.Required; len(got) != 4 {
		t.Errorf("insert_step required = %v", got)
	}
}

func TestToolsCall_RoundTrip(t *testing.T) {
	s, root := newServer(t)

	res := callTool(t, s, 2, "create_tour", map[string]any{"path": ".tours/demo.tour", "title": "Demo Tour"})
	if res.IsError || res.Content[0].Text != "Created tour 'Demo Tour' at .tours/demo.tour" {
		t.Fatalf("create: %+v", res)
	}
	res = callTool(t, s, 3, "insert_step", map[string]any{
		"tour_path":     ".tours/demo.tour",
		"file":          "a.py",
		"pattern_regex": "foo",
		"description":   "d1",
	})
	if res.IsError || res.Content[0].Text != "Inserted step at index 0" {
		t.Fatalf("insert: %+v", res)
	}

	b, err := os.ReadFile(filepath.Join(root, ".tours", "demo.tour"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"pattern": "foo"`) {
		t.Fatalf("step not persisted:\n%s", b)
	}
}

func TestToolsCall_ErrorsAreResults(t *testing.T) {
	s, _ := newServer(t)

	cases := []struct {
		name string
		args map[string]any
		code string
	}{
		{"read_tour", map[string]any{"path": "missing.tour"}, toolerr.CodeNotFound},
		{"get_step", map[string]any{"tour_path": "missing.tour", "index": 0}, toolerr.CodeNotFound},
		{"create_tour", map[string]any{}, toolerr.CodeInvalidInput},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("%s_%s", tc.name, tc.code), func(t *testing.T) {
			res := callTool(t, s, 10+i, tc.name, tc.args)
			if !res.IsError {
				t.Fatalf("expected isError result, got %+v", res)
			}
			var te toolerr.ToolError
			if err := json.Unmarshal([]byte(res.Content[0].Text), &te); err != nil {
				t.Fatalf("error text is not ToolError JSON: %q", res.Content[0].Text)
			}
			if te.Code != tc.code {
				t.Fatalf("code = %s, want %s", te.Code, tc.code)
			}
		})
	}
}
