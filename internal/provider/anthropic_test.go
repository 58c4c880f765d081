package provider_test

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/codetour-mcp/internal/provider"
)

func TestModel(t *testing.T) {
	if got := provider.Model(""); got != provider.DefaultModel {
		t.Fatalf("empty name should select default, got %q", got)
	}
	if got := provider.Model("claude-sonnet-4-5"); got != anthropic.Model("claude-sonnet-4-5") {
		t.Fatalf("got %q", got)
	}
}
