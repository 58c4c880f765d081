package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/codetour-mcp/internal/store"
)

// Message is a minimal persisted view of a chat turn.
// Only text is stored. Tool blocks are transient.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LoadConversation returns the transcript at path, or nil when none exists yet.
func LoadConversation(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("memory: decode %s: %w", path, err)
	}
	return msgs, nil
}

// SaveConversation writes msgs to path, creating parent directories.
func SaveConversation(path string, msgs []Message) error {
	if msgs == nil {
		msgs = []Message{}
	}
	return store.WriteJSON(path, msgs)
}

// ToParams rebuilds API messages from a persisted transcript. Messages with
// empty text are dropped since the API rejects empty text blocks.
func ToParams(msgs []Message) []anthropic.MessageParam {
	conv := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		if m.Role == RoleUser {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	return conv
}

// AssistantText joins the non-empty text blocks of msg with newlines.
func AssistantText(msg *anthropic.Message) string {
	var parts []string
	for _, b := range msg.Content {
		if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}
