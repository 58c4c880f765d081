package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// NewAnthropicClient returns a client using the API key from the env
// unless opts supply one.
func NewAnthropicClient(opts ...option.RequestOption) *anthropic.Client {
	c := anthropic.NewClient(opts...)
	return &c
}

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// Model returns name as a model ID, or DefaultModel when name is empty.
func Model(name string) anthropic.Model {
	if name == "" {
		return DefaultModel
	}
	return anthropic.Model(name)
}
