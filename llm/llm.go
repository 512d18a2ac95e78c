// Package llm defines the narrow contract chat-model providers satisfy. The
// workflow treats the model as an opaque collaborator: structured prompts in,
// text or JSON-shaped text out.
package llm

import (
	"context"

	"legalassist/message"
)

// Client defines the interface for LLM providers
type Client interface {
	// Generate generates a response from the LLM
	Generate(ctx context.Context, messages []*message.Message) (*message.Message, error)

	// SetTemperature updates the temperature setting for generation
	SetTemperature(temp float64)

	// SetMaxTokens updates the maximum tokens limit for generation
	SetMaxTokens(max int64)

	// SetModel updates the model to use for generation
	SetModel(model string)
}
