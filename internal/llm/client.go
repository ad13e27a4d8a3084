package llm

import "context"

// Client is the model-call contract every pipeline stage depends on:
// one synchronous completion per call, no streaming. It is injected so
// stages can be tested with stubbed responses.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
