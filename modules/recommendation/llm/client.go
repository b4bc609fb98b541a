package llm

import "context"

// Client issues one completion call against the upstream model. The reply is
// expected to be a JSON-formatted string; interpreting it is the caller's job.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
