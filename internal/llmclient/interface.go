package llmclient

import "context"

// Client is the interface every pipeline stage programs against; QueryAnalyzer,
// Decomposer, DocumentAnalyzer, IterativeEvaluator, Subagent, ConflictResolver
// and the Synthesizer all take one of these rather than a concrete provider.
type Client interface {
	// Complete generates a single-turn completion for a plain prompt.
	Complete(ctx context.Context, prompt string) (string, error)
	// Chat generates a response for a multi-turn (possibly multimodal)
	// conversation.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
	// StructuredChat asks the model to respond with JSON and returns the raw
	// text for the caller to parse; callers fall back to
	// internal/jsonextract when the model wraps JSON in prose.
	StructuredChat(ctx context.Context, messages []ChatMessage) (string, error)
	// Stream generates a token-by-token streaming completion.
	Stream(ctx context.Context, prompt string) (<-chan string, error)
}
