package repository

import "context"

// LanguageModel defines the contract for the LLM collaborator used by both
// planning and extraction. Each call is independent; no conversation state
// is kept between invocations.
type LanguageModel interface {
	// Complete sends a single prompt and returns the model's raw text output.
	Complete(ctx context.Context, prompt string) (string, error)
}
