package ai

// CompletionRequest describes one chat completion turn.
type CompletionRequest struct {
	// System is the system prompt. Empty means no system message.
	System string

	// User is the user message.
	User string

	// Temperature is the sampling temperature passed to the model.
	Temperature float64

	// MaxTokens bounds the response length. Zero means the model default.
	MaxTokens int

	// JSONOnly requests JSON-mode output from models that support it.
	// The response still needs parsing and may still be malformed.
	JSONOnly bool
}
