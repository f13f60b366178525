package backend

import "context"

// Adapter abstracts the model runtime used by the Engine. Concrete
// implementations (e.g. llama.cpp) should satisfy this interface.
type Adapter interface {
	// Start loads the model at path and prepares a reusable session.
	Start(modelPath string, params GenParams) (Session, error)
}

// Session represents a loaded model able to run generations. Generate may
// be called repeatedly; the Engine serializes calls through admission.
type Session interface {
	// Generate streams tokens for the given prompt through onToken.
	// Implementations must return when the context is cancelled.
	Generate(ctx context.Context, prompt string, params GenParams, onToken func(string) error) (FinalResult, error)
	// Close releases any resources associated with the session.
	Close() error
}

// GenParams captures generation parameters passed to the adapter.
type GenParams struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
	Stop        []string
	CtxSize     int
	Threads     int
}

// FinalResult summarizes the generation after streaming.
type FinalResult struct {
	Content      string
	FinishReason string
}
