package types

import "encoding/json"

// Clamp bounds for sampling controls. Values outside these ranges are pulled
// back in rather than rejected; the params object owns this policy.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MaxTopP        = 1.0
	MaxNewTokens   = 2048

	DefaultMaxTokens   = 50
	DefaultTemperature = 0.2
	DefaultTopP        = 1.0
)

// StopTokens accepts either a single string or a list of strings on the wire.
type StopTokens []string

func (s *StopTokens) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*s = StopTokens{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*s = StopTokens(many)
	return nil
}

// SamplingControls is the base shared by all three request modes.
type SamplingControls struct {
	// Optional model identifier. Empty means "whatever the server has loaded".
	// example: codellama-7b
	Model string `json:"model,omitempty" example:"codellama-7b"`
	// Stop sequences; a bare string is accepted and treated as a one-element list.
	Stop StopTokens `json:"stop,omitempty"`
	// If true, stream chunks as they are produced.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
	// Maximum number of new tokens to generate.
	// example: 128
	MaxTokens int `json:"max_tokens,omitempty" example:"128"`
	// Echo the prompt back in the completion.
	Echo bool `json:"echo,omitempty"`
	// Sampling temperature.
	// example: 0.2
	Temperature float64 `json:"temperature,omitempty" example:"0.2"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float64 `json:"top_p,omitempty" example:"0.9"`
}

// Clamp normalizes the sampling controls into backend-acceptable ranges and
// returns them as a control-name keyed map. It never fails: out-of-range
// values are bounded, zero values get defaults.
func (c SamplingControls) Clamp() map[string]any {
	temp := c.Temperature
	if temp <= 0 {
		temp = DefaultTemperature
	}
	if temp > MaxTemperature {
		temp = MaxTemperature
	}
	topP := c.TopP
	if topP <= 0 || topP > MaxTopP {
		topP = DefaultTopP
	}
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if maxTokens > MaxNewTokens {
		maxTokens = MaxNewTokens
	}
	return map[string]any{
		"temperature": temp,
		"top_p":       topP,
		"max_tokens":  maxTokens,
	}
}

// TextSamplingParams is the payload of POST /v1/completions.
type TextSamplingParams struct {
	SamplingControls
	// Prompt text to complete.
	// example: def fib(n):
	Prompt string `json:"prompt" example:"def fib(n):"`
}

// DiffSamplingParams is the payload of POST /v1/contrast.
type DiffSamplingParams struct {
	SamplingControls
	// Named source files: file name -> full text.
	Sources map[string]string `json:"sources"`
	// File the cursor is in. Must be a key of Sources unless the function
	// is diff-anywhere.
	CursorFile string `json:"cursor_file"`
	// Character offsets of the selection within CursorFile.
	Cursor0 int `json:"cursor0"`
	Cursor1 int `json:"cursor1"`
	// Free-form description of what the edit should do.
	// example: add error handling
	Intent string `json:"intent" example:"add error handling"`
	// Edit function, e.g. "diff-anywhere", "highlight", "edit-selection".
	// example: diff-anywhere
	Function string `json:"function" example:"diff-anywhere"`
	// Upper bound on the number of edits to produce.
	// example: 4
	MaxEdits int `json:"max_edits,omitempty" example:"4"`
}

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	// example: user
	Role string `json:"role" example:"user"`
	// example: hello
	Content string `json:"content" example:"hello"`
}

// ChatSamplingParams is the payload of POST /v1/chat.
type ChatSamplingParams struct {
	SamplingControls
	Messages []ChatMessage `json:"messages"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
