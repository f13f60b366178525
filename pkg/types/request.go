package types

// Object tags distinguishing the three canonical request modes.
const (
	ObjectTextCompletion = "text_completion_req"
	ObjectDiffCompletion = "diff_completion_req"
	ObjectChatCompletion = "chat_completion_req"
)

// CanonicalRequest is the normalized, backend-ready form of any generation
// request: clamped sampling controls merged with the id/object/model fields
// and the mode-specific payload. Created once per inbound call, immutable
// after handoff to the backend.
type CanonicalRequest map[string]any

// Object returns the request's mode tag, or "" when absent.
func (r CanonicalRequest) Object() string {
	s, _ := r["object"].(string)
	return s
}

// Stream reports whether the request asked for a streamed response.
func (r CanonicalRequest) Stream() bool {
	b, _ := r["stream"].(bool)
	return b
}

// Merge copies kv into the request, overwriting existing keys.
func (r CanonicalRequest) Merge(kv map[string]any) CanonicalRequest {
	for k, v := range kv {
		r[k] = v
	}
	return r
}
