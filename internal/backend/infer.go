package backend

import (
	"context"
	"fmt"
	"strings"

	"inferd/pkg/types"
)

// snapshotBuffer bounds the per-request snapshot channel. One generation
// never runs ahead of a slow consumer by more than this many snapshots.
const snapshotBuffer = 8

// Infer runs one generation for the canonical request and returns the
// bounded snapshot channel the stream adapters consume. Each snapshot
// carries the cumulative content for choice index 0; a final snapshot adds
// the finish reason. The channel is closed when generation ends, errors,
// or the context is cancelled.
func (e *Engine) Infer(ctx context.Context, req types.CanonicalRequest, stream bool) (<-chan types.Snapshot, error) {
	sess := e.currentSession()
	if sess == nil {
		return nil, ErrDependencyUnavailable("no model loaded")
	}
	release, err := e.beginGeneration(ctx)
	if err != nil {
		return nil, err
	}
	prompt, err := promptFromRequest(req)
	if err != nil {
		release()
		return nil, err
	}
	params := e.genParams()
	params.Temperature = floatControl(req, "temperature")
	params.TopP = floatControl(req, "top_p")
	params.MaxTokens = intControl(req, "max_tokens")
	params.Stop = stopTokens(req)

	out := make(chan types.Snapshot, snapshotBuffer)
	go func() {
		defer release()
		defer close(out)

		post := func(snap types.Snapshot) bool {
			select {
			case out <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var cum strings.Builder
		onToken := func(tok string) error {
			cum.WriteString(tok)
			// Single-shot requests only need the final snapshot.
			if !stream {
				return ctx.Err()
			}
			if !post(snapshotFor(req, cum.String(), "")) {
				return ctx.Err()
			}
			return nil
		}
		final, err := sess.Generate(ctx, prompt, params, onToken)
		if err != nil {
			if ctx.Err() == nil {
				e.recordError(err)
				logErr(err, "generation failed")
			}
			return
		}
		content := final.Content
		if content == "" {
			content = cum.String()
		}
		post(snapshotFor(req, content, final.FinishReason))
	}()
	return out, nil
}

// snapshotFor composes one cumulative partial-result snapshot.
func snapshotFor(req types.CanonicalRequest, content, finishReason string) types.Snapshot {
	ch := map[string]any{
		"index":   0,
		"content": content,
	}
	if finishReason != "" {
		ch["finish_reason"] = finishReason
	}
	return types.Snapshot{
		"id":      req["id"],
		"object":  req.Object(),
		"choices": []map[string]any{ch},
	}
}

// promptFromRequest flattens the mode payload into the prompt the runtime
// consumes.
func promptFromRequest(req types.CanonicalRequest) (string, error) {
	switch req.Object() {
	case types.ObjectTextCompletion:
		p, _ := req["prompt"].(string)
		return p, nil
	case types.ObjectChatCompletion:
		msgs, _ := req["messages"].([]types.ChatMessage)
		var b strings.Builder
		for _, m := range msgs {
			b.WriteString(m.Role)
			b.WriteString(": ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
		b.WriteString("assistant:")
		return b.String(), nil
	case types.ObjectDiffCompletion:
		var b strings.Builder
		if intent, _ := req["intent"].(string); intent != "" {
			b.WriteString("# intent: ")
			b.WriteString(intent)
			b.WriteString("\n")
		}
		if file, _ := req["cursor_file"].(string); file != "" {
			if sources, _ := req["sources"].(map[string]string); sources != nil {
				b.WriteString(sources[file])
			}
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("unsupported request object %q", req.Object())
}

func floatControl(req types.CanonicalRequest, key string) float32 {
	if v, ok := req[key].(float64); ok {
		return float32(v)
	}
	return 0
}

func intControl(req types.CanonicalRequest, key string) int {
	switch v := req[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func stopTokens(req types.CanonicalRequest) []string {
	if v, ok := req["stop_tokens"].([]string); ok {
		return v
	}
	return nil
}
