// Package sampling validates inbound generation parameters and turns them
// into canonical backend requests. It is pure: no I/O, deterministic given
// the input and the backend state it is handed, and the only side effect is
// minting a fresh request id.
package sampling

import (
	"sort"

	"github.com/google/uuid"

	"inferd/pkg/types"
)

// ModelWildcard matches any loaded model in mismatch checks.
const ModelWildcard = "CONTRASTcode"

// Diff functions with special normalization rules.
const (
	FunctionDiffAnywhere = "diff-anywhere"
	FunctionHighlight    = "highlight"
)

// State is the read-only backend surface the normalizer consults. Injected
// explicitly so tests can substitute deterministic fakes.
type State interface {
	// ModelName returns the loaded model name, or "" while loading.
	ModelName() string
	// ModelDict returns the loaded model's capability dictionary; empty
	// means no usable model.
	ModelDict() map[string]any
	// ChatAvailable reports whether the loaded model supports chat.
	ChatAvailable() bool
	// LastError returns the backend's last recorded error, or "".
	LastError() string
}

// Text normalizes a plain completion request.
func Text(st State, p types.TextSamplingParams) (types.CanonicalRequest, error) {
	req := types.CanonicalRequest(p.Clamp()).Merge(map[string]any{
		"id":          uuid.NewString(),
		"object":      types.ObjectTextCompletion,
		"model":       p.Model,
		"prompt":      p.Prompt,
		"stop_tokens": []string(p.Stop),
		"stream":      p.Stream,
		"echo":        p.Echo,
	})
	if err := checkReady(st, p.Model, false); err != nil {
		return nil, err
	}
	return req, nil
}

// Diff normalizes a diff/edit completion request. Cursor preconditions are
// checked first (first failure wins); diff-anywhere skips them and forces
// sentinel cursors instead.
func Diff(st State, p types.DiffSamplingParams) (types.CanonicalRequest, error) {
	if p.Function != FunctionDiffAnywhere {
		filetext, ok := p.Sources[p.CursorFile]
		if !ok {
			return nil, ErrInvalidInput("cursor_file='%s' is not in sources=%v", p.CursorFile, sourceNames(p.Sources))
		}
		if p.Cursor0 < 0 || p.Cursor1 < 0 {
			return nil, ErrInvalidInput("cursor0=%d or cursor1=%d is negative", p.Cursor0, p.Cursor1)
		}
		if p.Cursor0 > len(filetext) || p.Cursor1 > len(filetext) {
			return nil, ErrInvalidInput("cursor0=%d or cursor1=%d is beyond file length=%d", p.Cursor0, p.Cursor1, len(filetext))
		}
	} else {
		p.Cursor0 = -1
		p.Cursor1 = -1
		p.CursorFile = ""
	}
	if p.Function == FunctionHighlight {
		p.MaxTokens = 1
	}
	req := types.CanonicalRequest(p.Clamp()).Merge(map[string]any{
		"id":          uuid.NewString(),
		"object":      types.ObjectDiffCompletion,
		"model":       p.Model,
		"intent":      p.Intent,
		"sources":     p.Sources,
		"cursor_file": p.CursorFile,
		"cursor0":     p.Cursor0,
		"cursor1":     p.Cursor1,
		"function":    p.Function,
		"max_edits":   p.MaxEdits,
		"stop_tokens": []string(p.Stop),
		"stream":      p.Stream,
	})
	if err := checkReady(st, p.Model, false); err != nil {
		return nil, err
	}
	return req, nil
}

// Chat normalizes a multi-turn chat request. Chat responses are always
// streamed regardless of the caller's flag.
func Chat(st State, p types.ChatSamplingParams) (types.CanonicalRequest, error) {
	req := types.CanonicalRequest(p.Clamp()).Merge(map[string]any{
		"id":          uuid.NewString(),
		"object":      types.ObjectChatCompletion,
		"model":       p.Model,
		"messages":    p.Messages,
		"stop_tokens": []string(p.Stop),
		"stream":      true,
	})
	if err := checkReady(st, p.Model, true); err != nil {
		return nil, err
	}
	return req, nil
}

// checkReady runs the readiness chain shared by all modes against the
// backend state read at call time.
func checkReady(st State, callerModel string, chat bool) error {
	loaded := st.ModelName()
	if loaded == "" {
		if last := st.LastError(); last != "" {
			return backendNotReadyError{msg: last}
		}
		return backendNotReadyError{msg: "model is loading"}
	}
	if callerModel != "" && callerModel != ModelWildcard && callerModel != loaded {
		return modelMismatchError{requested: callerModel, loaded: loaded}
	}
	if len(st.ModelDict()) == 0 {
		return unknownModelError{model: loaded}
	}
	if chat && !st.ChatAvailable() {
		return capabilityUnavailableError{model: loaded}
	}
	return nil
}

func sourceNames(sources map[string]string) []string {
	names := make([]string, 0, len(sources))
	for k := range sources {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
