package types

import (
	"encoding/json"
	"testing"
)

func TestClampDefaults(t *testing.T) {
	c := SamplingControls{}
	m := c.Clamp()
	if m["temperature"] != DefaultTemperature { t.Fatalf("temperature=%v", m["temperature"]) }
	if m["top_p"] != DefaultTopP { t.Fatalf("top_p=%v", m["top_p"]) }
	if m["max_tokens"] != DefaultMaxTokens { t.Fatalf("max_tokens=%v", m["max_tokens"]) }
}

func TestClampBounds(t *testing.T) {
	c := SamplingControls{Temperature: 99, TopP: 3, MaxTokens: 1 << 20}
	m := c.Clamp()
	if m["temperature"] != MaxTemperature { t.Fatalf("temperature=%v", m["temperature"]) }
	if m["top_p"] != DefaultTopP { t.Fatalf("top_p=%v", m["top_p"]) }
	if m["max_tokens"] != MaxNewTokens { t.Fatalf("max_tokens=%v", m["max_tokens"]) }
}

func TestClampKeepsInRangeValues(t *testing.T) {
	c := SamplingControls{Temperature: 0.7, TopP: 0.9, MaxTokens: 128}
	m := c.Clamp()
	if m["temperature"] != 0.7 { t.Fatalf("temperature=%v", m["temperature"]) }
	if m["top_p"] != 0.9 { t.Fatalf("top_p=%v", m["top_p"]) }
	if m["max_tokens"] != 128 { t.Fatalf("max_tokens=%v", m["max_tokens"]) }
}

func TestStopTokensAcceptsString(t *testing.T) {
	var p TextSamplingParams
	if err := json.Unmarshal([]byte(`{"prompt":"x","stop":"\n\n"}`), &p); err != nil { t.Fatalf("json: %v", err) }
	if len(p.Stop) != 1 || p.Stop[0] != "\n\n" { t.Fatalf("stop=%v", p.Stop) }
}

func TestStopTokensAcceptsList(t *testing.T) {
	var p TextSamplingParams
	if err := json.Unmarshal([]byte(`{"prompt":"x","stop":["a","b"]}`), &p); err != nil { t.Fatalf("json: %v", err) }
	if len(p.Stop) != 2 || p.Stop[1] != "b" { t.Fatalf("stop=%v", p.Stop) }
}

func TestCanonicalRequestAccessors(t *testing.T) {
	r := CanonicalRequest{"object": ObjectChatCompletion, "stream": true}
	if r.Object() != ObjectChatCompletion { t.Fatalf("object=%s", r.Object()) }
	if !r.Stream() { t.Fatal("stream=false") }
}

func TestSnapshotChoicesFromJSON(t *testing.T) {
	var s Snapshot
	if err := json.Unmarshal([]byte(`{"choices":[{"index":0,"content":"hi"}]}`), &s); err != nil { t.Fatalf("json: %v", err) }
	ch := s.Choices()
	if len(ch) != 1 { t.Fatalf("choices len=%d", len(ch)) }
	idx, ok := ChoiceIndex(ch[0])
	if !ok || idx != 0 { t.Fatalf("index=%d ok=%v", idx, ok) }
}
