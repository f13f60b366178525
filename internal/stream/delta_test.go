package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"inferd/pkg/types"
)

func chat(content string, idx int) types.Snapshot {
	return types.Snapshot{"choices": []map[string]any{{"index": idx, "content": content}}}
}

func decodeDeltas(t *testing.T, body string) (perIndex map[int]string, sawDone bool) {
	t.Helper()
	perIndex = make(map[int]string)
	for _, c := range chunks(t, body) {
		if c == "[DONE]" {
			sawDone = true
			continue
		}
		if sawDone {
			t.Fatalf("chunk after terminal marker: %q", c)
		}
		var snap types.Snapshot
		if err := json.Unmarshal([]byte(c), &snap); err != nil { t.Fatalf("json: %v", err) }
		for _, ch := range snap.Choices() {
			if _, ok := ch["content"]; ok {
				t.Fatalf("cumulative content leaked to wire: %v", ch)
			}
			idx, ok := types.ChoiceIndex(ch)
			if !ok { t.Fatalf("choice without index: %v", ch) }
			delta, _ := ch["delta"].(string)
			perIndex[idx] += delta
		}
	}
	return perIndex, sawDone
}

func TestChatDeltaEmitsSuffixes(t *testing.T) {
	var buf bytes.Buffer
	snaps := feed(chat("Hel", 0), chat("Hello", 0))
	if err := ChatDelta(context.Background(), snaps, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	got := chunks(t, buf.String())
	if len(got) != 3 { t.Fatalf("chunks=%d body=%q", len(got), buf.String()) }
	var first, second types.Snapshot
	if err := json.Unmarshal([]byte(got[0]), &first); err != nil { t.Fatalf("json: %v", err) }
	if err := json.Unmarshal([]byte(got[1]), &second); err != nil { t.Fatalf("json: %v", err) }
	if d := first.Choices()[0]["delta"]; d != "Hel" { t.Fatalf("first delta=%v", d) }
	if d := second.Choices()[0]["delta"]; d != "lo" { t.Fatalf("second delta=%v", d) }
}

func TestChatDeltaReconstructionLaw(t *testing.T) {
	finals := map[int]string{0: "Hello, world", 1: "package main"}
	var snaps []types.Snapshot
	// interleaved monotonic prefixes for two parallel choices
	for i := 1; i <= len("Hello, world"); i++ {
		snaps = append(snaps, chat(finals[0][:i], 0))
		if i <= len("package main") {
			snaps = append(snaps, chat(finals[1][:i], 1))
		}
	}
	var buf bytes.Buffer
	if err := ChatDelta(context.Background(), feed(snaps...), &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	perIndex, sawDone := decodeDeltas(t, buf.String())
	if !sawDone { t.Fatal("missing terminal marker") }
	for idx, want := range finals {
		if perIndex[idx] != want { t.Fatalf("index %d reconstructed %q want %q", idx, perIndex[idx], want) }
	}
}

func TestChatDeltaRepeatedSnapshotYieldsEmptyDelta(t *testing.T) {
	var buf bytes.Buffer
	snaps := feed(chat("abc", 0), chat("abc", 0))
	if err := ChatDelta(context.Background(), snaps, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	perIndex, _ := decodeDeltas(t, buf.String())
	if perIndex[0] != "abc" { t.Fatalf("reconstructed=%q", perIndex[0]) }
}

func TestChatDeltaTerminatesWithZeroSnapshots(t *testing.T) {
	var buf bytes.Buffer
	if err := ChatDelta(context.Background(), feed(), &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	if buf.String() != "data: [DONE]\n\n" { t.Fatalf("body=%q", buf.String()) }
}

func TestChatDeltaSkipsEmptySnapshots(t *testing.T) {
	var buf bytes.Buffer
	snaps := feed(nil, types.Snapshot{}, chat("x", 0))
	if err := ChatDelta(context.Background(), snaps, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	got := chunks(t, buf.String())
	if len(got) != 2 { t.Fatalf("chunks=%d body=%q", len(got), buf.String()) }
}

func TestChatDeltaPreservesUnknownSnapshotFields(t *testing.T) {
	var buf bytes.Buffer
	snap := types.Snapshot{
		"id":      "req-1",
		"choices": []map[string]any{{"index": 0, "content": "hi"}},
	}
	if err := ChatDelta(context.Background(), feed(snap), &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	got := chunks(t, buf.String())
	var out types.Snapshot
	if err := json.Unmarshal([]byte(got[0]), &out); err != nil { t.Fatalf("json: %v", err) }
	if out["id"] != "req-1" { t.Fatalf("id=%v", out["id"]) }
}

func TestChatDeltaCancellationSuppressesTerminalMarker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	open := make(chan types.Snapshot)
	if err := ChatDelta(ctx, open, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	if strings.Contains(buf.String(), "[DONE]") { t.Fatalf("terminal marker after cancellation: %q", buf.String()) }
}
