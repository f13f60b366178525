package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"inferd/pkg/types"
)

func feed(snaps ...types.Snapshot) <-chan types.Snapshot {
	ch := make(chan types.Snapshot, len(snaps))
	for _, s := range snaps {
		ch <- s
	}
	close(ch)
	return ch
}

func chunks(t *testing.T, body string) []string {
	t.Helper()
	var out []string
	for _, part := range strings.Split(body, "\n\n") {
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, "data: ") {
			t.Fatalf("chunk without data prefix: %q", part)
		}
		out = append(out, strings.TrimPrefix(part, "data: "))
	}
	return out
}

func TestPlainStreamingOneChunkPerSnapshot(t *testing.T) {
	var buf bytes.Buffer
	snaps := feed(
		types.Snapshot{"choices": []map[string]any{{"index": 0, "content": "a"}}},
		types.Snapshot{"choices": []map[string]any{{"index": 0, "content": "ab"}}},
	)
	if err := Plain(context.Background(), snaps, true, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	got := chunks(t, buf.String())
	if len(got) != 3 { t.Fatalf("chunks=%d body=%q", len(got), buf.String()) }
	if got[2] != "[DONE]" { t.Fatalf("terminal=%q", got[2]) }
	var first types.Snapshot
	if err := json.Unmarshal([]byte(got[0]), &first); err != nil { t.Fatalf("json: %v", err) }
	if first.Choices()[0]["content"] != "a" { t.Fatalf("first=%v", first) }
}

func TestPlainStreamingSkipsEmptySnapshots(t *testing.T) {
	var buf bytes.Buffer
	snaps := feed(nil, types.Snapshot{}, types.Snapshot{"done": true})
	if err := Plain(context.Background(), snaps, true, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	got := chunks(t, buf.String())
	if len(got) != 2 { t.Fatalf("chunks=%d body=%q", len(got), buf.String()) }
}

func TestPlainStreamingEmptySequenceStillTerminates(t *testing.T) {
	var buf bytes.Buffer
	if err := Plain(context.Background(), feed(), true, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	if buf.String() != "data: [DONE]\n\n" { t.Fatalf("body=%q", buf.String()) }
}

func TestPlainSingleShotEmitsOnlyLastSnapshot(t *testing.T) {
	var buf bytes.Buffer
	snaps := feed(
		types.Snapshot{"step": float64(1)},
		types.Snapshot{"step": float64(2)},
		types.Snapshot{"step": float64(3)},
	)
	if err := Plain(context.Background(), snaps, false, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	body := buf.String()
	if strings.Contains(body, "data: ") { t.Fatalf("framed output in single-shot mode: %q", body) }
	var got types.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil { t.Fatalf("json: %v", err) }
	if got["step"] != float64(3) { t.Fatalf("got=%v", got) }
}

func TestPlainSingleShotNoSnapshotsWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := Plain(context.Background(), feed(), false, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	if buf.Len() != 0 { t.Fatalf("body=%q", buf.String()) }
}

func TestPlainCancellationSuppressesTerminalMarker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	open := make(chan types.Snapshot) // never closed: only the ctx branch can fire
	if err := Plain(ctx, open, true, &buf, nil); err != nil { t.Fatalf("err=%v", err) }
	if buf.Len() != 0 { t.Fatalf("body=%q", buf.String()) }
}

func TestPlainFlushCalledPerChunk(t *testing.T) {
	var buf bytes.Buffer
	flushes := 0
	snaps := feed(types.Snapshot{"a": float64(1)}, types.Snapshot{"a": float64(2)})
	if err := Plain(context.Background(), snaps, true, &buf, func() { flushes++ }); err != nil { t.Fatalf("err=%v", err) }
	// two snapshots plus the terminal marker
	if flushes != 3 { t.Fatalf("flushes=%d", flushes) }
}
