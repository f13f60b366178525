package stream

import (
	"context"
	"encoding/json"
	"io"

	"inferd/pkg/types"
)

const modeChat = "chat"

// ChatDelta consumes the backend snapshot sequence for chat requests,
// always in streaming mode. Snapshots carry cumulative per-choice content;
// only the newly appended suffix goes on the wire, under "delta", and the
// cumulative "content" field is dropped from the outgoing choice.
//
// The per-choice cursor (index -> bytes already observed) lives for exactly
// one invocation. Concatenating the deltas emitted for an index
// reconstructs that index's final cumulative content, relying on snapshots
// being monotonically non-decreasing prefixes.
//
// The terminal marker is emitted unconditionally after the sequence ends,
// even when no snapshot ever arrived; only cancellation suppresses it.
func ChatDelta(ctx context.Context, snaps <-chan types.Snapshot, w io.Writer, flush func()) error {
	seen := make(map[int]int)
	for {
		select {
		case <-ctx.Done():
			logCancelled(modeChat)
			return nil
		case snap, ok := <-snaps:
			if !ok {
				if err := writeDone(w); err != nil {
					logCancelled(modeChat)
					return nil
				}
				chunksTotal.WithLabelValues(modeChat).Inc()
				if flush != nil {
					flush()
				}
				return nil
			}
			if len(snap) == 0 {
				continue
			}
			if choices := snap.Choices(); choices != nil {
				for _, ch := range choices {
					idx, ok := types.ChoiceIndex(ch)
					if !ok {
						continue
					}
					content, _ := ch["content"].(string)
					prior := seen[idx]
					if prior > len(content) {
						// A shrinking snapshot restarts the cursor for that index.
						prior = 0
					}
					ch["delta"] = content[prior:]
					seen[idx] = len(content)
					delete(ch, "content")
				}
				snap["choices"] = choices
			}
			b, err := json.Marshal(snap)
			if err != nil {
				return err
			}
			if err := writeChunk(w, b); err != nil {
				logCancelled(modeChat)
				return nil
			}
			chunksTotal.WithLabelValues(modeChat).Inc()
			if flush != nil {
				flush()
			}
		}
	}
}
