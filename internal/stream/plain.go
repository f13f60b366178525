// Package stream adapts the backend's snapshot sequence into the wire
// format: SSE-style "data: <json>\n\n" chunks closed by "data: [DONE]\n\n"
// for streamed responses, or a single bare JSON document otherwise.
//
// Each adapter consumes one bounded snapshot channel per response; the
// channel receive is the cooperative suspension point, so many concurrent
// responses interleave fairly. Cancellation (client disconnect, shutdown)
// is a normal, logged termination: the adapter stops emitting and returns
// nil rather than surfacing an error.
package stream

import (
	"context"
	"encoding/json"
	"io"

	"inferd/pkg/types"
)

const modePlain = "plain"

// Plain consumes the backend snapshot sequence for completion and diff
// requests. In streaming mode every non-empty snapshot becomes one framed
// chunk, followed by the terminal marker. In single-shot mode only the
// latest snapshot's serialization is written, with no framing and no
// marker; if the backend produced no usable snapshot, nothing is written.
func Plain(ctx context.Context, snaps <-chan types.Snapshot, streaming bool, w io.Writer, flush func()) error {
	var last []byte
	for {
		select {
		case <-ctx.Done():
			logCancelled(modePlain)
			return nil
		case snap, ok := <-snaps:
			if !ok {
				if streaming {
					if err := writeDone(w); err != nil {
						logCancelled(modePlain)
						return nil
					}
					chunksTotal.WithLabelValues(modePlain).Inc()
				} else if last != nil {
					if _, err := w.Write(last); err != nil {
						logCancelled(modePlain)
						return nil
					}
					chunksTotal.WithLabelValues(modePlain).Inc()
				}
				if flush != nil {
					flush()
				}
				return nil
			}
			if len(snap) == 0 {
				continue
			}
			b, err := json.Marshal(snap)
			if err != nil {
				return err
			}
			last = b
			if !streaming {
				continue
			}
			if err := writeChunk(w, b); err != nil {
				logCancelled(modePlain)
				return nil
			}
			chunksTotal.WithLabelValues(modePlain).Inc()
			if flush != nil {
				flush()
			}
		}
	}
}
