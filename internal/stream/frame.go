package stream

import "io"

// Terminal marker closing every streamed response.
const doneChunk = "data: [DONE]\n\n"

var (
	dataPrefix = []byte("data: ")
	chunkEnd   = []byte("\n\n")
)

// writeChunk frames one JSON document as an SSE-style data chunk.
func writeChunk(w io.Writer, payload []byte) error {
	if _, err := w.Write(dataPrefix); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := w.Write(chunkEnd)
	return err
}

// writeDone emits the terminal marker.
func writeDone(w io.Writer) error {
	_, err := io.WriteString(w, doneChunk)
	return err
}
