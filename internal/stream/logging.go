package stream

import (
	"log"

	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the streaming adapters.
func SetLogger(l zerolog.Logger) { zlog = &l }

// logCancelled records a cancellation as a normal termination path.
func logCancelled(mode string) {
	cancellationsTotal.WithLabelValues(mode).Inc()
	if zlog != nil {
		zlog.Info().Str("mode", mode).Msg("streamer cancelled")
		return
	}
	log.Printf("%s streamer cancelled", mode)
}
