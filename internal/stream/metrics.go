package stream

import "github.com/prometheus/client_golang/prometheus"

var (
	chunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "stream",
			Name:      "chunks_total",
			Help:      "Total response chunks emitted, by adapter mode",
		},
		[]string{"mode"},
	)

	cancellationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "stream",
			Name:      "cancellations_total",
			Help:      "Streams terminated by client disconnect or shutdown",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(chunksTotal, cancellationsTotal)
}
