// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Packet submit/dispatch rates and handler failures
//   - Queue rejections (backpressure)
//   - Store batch flush counts and durations
//   - Radio link connects and frame errors
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Router metrics
	PacketsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "groundstation_packets_submitted_total",
		Help: "Packets accepted onto an endpoint queue",
	}, []string{"endpoint"})
	PacketsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "groundstation_packets_dispatched_total",
		Help: "Packets delivered to at least one handler",
	})
	PacketsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "groundstation_packets_rejected_total",
		Help: "Packets rejected because an endpoint queue was at capacity",
	}, []string{"endpoint"})
	HandlerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "groundstation_handler_failures_total",
		Help: "Handler errors and panics contained during dispatch",
	})
	TransmitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "groundstation_transmit_failures_total",
		Help: "Outbound transmissions that returned an error",
	})

	// Store metrics
	StoreBatchFlushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "groundstation_store_batch_flushes_total",
		Help: "Telemetry batch flushes to the database",
	})
	StoreBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "groundstation_store_batch_duration_seconds",
		Help:    "Duration of telemetry batch inserts",
		Buckets: prometheus.DefBuckets,
	})
	StoreRowsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "groundstation_store_rows_written_total",
		Help: "Telemetry rows written to the database",
	})

	// Link metrics
	LinkConnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "groundstation_link_connects_total",
		Help: "Successful radio bridge connections",
	})
	LinkFrameErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "groundstation_link_frame_errors_total",
		Help: "Frames rejected by the wire codec",
	})
)

// Serve starts the metrics HTTP server on the given port and path. Blocks
// until the server exits.
func Serve(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
