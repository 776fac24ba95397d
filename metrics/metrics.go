// Package metrics exposes Prometheus instrumentation for the
// streaming pipeline. Every degradation path (dropped chunks, playback
// overflow, render under-runs) is counted here so sustained overload is
// visible without changing pipeline behavior.
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the pipeline.
type Metrics struct {
	// capture/send path
	ChunksSent   prometheus.Counter
	BytesSent    prometheus.Counter
	SendFailures prometheus.Counter

	// playback path
	SamplesDropped   prometheus.Counter
	RenderUnderruns  prometheus.Counter
	PlaybackBuffered prometheus.Gauge

	// connection lifecycle
	Connected  prometheus.Gauge
	Reconnects prometheus.Counter
}

// New creates and registers all metrics on reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ChunksSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "airlink_chunks_sent_total",
			Help: "Total number of capture chunks transmitted to the bridge",
		}),
		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "airlink_bytes_sent_total",
			Help: "Total number of audio bytes transmitted to the bridge",
		}),
		SendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "airlink_send_failures_total",
			Help: "Total number of capture chunks dropped because the session was not writable",
		}),

		SamplesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "airlink_playback_samples_dropped_total",
			Help: "Total number of inbound samples dropped due to playback buffer overflow",
		}),
		RenderUnderruns: factory.NewCounter(prometheus.CounterOpts{
			Name: "airlink_render_underruns_total",
			Help: "Total number of render passes skipped while audio was still trickling in",
		}),
		PlaybackBuffered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airlink_playback_buffered_samples",
			Help: "Current number of samples waiting in the playback buffer",
		}),

		Connected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airlink_connected",
			Help: "Whether the bridge session is currently connected (0 or 1)",
		}),
		Reconnects: factory.NewCounter(prometheus.CounterOpts{
			Name: "airlink_reconnects_total",
			Help: "Total number of re-established bridge sessions",
		}),
	}
}

// Serve exposes the given gatherer on addr under /metrics. It blocks
// until the server fails.
func Serve(addr string, g prometheus.Gatherer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("metrics listening", slog.String("addr", addr))
	return srv.ListenAndServe()
}
