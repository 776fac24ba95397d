package airlink

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edgevoice/airlink/metrics"
)

const (
	// DefaultSampleRate is the fixed capture and playback rate.
	DefaultSampleRate = 16000
	// DefaultChunkSamples is one 10 ms capture chunk (320 bytes).
	DefaultChunkSamples = 160
	// DefaultRingCapacity buffers one second of playback audio.
	DefaultRingCapacity = 16000
	// DefaultHeartbeatInterval is the cadence of the status log line.
	DefaultHeartbeatInterval = 5 * time.Second
	// DefaultIdleHold is one chunk duration at the default rate.
	DefaultIdleHold = 10 * time.Millisecond
)

type options struct {
	logger       *slog.Logger
	indicator    Indicator
	metrics      *metrics.Metrics
	sampleRate   int
	chunkSamples int
	ringCapacity int
	heartbeat    time.Duration
	idleHold     time.Duration
}

type Option func(opts *options)

func withDefaults() Option {
	return withOptions(
		WithLogger(slog.Default()),
		WithIndicator(NopIndicator()),
		WithSampleRate(DefaultSampleRate),
		WithChunkSamples(DefaultChunkSamples),
		WithRingCapacity(DefaultRingCapacity),
		WithHeartbeatInterval(DefaultHeartbeatInterval),
		WithIdleHold(DefaultIdleHold),
	)
}

func withOptions(os ...Option) Option {
	return func(opts *options) {
		for _, o := range os {
			o(opts)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithIndicator sets the status output driven by connection state.
func WithIndicator(ind Indicator) Option {
	return func(opts *options) {
		opts.indicator = ind
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(opts *options) {
		opts.metrics = m
	}
}

func WithSampleRate(rate int) Option {
	return func(opts *options) {
		opts.sampleRate = rate
	}
}

// WithChunkSamples sets both the capture chunk and the render slice
// size in samples.
func WithChunkSamples(n int) Option {
	return func(opts *options) {
		opts.chunkSamples = n
	}
}

// WithRingCapacity sets the playback buffer capacity in samples.
func WithRingCapacity(n int) Option {
	return func(opts *options) {
		opts.ringCapacity = n
	}
}

func WithHeartbeatInterval(d time.Duration) Option {
	return func(opts *options) {
		opts.heartbeat = d
	}
}

// WithIdleHold sets the pause inserted after an iteration that neither
// sent nor rendered anything, so an idle pipeline does not spin hot.
// Zero disables it.
func WithIdleHold(d time.Duration) Option {
	return func(opts *options) {
		opts.idleHold = d
	}
}

func newOptions(os ...Option) options {
	var opts options
	withDefaults()(&opts)
	withOptions(os...)(&opts)

	if opts.metrics == nil {
		// private registry; wired to an exporter only via WithMetrics
		opts.metrics = metrics.New(prometheus.NewRegistry())
	}
	return opts
}
