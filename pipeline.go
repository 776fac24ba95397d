// Package airlink implements a real-time bidirectional PCM streaming
// client: microphone audio is captured in fixed 10 ms chunks and
// forwarded over one persistent WebSocket session to a remote bridge,
// while audio returned by the bridge is buffered in a bounded ring and
// rendered at a fixed 16 kHz rate. Everything is driven by a single
// cooperative coordinator loop.
package airlink

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgevoice/airlink/audio"
	"github.com/edgevoice/airlink/metrics"
)

// ConnState is the connection state as observed via session events.
// There is no intermediate connecting state: absence of a connected
// event means disconnected.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnected
)

func (s ConnState) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// Pipeline is the coordinator owning all mutable streaming state: the
// playback ring, the connection flag and the reused capture chunk. All
// of it is touched only from the Run goroutine, so no locking exists
// here.
type Pipeline struct {
	session  Session
	source   audio.Source
	ring     *audio.PlaybackRing
	renderer *audio.Renderer

	opts   options
	logger *slog.Logger
	met    *metrics.Metrics

	state         ConnState
	everConnected bool
	chunk         []byte  // reused capture chunk, overwritten every pass
	slice         []int16 // reused render slice
	lastBeat      time.Time
}

// New assembles a pipeline around a session, a capture source and a
// render sink.
func New(session Session, source audio.Source, sink audio.Sink, os ...Option) *Pipeline {
	opts := newOptions(os...)

	return &Pipeline{
		session:  session,
		source:   source,
		ring:     audio.NewPlaybackRing(opts.ringCapacity),
		renderer: audio.NewRenderer(sink, opts.sampleRate),
		opts:     opts,
		logger:   opts.logger.With(slog.String("component", "pipeline")),
		met:      opts.metrics,
		chunk:    make([]byte, opts.chunkSamples*2),
		slice:    make([]int16, opts.chunkSamples),
	}
}

// State returns the current connection state.
func (p *Pipeline) State() ConnState {
	return p.state
}

// Buffered returns the number of samples waiting for playback.
func (p *Pipeline) Buffered() int {
	return p.ring.Len()
}

// Run starts the session and iterates the coordinator loop until ctx
// is cancelled. Connection loss is not an exit condition; the session
// reconnects on its own and playback drains whatever is buffered in
// the meantime.
func (p *Pipeline) Run(ctx context.Context) error {
	p.session.Connect(ctx)
	p.lastBeat = time.Now()

	p.logger.Info("pipeline running",
		slog.Int("sample_rate", p.opts.sampleRate),
		slog.Int("chunk_samples", p.opts.chunkSamples),
		slog.Int("ring_capacity", p.opts.ringCapacity),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		p.iterate(time.Now())
	}
}

// iterate performs one coordinator pass in fixed order: session events
// first, then capture/send, then render drain, then the heartbeat.
// Events precede capture so a connect or disconnect takes effect for
// the send decision of the same pass.
func (p *Pipeline) iterate(now time.Time) {
	p.session.Poll(p.handleEvent)

	sent := false
	if p.state == StateConnected && p.source.ReadChunk(p.chunk) {
		sent = true
		if err := p.session.SendBinary(p.chunk); err != nil {
			// race with a disconnect; the chunk is expendable
			p.met.SendFailures.Inc()
			p.logger.Debug("chunk dropped", slog.Any("err", err))
		} else {
			p.met.ChunksSent.Inc()
			p.met.BytesSent.Add(float64(len(p.chunk)))
		}
	}

	rendered := false
	if p.ring.DrainSlice(p.slice) {
		rendered = true
		if err := p.renderer.RenderSlice(p.slice); err != nil {
			p.logger.Error("render failed", slog.Any("err", err))
		}
	} else if p.ring.Len() > 0 {
		p.met.RenderUnderruns.Inc()
	}
	p.met.PlaybackBuffered.Set(float64(p.ring.Len()))

	if now.Sub(p.lastBeat) >= p.opts.heartbeat {
		p.lastBeat = now
		p.logger.Info("heartbeat",
			slog.String("state", p.state.String()),
			slog.Int("buffered_samples", p.ring.Len()),
		)
	}

	if !sent && !rendered && p.opts.idleHold > 0 {
		time.Sleep(p.opts.idleHold)
	}
}

func (p *Pipeline) handleEvent(ev Event) {
	switch ev.Kind {
	case EventConnected:
		if p.everConnected {
			p.met.Reconnects.Inc()
		}
		p.everConnected = true
		p.state = StateConnected
		p.opts.indicator.Set(true)
		p.met.Connected.Set(1)
		p.logger.Info("bridge connected")

	case EventDisconnected:
		p.state = StateDisconnected
		p.opts.indicator.Set(false)
		p.met.Connected.Set(0)
		p.logger.Info("bridge disconnected")

	case EventBinary:
		_, dropped := p.ring.EnqueueBytes(ev.Data)
		if dropped > 0 {
			p.met.SamplesDropped.Add(float64(dropped))
			p.logger.Debug("playback overflow",
				slog.Int("dropped_samples", dropped),
			)
		}

	case EventText:
		p.logger.Info("bridge message", slog.String("text", string(ev.Data)))
	}
}
