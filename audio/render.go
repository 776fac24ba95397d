package audio

import (
	"time"
)

// Sink consumes one unsigned 8-bit output sample at a time. Writes are
// expected to complete quickly and synchronously.
type Sink interface {
	WriteSample(v byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(v byte) error

func (f SinkFunc) WriteSample(v byte) error {
	return f(v)
}

// Renderer writes PCM slices to a Sink at a fixed sample rate. The
// per-sample hold is the playback clock: regardless of how fast the
// surrounding loop iterates, samples leave the sink at sampleRate.
type Renderer struct {
	sink   Sink
	period time.Duration
	sleep  func(time.Duration)
}

// NewRenderer creates a renderer pacing output at sampleRate Hz.
func NewRenderer(sink Sink, sampleRate int) *Renderer {
	if sampleRate <= 0 {
		panic("audio: renderer sample rate must be positive")
	}
	return &Renderer{
		sink:   sink,
		period: time.Second / time.Duration(sampleRate),
		sleep:  time.Sleep,
	}
}

// Period returns the hold between consecutive samples.
func (r *Renderer) Period() time.Duration {
	return r.period
}

// RenderSlice writes each sample scaled to the sink's 8-bit range and
// holds one sample period before the next.
func (r *Renderer) RenderSlice(samples []int16) error {
	for _, s := range samples {
		if err := r.sink.WriteSample(DAC8(s)); err != nil {
			return err
		}
		r.sleep(r.period)
	}
	return nil
}
