package main

import (
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/smallnest/ringbuffer"

	"github.com/edgevoice/airlink/audio"
)

// openCapture starts a mono input stream pushing raw little-endian
// PCM into src from the device callback.
func openCapture(src *audio.BufferedSource, sampleRate, frames int) (*portaudio.Stream, error) {
	buf := make([]byte, frames*2)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), frames, func(in []int16) {
		n := audio.EncodeS16LE(buf, in)
		src.Push(buf[:n])
	})
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, err
	}
	return stream, nil
}

// dacSink emulates the firmware's 8-bit DAC: the pipeline writes one
// unsigned byte per sample at the paced rate, the output device drains
// them from a bounded buffer. A full buffer drops the new sample; the
// render pacing keeps that from happening outside of device stalls.
type dacSink struct {
	mu      sync.Mutex
	rb      *ringbuffer.RingBuffer
	scratch []byte
	dropped int64
}

func newDACSink(bufBytes int) *dacSink {
	return &dacSink{rb: ringbuffer.New(bufBytes)}
}

func (s *dacSink) WriteSample(v byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rb.Free() == 0 {
		s.dropped++
		return nil
	}
	_, _ = s.rb.Write([]byte{v})
	return nil
}

func (s *dacSink) fill(out []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.scratch) < len(out) {
		s.scratch = make([]byte, len(out))
	}
	n, _ := s.rb.Read(s.scratch[:len(out)])
	for i := 0; i < n; i++ {
		out[i] = audio.FromDAC8(s.scratch[i])
	}
	for i := n; i < len(out); i++ {
		out[i] = 0 // silence on under-run
	}
}

// openPlayback starts a mono output stream drained from sink.
func openPlayback(sink *dacSink, sampleRate, frames int) (*portaudio.Stream, error) {
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), frames, sink.fill)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, err
	}
	return stream, nil
}

var _ audio.Sink = &dacSink{}
