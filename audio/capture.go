package audio

import (
	"sync"

	"github.com/smallnest/ringbuffer"
)

// Source produces fixed-size PCM chunks on demand, without blocking.
type Source interface {
	// ReadChunk fills p with exactly len(p) bytes of captured audio
	// and reports true. When a full chunk is not yet available it
	// reports false, consumes nothing and leaves p untouched.
	ReadChunk(p []byte) bool
}

// BufferedSource bridges an asynchronous capture device callback to
// the pipeline's non-blocking chunk reads. The device pushes raw PCM
// bytes from its own thread; the pipeline pulls full chunks or nothing.
// When the device outpaces the pipeline the oldest buffered bytes are
// discarded, sample-aligned, so the capture callback never blocks.
type BufferedSource struct {
	mu       sync.Mutex
	rb       *ringbuffer.RingBuffer
	overruns int64 // bytes discarded due to overrun
}

// NewBufferedSource creates a source buffering up to size bytes.
func NewBufferedSource(size int) *BufferedSource {
	return &BufferedSource{
		rb: ringbuffer.New(size),
	}
}

// Push appends captured bytes from the device callback. Oldest data is
// discarded to make room when the buffer is full.
func (s *BufferedSource) Push(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(p) > s.rb.Capacity() {
		s.overruns += int64(len(p) - s.rb.Capacity())
		p = p[len(p)-s.rb.Capacity():]
	}

	if free := s.rb.Free(); free < len(p) {
		skip := len(p) - free
		if skip%2 != 0 {
			skip++ // keep 16-bit sample framing intact
		}
		s.discard(skip)
		s.overruns += int64(skip)
	}

	_, _ = s.rb.Write(p)
}

func (s *BufferedSource) discard(n int) {
	var scratch [512]byte
	for n > 0 {
		c := min(n, len(scratch))
		read, err := s.rb.Read(scratch[:c])
		if read == 0 || err != nil {
			return
		}
		n -= read
	}
}

// ReadChunk implements Source.
func (s *BufferedSource) ReadChunk(p []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rb.Length() < len(p) {
		return false
	}
	_, _ = s.rb.Read(p)
	return true
}

// Buffered returns the number of bytes currently held.
func (s *BufferedSource) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rb.Length()
}

// Overruns returns the total number of bytes discarded because the
// device outpaced the pipeline.
func (s *BufferedSource) Overruns() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overruns
}
