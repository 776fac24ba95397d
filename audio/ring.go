package audio

// PlaybackRing is a fixed-capacity circular store of 16-bit PCM
// samples. It absorbs inbound audio at network arrival rate and hands
// it out in fixed slices at playback rate. Once full, excess incoming
// samples are dropped rather than overwriting unread audio, and drains
// are all-or-nothing, so the ring never grows and never returns a
// partial slice.
//
// PlaybackRing is not safe for concurrent use; it belongs to the
// pipeline goroutine.
type PlaybackRing struct {
	buf    []int16
	head   int // index of the oldest unconsumed sample
	length int // count of valid samples
}

// NewPlaybackRing allocates a ring holding up to capacity samples. The
// backing array is allocated once and never grows.
func NewPlaybackRing(capacity int) *PlaybackRing {
	if capacity <= 0 {
		panic("audio: playback ring capacity must be positive")
	}
	return &PlaybackRing{buf: make([]int16, capacity)}
}

// EnqueueBytes decodes little-endian 16-bit samples from b and appends
// them at the write position. A dangling odd byte is ignored. Samples
// beyond the free space are dropped. Returns the number of samples
// written and the number dropped.
func (r *PlaybackRing) EnqueueBytes(b []byte) (written, dropped int) {
	n := len(b) / 2
	if free := len(r.buf) - r.length; n > free {
		written, dropped = free, n-free
	} else {
		written = n
	}

	at := (r.head + r.length) % len(r.buf)
	for i := 0; i < written; i++ {
		r.buf[at] = int16(b[i*2]) | int16(b[i*2+1])<<8
		at = (at + 1) % len(r.buf)
	}
	r.length += written
	return written, dropped
}

// DrainSlice removes the len(dst) oldest samples into dst in arrival
// order. When fewer samples are buffered it reports false and leaves
// the ring untouched.
func (r *PlaybackRing) DrainSlice(dst []int16) bool {
	if r.length < len(dst) {
		return false
	}
	for i := range dst {
		dst[i] = r.buf[r.head]
		r.head = (r.head + 1) % len(r.buf)
	}
	r.length -= len(dst)
	return true
}

// Len returns the number of buffered samples.
func (r *PlaybackRing) Len() int {
	return r.length
}

// Cap returns the fixed capacity in samples.
func (r *PlaybackRing) Cap() int {
	return len(r.buf)
}
