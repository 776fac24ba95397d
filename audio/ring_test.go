package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeSamples(t *testing.T, samples []int16) []byte {
	t.Helper()
	buf := make([]byte, len(samples)*2)
	require.Equal(t, len(buf), EncodeS16LE(buf, samples))
	return buf
}

func TestRingFIFO(t *testing.T) {
	r := NewPlaybackRing(16)

	written, dropped := r.EnqueueBytes(encodeSamples(t, []int16{100, -100, 32767, -32768}))
	require.Equal(t, 4, written)
	require.Equal(t, 0, dropped)
	require.Equal(t, 4, r.Len())

	out := make([]int16, 4)
	require.True(t, r.DrainSlice(out))
	require.Equal(t, []int16{100, -100, 32767, -32768}, out)
	require.Equal(t, 0, r.Len())
}

func TestRingNoPartialDrain(t *testing.T) {
	r := NewPlaybackRing(16)
	r.EnqueueBytes(encodeSamples(t, []int16{1, 2, 3}))

	out := make([]int16, 4)
	require.False(t, r.DrainSlice(out))
	require.Equal(t, 3, r.Len(), "failed drain must leave the ring untouched")

	require.True(t, r.DrainSlice(out[:3]))
	require.Equal(t, []int16{1, 2, 3}, out[:3])
}

func TestRingOverflowDropsNewest(t *testing.T) {
	r := NewPlaybackRing(4)
	r.EnqueueBytes(encodeSamples(t, []int16{1, 2, 3}))

	written, dropped := r.EnqueueBytes(encodeSamples(t, []int16{4, 5, 6}))
	require.Equal(t, 1, written)
	require.Equal(t, 2, dropped)
	require.Equal(t, 4, r.Len())

	// previously unread samples survive, excess newest are gone
	out := make([]int16, 4)
	require.True(t, r.DrainSlice(out))
	require.Equal(t, []int16{1, 2, 3, 4}, out)
}

func TestRingLengthNeverExceedsCapacity(t *testing.T) {
	r := NewPlaybackRing(16000)

	written, dropped := r.EnqueueBytes(make([]byte, 16050*2))
	require.Equal(t, 16000, written)
	require.Equal(t, 50, dropped)
	require.Equal(t, 16000, r.Len())

	// full ring: everything further is dropped
	written, dropped = r.EnqueueBytes(encodeSamples(t, []int16{7}))
	require.Equal(t, 0, written)
	require.Equal(t, 1, dropped)
	require.Equal(t, 16000, r.Len())
}

func TestRingOddTrailingByteIgnored(t *testing.T) {
	r := NewPlaybackRing(8)
	written, dropped := r.EnqueueBytes([]byte{0x01, 0x00, 0x02, 0x00, 0xff})
	require.Equal(t, 2, written)
	require.Equal(t, 0, dropped)
	require.Equal(t, 2, r.Len())
}

func TestRingWraparound(t *testing.T) {
	r := NewPlaybackRing(4)
	out := make([]int16, 2)

	// push head around the ring a few times
	for i := int16(0); i < 10; i += 2 {
		written, dropped := r.EnqueueBytes(encodeSamples(t, []int16{i, i + 1}))
		require.Equal(t, 2, written)
		require.Equal(t, 0, dropped)
		require.True(t, r.DrainSlice(out))
		require.Equal(t, []int16{i, i + 1}, out)
	}
	require.Equal(t, 0, r.Len())
}
