package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferedSourceAllOrNothing(t *testing.T) {
	s := NewBufferedSource(1024)

	chunk := make([]byte, 320)
	require.False(t, s.ReadChunk(chunk), "empty source must not produce a chunk")

	s.Push(make([]byte, 300))
	require.False(t, s.ReadChunk(chunk), "partial data must not produce a chunk")
	require.Equal(t, 300, s.Buffered())

	s.Push(make([]byte, 20))
	require.True(t, s.ReadChunk(chunk))
	require.Equal(t, 0, s.Buffered())
}

func TestBufferedSourceFIFO(t *testing.T) {
	s := NewBufferedSource(1024)
	s.Push([]byte{1, 2, 3, 4})
	s.Push([]byte{5, 6})

	got := make([]byte, 6)
	require.True(t, s.ReadChunk(got))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)
}

func TestBufferedSourceOverrunDropsOldest(t *testing.T) {
	s := NewBufferedSource(8)
	s.Push([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	s.Push([]byte{9, 10})

	require.Equal(t, int64(2), s.Overruns())
	require.Equal(t, 8, s.Buffered())

	got := make([]byte, 8)
	require.True(t, s.ReadChunk(got))
	require.Equal(t, []byte{3, 4, 5, 6, 7, 8, 9, 10}, got)
}

func TestBufferedSourcePushLargerThanCapacity(t *testing.T) {
	s := NewBufferedSource(4)
	s.Push([]byte{1, 2, 3, 4, 5, 6})

	require.Equal(t, 4, s.Buffered())
	got := make([]byte, 4)
	require.True(t, s.ReadChunk(got))
	require.Equal(t, []byte{3, 4, 5, 6}, got)
}
