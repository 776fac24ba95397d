package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeS16LE(t *testing.T) {
	src := []byte{0x64, 0x00, 0x9c, 0xff, 0xff, 0x7f, 0x00, 0x80}
	dst := make([]int16, 4)
	n := DecodeS16LE(dst, src)
	require.Equal(t, 4, n)
	require.Equal(t, []int16{100, -100, 32767, -32768}, dst)
}

func TestDecodeS16LEOddTrailingByte(t *testing.T) {
	// 2k+1 bytes decode exactly k samples
	src := []byte{0x01, 0x00, 0x02, 0x00, 0xff}
	dst := make([]int16, 4)
	n := DecodeS16LE(dst, src)
	require.Equal(t, 2, n)
	require.Equal(t, []int16{1, 2}, dst[:n])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 12345, -12345, 32767, -32768}
	buf := make([]byte, len(samples)*2)
	require.Equal(t, len(buf), EncodeS16LE(buf, samples))

	out := make([]int16, len(samples))
	require.Equal(t, len(samples), DecodeS16LE(out, buf))
	require.Equal(t, samples, out)
}

func TestDAC8(t *testing.T) {
	cases := []struct {
		in  int16
		out byte
	}{
		{-32768, 0},
		{0, 128},
		{16384, 192},
		{32767, 255},
	}
	for _, c := range cases {
		require.Equal(t, c.out, DAC8(c.in), "DAC8(%d)", c.in)
	}
}

func TestFromDAC8(t *testing.T) {
	require.Equal(t, int16(-32768), FromDAC8(0))
	require.Equal(t, int16(0), FromDAC8(128))
	require.Equal(t, int16(16384), FromDAC8(192))

	// inverse up to the truncated low byte
	for _, s := range []int16{-32768, -256, 0, 256, 16384} {
		require.Equal(t, s, FromDAC8(DAC8(s)))
	}
}
