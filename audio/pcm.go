package audio

// DecodeS16LE decodes little-endian 16-bit PCM bytes into dst and
// returns the number of samples written. A dangling odd byte at the
// end of src is ignored.
func DecodeS16LE(dst []int16, src []byte) int {
	n := min(len(dst), len(src)/2)
	for i := 0; i < n; i++ {
		dst[i] = int16(src[i*2]) | int16(src[i*2+1])<<8
	}
	return n
}

// EncodeS16LE encodes samples as little-endian 16-bit PCM bytes into
// dst and returns the number of bytes written.
func EncodeS16LE(dst []byte, src []int16) int {
	n := min(len(dst)/2, len(src))
	for i := 0; i < n; i++ {
		dst[i*2] = byte(src[i])
		dst[i*2+1] = byte(src[i] >> 8)
	}
	return n * 2
}

// DAC8 scales a signed 16-bit sample to an unsigned 8-bit output
// value: high byte plus a +128 bias to re-center around the unsigned
// midpoint.
func DAC8(s int16) byte {
	return byte((int32(s) >> 8) + 128)
}

// FromDAC8 expands an unsigned 8-bit output value back to the signed
// 16-bit range. Inverse of DAC8 up to the truncated low byte.
func FromDAC8(v byte) int16 {
	return (int16(v) - 128) << 8
}
