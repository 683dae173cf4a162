// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// Float32ToInt16 clamps x to [-1,1] and scales it to a signed 16-bit sample.
// The scale is symmetric, so -1 maps to -32767 rather than math.MinInt16.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(x * 32767.0)
}

// PutInt16LE encodes samples as little-endian signed 16-bit PCM into dst.
// dst must hold at least 2*len(samples) bytes; the number of bytes written
// is returned.
func PutInt16LE(dst []byte, samples []float32) int {
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(Float32ToInt16(s)))
	}
	return 2 * len(samples)
}

// Int16LE returns samples encoded as little-endian signed 16-bit PCM.
func Int16LE(samples []float32) []byte {
	buf := make([]byte, 2*len(samples))
	PutInt16LE(buf, samples)
	return buf
}
