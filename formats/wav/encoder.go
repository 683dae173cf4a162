// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

const headerSize = 44

// Encode writes c as a canonical 16-bit PCM WAV file. Samples outside
// [-1,1] are clipped.
func Encode(w io.Writer, c *audio.Clip) error {
	if c.Channels <= 0 || c.SampleRate <= 0 {
		return audio.ErrInvalidFormat
	}

	samples := c.Samples[:c.Frames()*c.Channels]
	blockAlign := uint16(c.Channels * 2)
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], headerSize-8+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(c.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(c.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(c.SampleRate)*uint32(blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], 16)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	// Chunked so long clips need no second full-size buffer.
	const chunk = 8192
	buf := make([]byte, 2*min(len(samples), chunk))

	for i := 0; i < len(samples); i += chunk {
		end := min(i+chunk, len(samples))
		n := utils.PutInt16LE(buf, samples[i:end])

		if _, err := w.Write(buf[:n]); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	return nil
}
