// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/internal/intpcm"
)

type Decoder struct{}

// Decode parses the COMM chunk of r and returns a Source over the sound
// data. go-audio needs to seek, so other readers are buffered in memory.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	src, err := intpcm.New(dec, intpcm.Options{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(dec.BitDepth),
		Frames:     int64(dec.NumSampleFrames),
	})
	if err != nil {
		return nil, fmt.Errorf("%d-bit: %w", dec.BitDepth, ErrUnsupportedBitDepth)
	}

	return src, nil
}
