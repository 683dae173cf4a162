// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/internal/intpcm"
)

const formatPCM = 1

type Decoder struct{}

// Decode parses the RIFF headers of r and returns a Source positioned at
// the start of the PCM data. Readers that cannot seek are buffered in
// memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("format tag %d: %w", dec.WavAudioFormat, ErrOnlyPCMSupported)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDataChunk, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrNoDataChunk
	}

	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	if channels <= 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	frames := int64(-1)
	if frameSize := int64(channels * depth / 8); frameSize > 0 {
		frames = dec.PCMLen() / frameSize
	}

	src, err := intpcm.New(dec, intpcm.Options{
		SampleRate: int(dec.SampleRate),
		Channels:   channels,
		BitDepth:   depth,
		Frames:     frames,
		Unsigned8:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%d-bit: %w", depth, ErrUnsupportedBitDepth)
	}

	return src, nil
}
