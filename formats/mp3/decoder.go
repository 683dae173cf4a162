// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audmix/audio"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels       = 2
	bytesPerSample = 2
	bytesPerFrame  = channels * bytesPerSample
)

// mp3Reader is the part of gomp3.Decoder used by source.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec mp3Reader
	buf []byte
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / bytesPerSample }

// Frames is known only when the input could seek.
func (s *source) Frames() int64 {
	if n := s.dec.Length(); n > 0 {
		return n / bytesPerFrame
	}
	return -1
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) * bytesPerSample
	want -= want % bytesPerFrame
	if want == 0 {
		return 0, nil
	}

	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	s.buf = s.buf[:want]

	n, err := s.dec.Read(s.buf)
	samples := n / bytesPerSample
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = float32(v) / 32768
	}

	if samples == 0 && err == nil {
		return 0, io.EOF
	}
	return samples, err
}

type Decoder struct{}

// Decode reads the first MP3 frame header of r. When r is an io.Seeker
// the decoder also scans the stream to report its length.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{
		dec: dec,
		buf: make([]byte, 8192),
	}, nil
}
