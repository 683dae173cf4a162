// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM decoders to audio.Source.
package intpcm

import (
	"errors"
	"io"

	goaudio "github.com/go-audio/audio"
)

// ErrBitDepth is returned for sample widths other than 8, 16, 24 and 32 bits.
var ErrBitDepth = errors.New("unsupported bit depth")

// Reader is the part of the go-audio wav and aiff decoders used here.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source reads integer PCM and scales it to float32 in [-1,1].
type Source struct {
	r        Reader
	format   *goaudio.Format
	depth    int
	unsigned bool // 8-bit WAV is stored with a 128 offset
	frames   int64
	buf      *goaudio.IntBuffer
}

// Options describe the stream behind a Reader.
type Options struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Frames is the total frame count, -1 when unknown.
	Frames int64
	// Unsigned8 marks 8-bit samples as unsigned.
	Unsigned8 bool
}

// New returns a Source over r.
func New(r Reader, o Options) (*Source, error) {
	if scale(o.BitDepth) == 0 {
		return nil, ErrBitDepth
	}

	return &Source{
		r:        r,
		format:   &goaudio.Format{SampleRate: o.SampleRate, NumChannels: o.Channels},
		depth:    o.BitDepth,
		unsigned: o.Unsigned8 && o.BitDepth == 8,
		frames:   o.Frames,
	}, nil
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }
func (s *Source) Close() error    { return nil }
func (s *Source) Frames() int64   { return s.frames }
func (s *Source) BitDepth() int   { return s.depth }

func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.depth,
		}
	} else {
		s.buf.Data = s.buf.Data[:len(dst)]
	}

	n, err := s.r.PCMBuffer(s.buf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	div := scale(s.depth)
	for i, v := range s.buf.Data[:n] {
		if s.unsigned {
			v -= 128
		}
		dst[i] = float32(v) / div
	}

	if n < len(dst) && err == nil {
		return n, io.EOF
	}
	return n, err
}

func scale(depth int) float32 {
	switch depth {
	case 8:
		return 128
	case 16:
		return 32768
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 0
	}
}
