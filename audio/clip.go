// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Clip is a fully decoded, immutable piece of audio held in memory.
// Samples are interleaved float32 values in [-1,1]. A Clip is shared by
// every sound instance playing it and must not be modified after creation.
type Clip struct {
	Name       string
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Length returns the playback duration of a single pass.
func (c *Clip) Length() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// LengthMs returns the playback duration of a single pass in milliseconds.
func (c *Clip) LengthMs() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.Frames()) * 1000 / float64(c.SampleRate)
}

// Format returns the sample layout of the clip.
func (c *Clip) Format() Format {
	return Format{SampleRate: c.SampleRate, Channels: c.Channels}
}

// ReadClip drains src into a new Clip and closes it.
// When src implements Lengther the sample buffer is allocated up front.
func ReadClip(name string, src Source) (*Clip, error) {
	defer src.Close()

	channels := src.Channels()
	if channels <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidFormat
	}

	capacity := src.SampleRate() * channels
	if l, ok := src.(Lengther); ok && l.Frames() > 0 {
		capacity = int(l.Frames()) * channels
	}

	bufSize := src.BufSize()
	if bufSize <= 0 {
		bufSize = 4096
	}
	// Reads must stay frame aligned.
	bufSize -= bufSize % channels
	if bufSize == 0 {
		bufSize = channels
	}

	samples := make([]float32, 0, capacity)
	buf := make([]float32, bufSize)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		if n == 0 {
			// Some decoders signal the end with (0, nil).
			break
		}
	}

	// Drop a trailing partial frame.
	samples = samples[:len(samples)-len(samples)%channels]
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyClip)
	}

	return &Clip{
		Name:       name,
		Samples:    samples,
		SampleRate: src.SampleRate(),
		Channels:   channels,
	}, nil
}

// clipSource streams a Clip through the Source interface.
type clipSource struct {
	clip *Clip
	pos  int
}

// NewClipSource returns a Source reading c from the beginning.
func NewClipSource(c *Clip) Source {
	return &clipSource{clip: c}
}

func (s *clipSource) SampleRate() int { return s.clip.SampleRate }
func (s *clipSource) Channels() int   { return s.clip.Channels }
func (s *clipSource) BufSize() int    { return 4096 }
func (s *clipSource) Close() error    { return nil }
func (s *clipSource) Frames() int64   { return int64(s.clip.Frames()) }

func (s *clipSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.clip.Channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if s.pos >= len(s.clip.Samples) {
		return 0, io.EOF
	}

	n := copy(dst, s.clip.Samples[s.pos:])
	s.pos += n

	if s.pos >= len(s.clip.Samples) {
		return n, io.EOF
	}
	return n, nil
}
