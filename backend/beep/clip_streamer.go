// SPDX-License-Identifier: EPL-2.0

package beep

import (
	gobeep "github.com/gopxl/beep"

	"github.com/ik5/audmix/audio"
)

// clipStreamer is a beep.StreamSeeker over a clip. Mono clips feed both
// speaker channels; channels past the second are dropped.
type clipStreamer struct {
	clip *audio.Clip
	pos  int // frame
}

var _ gobeep.StreamSeeker = (*clipStreamer)(nil)

func newClipStreamer(c *audio.Clip) *clipStreamer {
	return &clipStreamer{clip: c}
}

func (s *clipStreamer) Stream(samples [][2]float64) (int, bool) {
	frames := s.clip.Frames()
	if s.pos >= frames {
		return 0, false
	}

	ch := s.clip.Channels
	n := min(len(samples), frames-s.pos)
	for i := range n {
		base := (s.pos + i) * ch
		left := float64(s.clip.Samples[base])
		right := left
		if ch > 1 {
			right = float64(s.clip.Samples[base+1])
		}
		samples[i] = [2]float64{left, right}
	}

	s.pos += n
	return n, true
}

func (s *clipStreamer) Err() error    { return nil }
func (s *clipStreamer) Len() int      { return s.clip.Frames() }
func (s *clipStreamer) Position() int { return s.pos }

func (s *clipStreamer) Seek(p int) error {
	s.pos = min(max(p, 0), s.clip.Frames())
	return nil
}
