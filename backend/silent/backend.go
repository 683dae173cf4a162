// SPDX-License-Identifier: EPL-2.0

// Package silent is a playback backend without a device. Voices keep time
// against a clock so Busy turns false when a clip would have finished,
// which keeps the mixer's channel accounting honest on headless servers and
// in CI.
package silent

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audmix/audio"
)

// Backend starts clock-driven voices.
type Backend struct {
	now func() time.Time

	started atomic.Uint64
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// New returns a Backend using the wall clock unless WithClock is given.
func New(opts ...Option) *Backend {
	b := &Backend{now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Started counts every voice ever started.
func (b *Backend) Started() uint64 { return b.started.Load() }

func (b *Backend) Play(clip *audio.Clip, loops int) (audio.Voice, error) {
	if clip.SampleRate <= 0 || clip.Channels <= 0 {
		return nil, audio.ErrInvalidFormat
	}

	b.started.Add(1)
	return &voice{
		now:    b.now,
		start:  b.now(),
		length: clip.Length(),
		loops:  loops,
	}, nil
}

type voice struct {
	now    func() time.Time
	length time.Duration
	loops  int

	mu       sync.Mutex
	start    time.Time
	pausedAt time.Time
	paused   bool
	stopped  bool
	volume   float64
}

// played must be called with mu held.
func (v *voice) played() time.Duration {
	if v.paused {
		return v.pausedAt.Sub(v.start)
	}
	return v.now().Sub(v.start)
}

func (v *voice) SetVolume(vol float64) {
	v.mu.Lock()
	v.volume = vol
	v.mu.Unlock()
}

// Volume is the last gain set.
func (v *voice) Volume() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.volume
}

func (v *voice) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case v.stopped:
		return false
	case v.paused, v.loops < 0:
		return true
	default:
		return v.played() < v.length*time.Duration(v.loops+1)
	}
}

func (v *voice) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.paused {
		v.pausedAt = v.now()
		v.paused = true
	}
}

func (v *voice) Resume() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.paused {
		v.start = v.start.Add(v.now().Sub(v.pausedAt))
		v.paused = false
	}
}

func (v *voice) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}
