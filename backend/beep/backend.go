// SPDX-License-Identifier: EPL-2.0

// Package beep plays clips through the github.com/gopxl/beep speaker. All
// voices are summed by one beep.Mixer; each voice is a beep.Ctrl around an
// effects.Volume so pause and gain changes take effect on the next buffer.
package beep

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	gobeep "github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/ik5/audmix/audio"
)

// resampleQuality is the beep.Resample interpolation quality used for clips
// recorded at another rate.
const resampleQuality = 4

type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// Backend feeds every voice into a single beep.Mixer played by the speaker.
type Backend struct {
	rate  gobeep.SampleRate
	mixer *gobeep.Mixer
	// lock guards mixer and voice streamers against the audio goroutine.
	lock    sync.Locker
	started bool
}

// New initializes the speaker at sampleRate with a buffer of the given
// length and starts playing.
func New(sampleRate int, buffer time.Duration) (*Backend, error) {
	if sampleRate <= 0 {
		return nil, audio.ErrInvalidFormat
	}

	rate := gobeep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	b := newBackend(rate, speakerLock{})
	speaker.Play(b.mixer)
	b.started = true
	return b, nil
}

func newBackend(rate gobeep.SampleRate, lock sync.Locker) *Backend {
	return &Backend{
		rate:  rate,
		mixer: &gobeep.Mixer{},
		lock:  lock,
	}
}

// SampleRate is the speaker rate.
func (b *Backend) SampleRate() int { return int(b.rate) }

// Play starts clip silent. loops follows audio.LoopForever and extra-pass
// counts; beep counts whole passes.
func (b *Backend) Play(clip *audio.Clip, loops int) (audio.Voice, error) {
	if clip.Channels <= 0 || clip.SampleRate <= 0 {
		return nil, audio.ErrInvalidFormat
	}

	count := loops + 1
	if loops < 0 {
		count = -1
	}

	var s gobeep.Streamer = gobeep.Loop(count, newClipStreamer(clip))
	if clipRate := gobeep.SampleRate(clip.SampleRate); clipRate != b.rate {
		s = gobeep.Resample(resampleQuality, clipRate, b.rate, s)
	}

	v := &voice{
		lock:   b.lock,
		volume: &effects.Volume{Streamer: s, Base: 2, Silent: true},
	}
	v.ctrl = &gobeep.Ctrl{Streamer: v.volume}

	b.lock.Lock()
	b.mixer.Add(gobeep.Seq(v.ctrl, gobeep.Callback(v.finish)))
	b.lock.Unlock()

	return v, nil
}

// Active returns how many voices the mixer still streams.
func (b *Backend) Active() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.mixer.Len()
}

// Close drops every voice and releases the speaker.
func (b *Backend) Close() error {
	b.lock.Lock()
	b.mixer.Clear()
	b.lock.Unlock()

	if b.started {
		speaker.Close()
		b.started = false
	}
	return nil
}

type voice struct {
	lock   sync.Locker
	ctrl   *gobeep.Ctrl
	volume *effects.Volume

	done    atomic.Bool
	stopped atomic.Bool
}

func (v *voice) finish() { v.done.Store(true) }

// SetVolume converts the linear gain to the exponent effects.Volume uses.
func (v *voice) SetVolume(vol float64) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if vol <= 0 {
		v.volume.Silent = true
		return
	}
	v.volume.Silent = false
	v.volume.Volume = math.Log2(min(vol, 1))
}

func (v *voice) Busy() bool {
	return !v.stopped.Load() && !v.done.Load()
}

func (v *voice) Pause() {
	v.lock.Lock()
	v.ctrl.Paused = true
	v.lock.Unlock()
}

func (v *voice) Resume() {
	v.lock.Lock()
	v.ctrl.Paused = false
	v.lock.Unlock()
}

// Stop detaches the streamer; the mixer drops the voice on its next pass.
func (v *voice) Stop() {
	if v.stopped.Swap(true) {
		return
	}

	v.lock.Lock()
	v.ctrl.Streamer = nil
	v.ctrl.Paused = false
	v.lock.Unlock()
}
