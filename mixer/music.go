// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/audmix/audio"
)

// Music is the single background track of a Mixer. Its volume is scaled by
// the master volume only; categories do not apply.
//
// Starting a track while another is loaded swaps them abruptly. For a
// crossfade, stop the current track with a fade and start the next one
// with FadeIn.
type Music struct {
	backend audio.Backend
	log     *slog.Logger

	clip    *audio.Clip
	voice   audio.Voice
	env     Envelope
	loops   int
	elapsed float64
	length  float64
	applied float64

	playing  bool
	paused   bool
	stopping bool // unload once the fade out reaches 0
}

func newMusic(b audio.Backend, log *slog.Logger) *Music {
	return &Music{backend: b, log: log}
}

func (mu *Music) play(clip *audio.Clip, o playOptions) error {
	if clip == nil {
		return ErrNoTrack
	}

	if mu.voice != nil {
		mu.log.Debug("music swapped", "from", mu.clip.Name, "to", clip.Name)
		mu.unload()
	}

	v, err := mu.backend.Play(clip, o.loops)
	if err != nil {
		return fmt.Errorf("starting music %s: %w", clip.Name, err)
	}

	mu.clip = clip
	mu.voice = v
	mu.loops = o.loops
	mu.elapsed = 0
	mu.length = clip.LengthMs()
	mu.playing = true
	mu.paused = false
	mu.stopping = false

	mu.env.Set(o.volume)
	if o.hasFade {
		mu.env.FadeTo(o.target, o.fade)
	}
	return nil
}

func (mu *Music) stop(fade time.Duration) {
	if !mu.playing {
		return
	}

	if fade <= 0 || mu.paused {
		mu.unload()
		return
	}

	mu.stopping = true
	mu.env.FadeTo(0, fade)
}

func (mu *Music) pause() {
	if !mu.playing || mu.paused {
		return
	}
	mu.paused = true
	mu.voice.Pause()
}

func (mu *Music) resume() {
	if !mu.playing || !mu.paused {
		return
	}
	mu.paused = false
	mu.voice.Resume()
}

func (mu *Music) update(ms, master float64) {
	if !mu.playing || mu.paused {
		return
	}

	mu.env.advance(ms)
	mu.applied = mu.env.Current() * master
	mu.voice.SetVolume(mu.applied)

	if mu.stopping && mu.env.Current() <= 0 {
		mu.unload()
		return
	}

	mu.elapsed += ms
	expired := mu.loops != audio.LoopForever && mu.elapsed > mu.length*float64(mu.loops+1)
	if expired || !mu.voice.Busy() {
		mu.unload()
	}
}

func (mu *Music) unload() {
	v := mu.voice
	mu.voice = nil
	mu.playing = false
	mu.paused = false
	mu.stopping = false
	mu.applied = 0
	mu.env.Set(0)

	if v != nil {
		v.Stop()
	}
}

// Track is the name of the loaded clip, empty when nothing is loaded.
func (mu *Music) Track() string {
	if !mu.playing {
		return ""
	}
	return mu.clip.Name
}

// Volume is the music envelope value before the master volume.
func (mu *Music) Volume() float64 { return mu.env.Current() }

// EffectiveVolume is the gain last sent to the voice.
func (mu *Music) EffectiveVolume() float64 { return mu.applied }

func (mu *Music) Playing() bool  { return mu.playing }
func (mu *Music) Paused() bool   { return mu.paused }
func (mu *Music) Stopping() bool { return mu.stopping }

// SetVolume jumps the music volume to v.
func (mu *Music) SetVolume(v float64) { mu.env.Set(v) }

// FadeVolume fades the music volume to target over d without stopping.
func (mu *Music) FadeVolume(target float64, d time.Duration) { mu.env.FadeTo(target, d) }

// PlayMusic loads clip as the music track and starts it at volume,
// replacing any current track.
func (m *Mixer) PlayMusic(clip *audio.Clip, volume float64, opts ...PlayOption) error {
	return m.music.play(clip, newPlayOptions(volume, opts))
}

// StopMusic stops the track. With a positive fade it unloads once the
// volume reaches 0.
func (m *Mixer) StopMusic(fade time.Duration) { m.music.stop(fade) }

func (m *Mixer) PauseMusic()  { m.music.pause() }
func (m *Mixer) ResumeMusic() { m.music.resume() }

func (m *Mixer) MusicPlaying() bool { return m.music.playing }

// Music returns the music track state.
func (m *Mixer) Music() *Music { return m.music }
