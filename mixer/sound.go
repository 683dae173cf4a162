// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"time"

	"github.com/ik5/audmix/audio"
)

// State is the lifecycle stage of a Sound.
type State int

const (
	Stopped State = iota
	Playing
	// Pausing is a sound fading out toward its end; it stops at volume 0.
	Pausing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Pausing:
		return "pausing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Template is a loaded sound asset: a clip plus its asset gain. Volume
// multiplies every instance on top of the play volume, so a quiet recording
// can be leveled once at load time. Templates are never played directly;
// every play creates a new Sound.
type Template struct {
	Name   string
	Clip   *audio.Clip
	Volume float64
}

// NewTemplate returns a template for clip named after it.
func NewTemplate(clip *audio.Clip, volume float64) *Template {
	return &Template{Name: clip.Name, Clip: clip, Volume: volume}
}

// Sound is one playing instance of a Template.
//
// A Sound is created by the Mixer and only advances when the Mixer ticks.
// It is not safe for concurrent use.
type Sound struct {
	tmpl     *Template
	category Category
	group    *categoryEntry

	env     Envelope
	loops   int
	elapsed float64 // ms of playback since start
	length  float64 // ms of one pass

	state   State
	channel Channel
	voice   audio.Voice
	pool    *channelPool
	applied float64
}

func newSound(t *Template, cat Category, group *categoryEntry) *Sound {
	return &Sound{
		tmpl:     t,
		category: cat,
		group:    group,
		length:   t.Clip.LengthMs(),
		channel:  NoChannel,
	}
}

func (s *Sound) start(ch Channel, v audio.Voice, o playOptions) {
	s.channel = ch
	s.voice = v
	s.loops = o.loops
	s.elapsed = 0
	s.state = Playing

	s.env.Set(o.volume)
	if o.hasFade {
		s.env.FadeTo(o.target, o.fade)
	}
}

// Stop ends the sound. With a positive fade the sound first moves to
// Pausing and fades to silence, stopping once the volume reaches 0.
// Stopping a stopped sound does nothing.
func (s *Sound) Stop(fade time.Duration) {
	switch s.state {
	case Stopped:
		return
	case Paused:
		// Nothing is audible to fade out.
		s.halt()
		return
	}

	if fade <= 0 {
		s.halt()
		return
	}

	s.state = Pausing
	s.env.FadeTo(0, fade)
}

// Pause suspends a playing sound. The envelope and loop accounting freeze
// until Resume.
func (s *Sound) Pause() {
	if s.state != Playing {
		return
	}

	s.state = Paused
	s.voice.Pause()
}

// Resume continues a paused sound. If its category is paused the sound is
// marked playing but stays silent until the category resumes.
func (s *Sound) Resume() {
	if s.state != Paused {
		return
	}

	s.state = Playing
	if s.group != nil && s.group.paused {
		return
	}
	s.voice.Resume()
}

// SetVolume jumps the sound's own volume to v.
func (s *Sound) SetVolume(v float64) { s.env.Set(v) }

// FadeVolume fades the sound's own volume to target over d.
func (s *Sound) FadeVolume(target float64, d time.Duration) { s.env.FadeTo(target, d) }

func (s *Sound) State() State        { return s.state }
func (s *Sound) Category() Category  { return s.category }
func (s *Sound) Template() *Template { return s.tmpl }
func (s *Sound) Channel() Channel    { return s.channel }
func (s *Sound) Loops() int          { return s.loops }

// Length is the duration of one pass of the clip.
func (s *Sound) Length() time.Duration { return s.tmpl.Clip.Length() }

// Volume is the sound's own envelope value, before category and master.
func (s *Sound) Volume() float64 { return s.env.Current() }

// EffectiveVolume is the gain last sent to the voice.
func (s *Sound) EffectiveVolume() float64 { return s.applied }

// Elapsed is the playback time accounted so far.
func (s *Sound) Elapsed() time.Duration {
	return time.Duration(s.elapsed * float64(time.Millisecond))
}

// update advances the sound by ms given the combined category and master
// gain. Paused and stopped sounds are left untouched.
func (s *Sound) update(ms, gain float64) {
	if s.state == Stopped || s.state == Paused {
		return
	}

	s.env.advance(ms)
	s.apply(gain)

	if s.state == Pausing && s.env.Current() <= 0 {
		s.halt()
		return
	}

	s.elapsed += ms
	if s.loops != audio.LoopForever && s.elapsed > s.length*float64(s.loops+1) {
		s.halt()
	}
}

func (s *Sound) apply(gain float64) {
	s.applied = s.env.Current() * s.tmpl.Volume * gain
	if s.voice != nil {
		s.voice.SetVolume(s.applied)
	}
}

// halt moves the sound to Stopped, frees its channel and releases its
// voice. State and channel are updated before the voice is touched so a
// failing voice cannot leave the sound half stopped.
func (s *Sound) halt() {
	v, ch := s.voice, s.channel
	s.voice = nil
	s.channel = NoChannel
	s.state = Stopped
	s.env.Set(0)

	if s.pool != nil {
		s.pool.free(ch, s)
		s.pool = nil
	}
	if v != nil {
		v.Stop()
	}
}
