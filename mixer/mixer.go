// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/ik5/audmix/audio"
)

// Stats counts play requests by outcome.
type Stats struct {
	Played   uint64
	Dropped  uint64 // no free channel or backend failure
	Rejected uint64 // below the minimum volume, out of range or singleton active
}

// Option configures a Mixer.
type Option func(*Mixer) error

// WithChannels sets the size of the channel pool. The default is 8.
func WithChannels(n int) Option {
	return func(m *Mixer) error {
		if n <= 0 {
			return fmt.Errorf("channels %d: %w", n, ErrInvalidOptions)
		}
		m.capacity = n
		return nil
	}
}

// WithMinimumVolume sets the volume below which plays are rejected.
// The default is 0.1.
func WithMinimumVolume(v float64) Option {
	return func(m *Mixer) error {
		if v < 0 {
			return fmt.Errorf("minimum volume %v: %w", v, ErrInvalidOptions)
		}
		m.minVolume = v
		return nil
	}
}

// WithMasterVolume sets the initial master volume. The default is 1.
func WithMasterVolume(v float64) Option {
	return func(m *Mixer) error {
		m.master.Set(v)
		return nil
	}
}

// WithDefaultCategoryVolume sets the initial volume of built-in categories
// and of declared categories without one. The default is 1.
func WithDefaultCategoryVolume(v float64) Option {
	return func(m *Mixer) error {
		m.defaultCategory = v
		return nil
	}
}

// WithCategories declares extra categories with their initial volume.
func WithCategories(c map[Category]float64) Option {
	return func(m *Mixer) error {
		maps.Copy(m.declared, c)
		return nil
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mixer) error {
		if l != nil {
			m.log = l
		}
		return nil
	}
}

// Mixer plays sounds on a bounded pool of backend voices, applying per
// sound, per category and master volume envelopes.
//
// Nothing audible changes between calls to Tick: the host calls Tick once
// per frame with the elapsed time. A Mixer is not safe for concurrent use.
type Mixer struct {
	backend    audio.Backend
	pool       *channelPool
	categories *categoryTable
	master     Envelope
	music      *Music

	active []*Sound
	named  map[Name]*Sound
	stats  Stats

	capacity        int
	minVolume       float64
	defaultCategory float64
	declared        map[Category]float64

	log *slog.Logger
}

// New returns a Mixer playing through b.
func New(b audio.Backend, opts ...Option) (*Mixer, error) {
	if b == nil {
		return nil, fmt.Errorf("nil backend: %w", ErrInvalidOptions)
	}

	m := &Mixer{
		backend:         b,
		master:          NewEnvelope(1),
		named:           make(map[Name]*Sound),
		capacity:        8,
		minVolume:       0.1,
		defaultCategory: 1,
		declared:        make(map[Category]float64),
		log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	m.pool = newChannelPool(b, m.capacity)
	m.categories = newCategoryTable(m.defaultCategory, m.declared)
	m.music = newMusic(b, m.log)

	return m, nil
}

// PlaySound starts a new instance of t routed to cat at volume.
//
// The play is refused with ErrBelowThreshold when the volume it settles at
// (the FadeIn target if any) is below the minimum volume, and with
// ErrNoFreeChannel when the pool is exhausted. A refused play spends no
// channel.
func (m *Mixer) PlaySound(cat Category, t *Template, volume float64, opts ...PlayOption) (*Sound, error) {
	return m.play(cat, t, newPlayOptions(volume, opts))
}

// PlayNamedSound plays t and registers the instance under name. With
// single set, the play is refused with ErrSingletonActive while a sound
// registered under name is still active. Otherwise the new instance
// replaces the registration; the previous one keeps playing.
func (m *Mixer) PlayNamedSound(name Name, cat Category, t *Template, volume float64, single bool, opts ...PlayOption) (*Sound, error) {
	if single {
		if s, ok := m.named[name]; ok && s.state != Stopped {
			m.stats.Rejected++
			return nil, fmt.Errorf("%s: %w", name, ErrSingletonActive)
		}
	}

	s, err := m.play(cat, t, newPlayOptions(volume, opts))
	if err != nil {
		return nil, err
	}

	m.named[name] = s
	return s, nil
}

func (m *Mixer) play(cat Category, t *Template, o playOptions) (*Sound, error) {
	if t == nil || t.Clip == nil {
		return nil, ErrNilTemplate
	}

	group, err := m.categories.entry(cat)
	if err != nil {
		return nil, err
	}

	if o.audible() < m.minVolume {
		m.stats.Rejected++
		m.log.Debug("sound rejected", "sound", t.Name, "category", cat, "volume", o.audible())
		return nil, fmt.Errorf("%s at %.3f: %w", t.Name, o.audible(), ErrBelowThreshold)
	}

	s := newSound(t, cat, group)
	ch, v, err := m.pool.acquire(s, o.loops)
	if err != nil {
		m.stats.Dropped++
		m.log.Debug("sound dropped", "sound", t.Name, "category", cat, "err", err)
		return nil, err
	}

	s.start(ch, v, o)
	if group.paused {
		v.Pause()
	}
	s.apply(group.env.Current() * m.master.Current())

	m.active = append(m.active, s)
	m.stats.Played++
	return s, nil
}

// StopNamedSound stops the sound registered under name.
func (m *Mixer) StopNamedSound(name Name, fade time.Duration) error {
	s, ok := m.named[name]
	if !ok || s.state == Stopped {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	s.Stop(fade)
	return nil
}

// NamedSound returns the sound registered under name.
func (m *Mixer) NamedSound(name Name) (*Sound, bool) {
	s, ok := m.named[name]
	if !ok || s.state == Stopped {
		return nil, false
	}
	return s, true
}

// StopCategory stops every active sound routed to c.
func (m *Mixer) StopCategory(c Category, fade time.Duration) error {
	if !m.categories.known(c) {
		return fmt.Errorf("%q: %w", c, ErrUnknownCategory)
	}

	for _, s := range m.active {
		if s.category == c {
			s.Stop(fade)
		}
	}
	return nil
}

// StopAll stops every active sound. Music is left alone.
func (m *Mixer) StopAll(fade time.Duration) {
	for _, s := range m.active {
		s.Stop(fade)
	}
}

func (m *Mixer) SetMasterVolume(v float64) { m.master.Set(v) }

func (m *Mixer) FadeMasterVolume(target float64, d time.Duration) { m.master.FadeTo(target, d) }

func (m *Mixer) MasterVolume() float64 { return m.master.Current() }

func (m *Mixer) SetCategoryVolume(c Category, v float64) error {
	e, err := m.categories.entry(c)
	if err != nil {
		return err
	}
	e.env.Set(v)
	return nil
}

func (m *Mixer) FadeCategoryVolume(c Category, target float64, d time.Duration) error {
	e, err := m.categories.entry(c)
	if err != nil {
		return err
	}
	e.env.FadeTo(target, d)
	return nil
}

// CategoryVolume returns the current volume of c.
func (m *Mixer) CategoryVolume(c Category) (float64, error) {
	if !m.categories.known(c) {
		return 0, fmt.Errorf("%q: %w", c, ErrUnknownCategory)
	}
	return m.categories.volume(c), nil
}

// CategoryPaused reports whether c is paused.
func (m *Mixer) CategoryPaused(c Category) bool { return m.categories.isPaused(c) }

// PauseCategory pauses the voices routed to each category. The sounds keep
// their state; their envelopes and loop accounting freeze until resumed.
func (m *Mixer) PauseCategory(cs ...Category) error {
	for _, c := range cs {
		e, err := m.categories.entry(c)
		if err != nil {
			return err
		}
		m.pauseEntry(c, e)
	}
	return nil
}

// ResumeCategory resumes each category. Sounds paused on their own stay
// paused.
func (m *Mixer) ResumeCategory(cs ...Category) error {
	for _, c := range cs {
		e, err := m.categories.entry(c)
		if err != nil {
			return err
		}
		m.resumeEntry(c, e)
	}
	return nil
}

func (m *Mixer) pauseEntry(c Category, e *categoryEntry) {
	if e.paused {
		return
	}
	e.paused = true
	m.pool.forCategory(c, func(sl *slot) { sl.voice.Pause() })
}

func (m *Mixer) resumeEntry(c Category, e *categoryEntry) {
	if !e.paused {
		return
	}
	e.paused = false
	m.pool.forCategory(c, func(sl *slot) {
		if sl.sound.state != Paused {
			sl.voice.Resume()
		}
	})
}

// PauseAll pauses every category and the music. Categories first used
// while paused start paused.
func (m *Mixer) PauseAll() {
	m.categories.paused = true
	for c, e := range m.categories.entries {
		m.pauseEntry(c, e)
	}
	m.music.pause()
}

// ResumeAll resumes every category and the music.
func (m *Mixer) ResumeAll() {
	m.categories.paused = false
	for c, e := range m.categories.entries {
		m.resumeEntry(c, e)
	}
	m.music.resume()
}

// Paused reports whether PauseAll is in effect.
func (m *Mixer) Paused() bool { return m.categories.paused }

// Tick advances every envelope and sound by dt and reclaims finished
// channels. Order matters: master and category envelopes move first so
// sounds apply this frame's values. A panic in one component is logged and
// does not keep the others from advancing.
func (m *Mixer) Tick(dt time.Duration) {
	ms := max(toMs(dt), 0)

	m.guard("master", func() { m.master.advance(ms) })

	for c, e := range m.categories.entries {
		if e.paused {
			continue
		}
		m.guard("category "+string(c), func() { e.env.advance(ms) })
	}

	master := m.master.Current()
	for _, s := range m.active {
		if s.state == Stopped || s.group.paused {
			continue
		}

		gain := s.group.env.Current() * master
		if !m.guard("sound "+s.tmpl.Name, func() { s.update(ms, gain) }) {
			m.guard("halt "+s.tmpl.Name, s.halt)
		}
	}

	m.pool.reconcile(m.categories.isPaused, func(ch Channel, fn func()) {
		if !m.guard(fmt.Sprintf("channel %d", ch), fn) {
			if s := m.pool.sound(ch); s != nil {
				m.guard(fmt.Sprintf("halt %d", ch), s.halt)
			}
			m.guard(fmt.Sprintf("release %d", ch), func() { m.pool.release(ch) })
		}
	})

	m.prune()

	if !m.guard("music", func() { m.music.update(ms, master) }) {
		m.guard("music unload", m.music.unload)
	}
}

// guard runs fn and reports whether it returned normally.
func (m *Mixer) guard(component string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("tick failed", "component", component, "panic", r)
			ok = false
		}
	}()

	fn()
	return true
}

func (m *Mixer) prune() {
	m.active = slices.DeleteFunc(m.active, func(s *Sound) bool {
		return s.state == Stopped
	})
	maps.DeleteFunc(m.named, func(_ Name, s *Sound) bool {
		return s.state == Stopped
	})
}

// ActiveSounds returns the sounds that have not stopped yet.
func (m *Mixer) ActiveSounds() []*Sound {
	out := make([]*Sound, 0, len(m.active))
	for _, s := range m.active {
		if s.state != Stopped {
			out = append(out, s)
		}
	}
	return out
}

// ChannelsInUse is the number of occupied channels.
func (m *Mixer) ChannelsInUse() int { return m.pool.inUse }

// Capacity is the size of the channel pool.
func (m *Mixer) Capacity() int { return m.pool.capacity() }

// MinimumVolume is the threshold below which plays are rejected.
func (m *Mixer) MinimumVolume() float64 { return m.minVolume }

func (m *Mixer) Stats() Stats { return m.stats }
