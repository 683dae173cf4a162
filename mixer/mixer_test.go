package mixer

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/playtest"
)

const frame = 100 * time.Millisecond

// testClip is a mono clip at 1 kHz lasting ms milliseconds.
func testClip(name string, ms int) *audio.Clip {
	return &audio.Clip{
		Name:       name,
		Samples:    make([]float32, ms),
		SampleRate: 1000,
		Channels:   1,
	}
}

func testTemplate(name string, ms int) *Template {
	return NewTemplate(testClip(name, ms), 1)
}

func newTestMixer(t *testing.T, opts ...Option) (*Mixer, *playtest.Backend) {
	t.Helper()

	b := playtest.NewBackend()
	m, err := New(b, opts...)
	require.NoError(t, err)
	return m, b
}

func tickFor(m *Mixer, total time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += frame {
		m.Tick(frame)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)

	assert.Equal(t, 8, m.Capacity())
	assert.Equal(t, 0.1, m.MinimumVolume())
	assert.Equal(t, 1.0, m.MasterVolume())
	assert.Zero(t, m.ChannelsInUse())
	assert.False(t, m.Paused())
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidOptions)

	_, err = New(playtest.NewBackend(), WithChannels(0))
	require.ErrorIs(t, err, ErrInvalidOptions)

	_, err = New(playtest.NewBackend(), WithMinimumVolume(-1))
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestPlaySound_StartsVoice(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	tmpl := testTemplate("jump", 1000)

	s, err := m.PlaySound(SFX, tmpl, 0.8, Loops(2))
	require.NoError(t, err)

	assert.Equal(t, Playing, s.State())
	assert.Equal(t, Channel(0), s.Channel())
	assert.Equal(t, SFX, s.Category())
	assert.Equal(t, 2, s.Loops())
	assert.Equal(t, time.Second, s.Length())
	assert.Same(t, tmpl, s.Template())

	v := b.Last()
	require.NotNil(t, v)
	assert.Same(t, tmpl.Clip, v.Clip)
	assert.Equal(t, 2, v.Loops)
	assert.InDelta(t, 0.8, v.Volume, 1e-9)
	assert.Equal(t, 1, m.ChannelsInUse())
	assert.Equal(t, Stats{Played: 1}, m.Stats())
}

func TestPlaySound_FreshInstancePerPlay(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)
	tmpl := testTemplate("step", 500)

	a, err := m.PlaySound(SFX, tmpl, 1)
	require.NoError(t, err)
	b, err := m.PlaySound(SFX, tmpl, 0.5)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 1.0, a.Volume())
	assert.Equal(t, 0.5, b.Volume())
	assert.Equal(t, 1.0, tmpl.Volume)
	assert.Len(t, m.ActiveSounds(), 2)
}

func TestPlaySound_TemplateGain(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	tmpl := NewTemplate(testClip("quiet", 500), 2)

	_, err := m.PlaySound(SFX, tmpl, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, b.Last().Volume, 1e-9)
}

func TestPlaySound_BelowThreshold(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	tmpl := testTemplate("whisper", 1000)

	_, err := m.PlaySound(SFX, tmpl, 0.05)
	require.ErrorIs(t, err, ErrBelowThreshold)
	assert.Zero(t, m.ChannelsInUse())
	assert.Empty(t, b.Voices)

	// A fade whose target is audible is accepted even from silence.
	s, err := m.PlaySound(SFX, tmpl, 0, FadeIn(time.Second, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, m.ChannelsInUse())

	// A fade toward an inaudible target is rejected.
	_, err = m.PlaySound(SFX, tmpl, 1, FadeIn(time.Second, 0.01))
	require.ErrorIs(t, err, ErrBelowThreshold)

	assert.Equal(t, Stats{Played: 1, Rejected: 2}, m.Stats())
	assert.Equal(t, Playing, s.State())
}

func TestPlaySound_InvalidReferences(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)

	_, err := m.PlaySound(SFX, nil, 1)
	require.ErrorIs(t, err, ErrNilTemplate)

	_, err = m.PlaySound(SFX, &Template{Name: "empty"}, 1)
	require.ErrorIs(t, err, ErrNilTemplate)

	_, err = m.PlaySound("weather", testTemplate("rain", 100), 1)
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Zero(t, m.ChannelsInUse())
}

func TestPlaySound_FadeIn(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)

	s, err := m.PlaySound(Ambient, testTemplate("wind", 5000), 0, FadeIn(time.Second, 1))
	require.NoError(t, err)
	assert.Zero(t, b.Last().Volume)

	tickFor(m, 500*time.Millisecond)
	assert.InDelta(t, 0.5, s.Volume(), 1e-9)
	assert.InDelta(t, 0.5, b.Last().Volume, 1e-9)

	tickFor(m, 500*time.Millisecond)
	assert.Equal(t, 1.0, s.Volume())
}

func TestTick_EffectiveVolumeIsProduct(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	require.NoError(t, m.SetCategoryVolume(SFX, 0.5))

	s, err := m.PlaySound(SFX, testTemplate("engine", 10_000), 1, LoopForever())
	require.NoError(t, err)

	m.FadeMasterVolume(0, time.Second)
	tickFor(m, 500*time.Millisecond)

	assert.InDelta(t, 0.5, m.MasterVolume(), 1e-9)
	assert.InDelta(t, 0.25, s.EffectiveVolume(), 1e-9)
	assert.InDelta(t, 0.25, b.Last().Volume, 1e-9)
}

func TestTick_EnvelopesAdvanceBeforeSounds(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	_, err := m.PlaySound(UI, testTemplate("click", 10_000), 1)
	require.NoError(t, err)

	require.NoError(t, m.FadeCategoryVolume(UI, 0, time.Second))
	m.Tick(frame)

	// This frame's category value, not last frame's 1.0.
	assert.InDelta(t, 0.9, b.Last().Volume, 1e-9)
}

func TestTick_NegativeDeltaIsIgnored(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)
	s, err := m.PlaySound(SFX, testTemplate("beep", 1000), 1)
	require.NoError(t, err)

	m.Tick(-time.Second)
	assert.Zero(t, s.Elapsed())
	assert.Equal(t, Playing, s.State())
}

func TestPlayNamedSound_Singleton(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)
	tmpl := testTemplate("alarm", 2000)

	first, err := m.PlayNamedSound("alarm", SFX, tmpl, 1, true)
	require.NoError(t, err)

	_, err = m.PlayNamedSound("alarm", SFX, tmpl, 1, true)
	require.ErrorIs(t, err, ErrSingletonActive)
	assert.Equal(t, 1, m.ChannelsInUse())
	assert.Equal(t, uint64(1), m.Stats().Rejected)

	got, ok := m.NamedSound("alarm")
	require.True(t, ok)
	assert.Same(t, first, got)

	require.NoError(t, m.StopNamedSound("alarm", 0))
	_, ok = m.NamedSound("alarm")
	assert.False(t, ok)

	// The registration is gone even before the next tick.
	second, err := m.PlayNamedSound("alarm", SFX, tmpl, 1, true)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestPlayNamedSound_NotSingleReplaces(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)
	tmpl := testTemplate("voice", 2000)

	first, err := m.PlayNamedSound("line", Voice, tmpl, 1, false)
	require.NoError(t, err)
	second, err := m.PlayNamedSound("line", Voice, tmpl, 1, false)
	require.NoError(t, err)

	got, _ := m.NamedSound("line")
	assert.Same(t, second, got)
	assert.Equal(t, Playing, first.State())
	assert.Equal(t, 2, m.ChannelsInUse())
}

func TestPlayNamedSound_RegistryPruned(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)
	_, err := m.PlayNamedSound("blip", UI, testTemplate("blip", 100), 1, true)
	require.NoError(t, err)

	tickFor(m, 300*time.Millisecond)

	_, ok := m.NamedSound("blip")
	assert.False(t, ok)
	assert.Empty(t, m.named)
	assert.Empty(t, m.ActiveSounds())
}

func TestStopNamedSound_NotFound(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)
	require.ErrorIs(t, m.StopNamedSound("ghost", 0), ErrNotFound)
}

func TestStopCategory(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t)
	tmpl := testTemplate("loop", 1000)

	sfx, err := m.PlaySound(SFX, tmpl, 1, LoopForever())
	require.NoError(t, err)
	ui, err := m.PlaySound(UI, tmpl, 1, LoopForever())
	require.NoError(t, err)

	require.NoError(t, m.StopCategory(SFX, 0))
	assert.Equal(t, Stopped, sfx.State())
	assert.Equal(t, Playing, ui.State())

	require.ErrorIs(t, m.StopCategory("nope", 0), ErrUnknownCategory)

	m.Tick(frame)
	assert.Equal(t, 1, m.ChannelsInUse())
}

func TestStopAll_WithFade(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	tmpl := testTemplate("loop", 1000)

	for range 3 {
		_, err := m.PlaySound(SFX, tmpl, 1, LoopForever())
		require.NoError(t, err)
	}

	m.StopAll(500 * time.Millisecond)
	for _, s := range m.ActiveSounds() {
		assert.Equal(t, Pausing, s.State())
	}

	tickFor(m, 500*time.Millisecond)
	assert.Empty(t, m.ActiveSounds())
	assert.Zero(t, m.ChannelsInUse())
	assert.Zero(t, b.Busy())
}

func TestPauseAll_FreezesEverything(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	s, err := m.PlaySound(SFX, testTemplate("hum", 1000), 1)
	require.NoError(t, err)
	require.NoError(t, m.PlayMusic(testClip("theme", 60_000), 1))
	music := b.Last()

	m.Tick(frame)
	m.PauseAll()
	assert.True(t, m.Paused())
	assert.True(t, m.CategoryPaused(SFX))
	assert.True(t, m.Music().Paused())
	assert.True(t, music.Paused)

	tickFor(m, 5*time.Second)
	assert.Equal(t, frame, s.Elapsed())
	assert.Equal(t, Playing, s.State())
	assert.Equal(t, 1, m.ChannelsInUse())

	m.ResumeAll()
	assert.False(t, m.Paused())
	assert.False(t, b.Voices[0].Paused)
	assert.False(t, music.Paused)

	tickFor(m, time.Second)
	assert.Equal(t, Stopped, s.State())
}

func TestPauseAll_CoversCategoriesUsedLater(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	m.PauseAll()
	assert.True(t, m.CategoryPaused(Ambient))

	s, err := m.PlaySound(Ambient, testTemplate("wind", 1000), 1)
	require.NoError(t, err)
	assert.True(t, b.Last().Paused)

	tickFor(m, 5*time.Second)
	assert.Equal(t, Playing, s.State())
	assert.Zero(t, s.Elapsed())

	m.ResumeAll()
	assert.False(t, m.CategoryPaused(Ambient))
	assert.False(t, b.Last().Paused)

	m.Tick(frame)
	assert.Equal(t, frame, s.Elapsed())
}

func TestTick_RecoversFromVoicePanic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m, b := newTestMixer(t, WithLogger(logger))
	tmpl := testTemplate("loop", 1000)

	bad, err := m.PlaySound(SFX, tmpl, 1, LoopForever())
	require.NoError(t, err)
	good, err := m.PlaySound(SFX, tmpl, 1, LoopForever())
	require.NoError(t, err)

	b.Voices[0].Panic = errors.New("device lost")
	m.SetMasterVolume(0.5)

	require.NotPanics(t, func() { m.Tick(frame) })

	assert.Equal(t, Stopped, bad.State())
	assert.Equal(t, Playing, good.State())
	assert.InDelta(t, 0.5, b.Voices[1].Volume, 1e-9)
	assert.Equal(t, 1, m.ChannelsInUse())
	assert.Contains(t, buf.String(), "tick failed")
	assert.Contains(t, buf.String(), "device lost")
}

func TestTick_RecoversFromMusicPanic(t *testing.T) {
	t.Parallel()

	m, b := newTestMixer(t)
	require.NoError(t, m.PlayMusic(testClip("theme", 60_000), 1))
	b.Last().Panic = "boom"

	s, err := m.PlaySound(SFX, testTemplate("hit", 1000), 1)
	require.NoError(t, err)

	require.NotPanics(t, func() { m.Tick(frame) })
	assert.False(t, m.MusicPlaying())
	assert.Equal(t, frame, s.Elapsed())
}
