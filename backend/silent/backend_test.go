package silent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audmix/audio"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// halfSecond is 500 ms of 1 kHz mono.
var halfSecond = &audio.Clip{Samples: make([]float32, 500), SampleRate: 1000, Channels: 1}

func TestVoice_FinishesAfterClip(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Unix(0, 0)}
	b := New(WithClock(clock.now))

	v, err := b.Play(halfSecond, 0)
	require.NoError(t, err)
	assert.True(t, v.Busy())

	clock.advance(499 * time.Millisecond)
	assert.True(t, v.Busy())

	clock.advance(time.Millisecond)
	assert.False(t, v.Busy())
	assert.Equal(t, uint64(1), b.Started())
}

func TestVoice_Loops(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Unix(0, 0)}
	b := New(WithClock(clock.now))

	v, err := b.Play(halfSecond, 2)
	require.NoError(t, err)

	clock.advance(1400 * time.Millisecond)
	assert.True(t, v.Busy())
	clock.advance(100 * time.Millisecond)
	assert.False(t, v.Busy())

	forever, err := b.Play(halfSecond, audio.LoopForever)
	require.NoError(t, err)
	clock.advance(time.Hour)
	assert.True(t, forever.Busy())

	forever.Stop()
	assert.False(t, forever.Busy())
}

func TestVoice_PauseFreezesTime(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Unix(0, 0)}
	v, err := New(WithClock(clock.now)).Play(halfSecond, 0)
	require.NoError(t, err)

	clock.advance(300 * time.Millisecond)
	v.Pause()
	v.Pause()
	clock.advance(time.Minute)
	assert.True(t, v.Busy())

	v.Resume()
	clock.advance(199 * time.Millisecond)
	assert.True(t, v.Busy())
	clock.advance(time.Millisecond)
	assert.False(t, v.Busy())
}

func TestVoice_Volume(t *testing.T) {
	t.Parallel()

	v, err := New().Play(halfSecond, 0)
	require.NoError(t, err)

	v.SetVolume(0.3)
	assert.Equal(t, 0.3, v.(*voice).Volume())
}

func TestBackend_InvalidClip(t *testing.T) {
	t.Parallel()

	_, err := New().Play(&audio.Clip{}, 0)
	assert.ErrorIs(t, err, audio.ErrInvalidFormat)
}
