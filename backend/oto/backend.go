// SPDX-License-Identifier: EPL-2.0

// Package oto plays clips through github.com/hajimehoshi/oto/v2, one oto
// player per voice.
package oto

import (
	"fmt"
	"io"
	"sync"

	otolib "github.com/hajimehoshi/oto/v2"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// player is the part of otolib.Player a voice drives.
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
	Close() error
}

// Backend owns the oto context. Only one may exist per process.
type Backend struct {
	ctx    *otolib.Context
	format audio.Format
	start  func(r io.Reader) player

	mu     sync.Mutex
	pcm    map[*audio.Clip][]byte
	voices map[*voice]struct{}
}

// New opens the default output device as signed 16-bit PCM in format f and
// waits until it is ready.
func New(f audio.Format) (*Backend, error) {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return nil, audio.ErrInvalidFormat
	}

	ctx, ready, err := otolib.NewContext(f.SampleRate, f.Channels, otolib.FormatSignedInt16LE)
	if err != nil {
		return nil, fmt.Errorf("opening oto context: %w", err)
	}
	<-ready

	b := newBackend(f, func(r io.Reader) player { return ctx.NewPlayer(r) })
	b.ctx = ctx
	return b, nil
}

func newBackend(f audio.Format, start func(io.Reader) player) *Backend {
	return &Backend{
		format: f,
		start:  start,
		pcm:    make(map[*audio.Clip][]byte),
		voices: make(map[*voice]struct{}),
	}
}

// Format is the device sample layout.
func (b *Backend) Format() audio.Format { return b.format }

// Play starts clip silent. Clips in another format are converted once and
// the encoded PCM is cached for later plays.
func (b *Backend) Play(clip *audio.Clip, loops int) (audio.Voice, error) {
	data, err := b.encoded(clip)
	if err != nil {
		return nil, err
	}

	p := b.start(&loopReader{data: data, loops: loops})
	p.SetVolume(0)
	p.Play()

	v := &voice{player: p, backend: b}
	b.mu.Lock()
	b.voices[v] = struct{}{}
	b.mu.Unlock()
	return v, nil
}

func (b *Backend) encoded(clip *audio.Clip) ([]byte, error) {
	b.mu.Lock()
	data, ok := b.pcm[clip]
	b.mu.Unlock()
	if ok {
		return data, nil
	}

	c, err := audio.Convert(clip, b.format)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", clip.Name, err)
	}
	data = utils.Int16LE(c.Samples)

	b.mu.Lock()
	b.pcm[clip] = data
	b.mu.Unlock()
	return data, nil
}

// Forget drops the cached PCM of clip, for instance after an asset reload.
func (b *Backend) Forget(clip *audio.Clip) {
	b.mu.Lock()
	delete(b.pcm, clip)
	b.mu.Unlock()
}

// Voices returns how many voices have not been stopped.
func (b *Backend) Voices() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.voices)
}

// Close stops every voice and suspends the device.
func (b *Backend) Close() error {
	b.mu.Lock()
	voices := make([]*voice, 0, len(b.voices))
	for v := range b.voices {
		voices = append(voices, v)
	}
	b.mu.Unlock()

	for _, v := range voices {
		v.Stop()
	}

	if b.ctx != nil {
		return b.ctx.Suspend()
	}
	return nil
}

func (b *Backend) release(v *voice) {
	b.mu.Lock()
	delete(b.voices, v)
	b.mu.Unlock()
}

type voice struct {
	player  player
	backend *Backend

	mu      sync.Mutex
	paused  bool
	stopped bool
}

func (v *voice) SetVolume(vol float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.stopped {
		v.player.SetVolume(min(max(vol, 0), 1))
	}
}

func (v *voice) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return false
	}
	return v.paused || v.player.IsPlaying()
}

func (v *voice) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.stopped && !v.paused {
		v.player.Pause()
		v.paused = true
	}
}

func (v *voice) Resume() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.stopped && v.paused {
		v.player.Play()
		v.paused = false
	}
}

func (v *voice) Stop() {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	v.stopped = true
	_ = v.player.Close()
	v.mu.Unlock()

	v.backend.release(v)
}
