// SPDX-License-Identifier: EPL-2.0

// Package playtest provides an in-memory audio.Backend whose voices are
// driven by the test instead of a sound device.
package playtest

import (
	"github.com/ik5/audmix/audio"
)

// Backend records every voice it starts.
type Backend struct {
	Voices []*Voice

	// Fail, when set, is returned by Play instead of starting a voice.
	Fail error
}

// NewBackend returns an empty Backend.
func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) Play(clip *audio.Clip, loops int) (audio.Voice, error) {
	if b.Fail != nil {
		return nil, b.Fail
	}

	v := &Voice{Clip: clip, Loops: loops}
	b.Voices = append(b.Voices, v)
	return v, nil
}

// Last returns the most recently started voice, or nil.
func (b *Backend) Last() *Voice {
	if len(b.Voices) == 0 {
		return nil
	}
	return b.Voices[len(b.Voices)-1]
}

// Busy counts voices that still report Busy.
func (b *Backend) Busy() int {
	n := 0
	for _, v := range b.Voices {
		if v.Busy() {
			n++
		}
	}
	return n
}

// Voice is a fake output voice. Playback never ends on its own; call Finish.
type Voice struct {
	Clip   *audio.Clip
	Loops  int
	Volume float64

	Paused   bool
	Stopped  bool
	Finished bool

	// StopCalls counts Stop invocations, including repeated ones.
	StopCalls int
	// Panic makes SetVolume panic with this value.
	Panic any
}

func (v *Voice) SetVolume(vol float64) {
	if v.Panic != nil {
		panic(v.Panic)
	}
	v.Volume = vol
}

func (v *Voice) Busy() bool { return !v.Stopped && !v.Finished }
func (v *Voice) Pause()     { v.Paused = true }
func (v *Voice) Resume()    { v.Paused = false }

func (v *Voice) Stop() {
	v.StopCalls++
	v.Stopped = true
}

// Finish simulates the device reaching the end of the clip.
func (v *Voice) Finish() {
	v.Finished = true
}
