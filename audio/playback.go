// SPDX-License-Identifier: EPL-2.0

package audio

// Backend starts clips on output voices. Implementations wrap a real
// device (oto, beep speaker) or simulate one.
type Backend interface {
	// Play starts clip at volume 0 and returns the voice playing it.
	// loops follows the mixer convention: -1 repeats forever, n >= 0 plays
	// the clip n extra times.
	Play(clip *Clip, loops int) (Voice, error)
}

// Voice is one playing clip on a Backend.
type Voice interface {
	// SetVolume sets the linear gain of the voice, 0 is silent.
	SetVolume(v float64)
	// Busy reports whether the voice still has audio to play. A paused
	// voice is busy.
	Busy() bool
	Pause()
	Resume()
	// Stop ends playback and releases the voice. Calling it more than
	// once is allowed.
	Stop()
}

// LoopForever is the loop count that repeats a clip until stopped.
const LoopForever = -1
