// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"time"

	"github.com/ik5/audmix/audio"
)

// PlayOption adjusts a single play request.
type PlayOption func(*playOptions)

type playOptions struct {
	volume  float64
	loops   int
	hasFade bool
	fade    time.Duration
	target  float64
}

func newPlayOptions(volume float64, opts []PlayOption) playOptions {
	o := playOptions{volume: volume}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// audible is the volume the sound settles at, compared against the
// minimum volume.
func (o playOptions) audible() float64 {
	if o.hasFade {
		return o.target
	}
	return o.volume
}

func (o *playOptions) scale(f float64) {
	o.volume *= f
	o.target *= f
}

// Loops plays the clip n extra times; 0 plays it once.
func Loops(n int) PlayOption {
	return func(o *playOptions) { o.loops = n }
}

// LoopForever repeats the clip until it is stopped.
func LoopForever() PlayOption {
	return func(o *playOptions) { o.loops = audio.LoopForever }
}

// FadeIn starts at the requested volume and fades to target over d.
func FadeIn(d time.Duration, target float64) PlayOption {
	return func(o *playOptions) {
		o.hasFade = true
		o.fade = d
		o.target = target
	}
}
