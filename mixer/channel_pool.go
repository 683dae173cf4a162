// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/ik5/audmix/audio"
)

// Channel is a slot index in the mixer's pool.
type Channel int

// NoChannel is the channel of a sound that holds none.
const NoChannel Channel = -1

type slot struct {
	category Category
	sound    *Sound
	voice    audio.Voice
}

// channelPool bounds the number of simultaneous voices. A slot is free
// when nil; acquire takes the lowest free one.
type channelPool struct {
	backend audio.Backend
	slots   []*slot
	inUse   int
}

func newChannelPool(b audio.Backend, n int) *channelPool {
	return &channelPool{backend: b, slots: make([]*slot, n)}
}

func (p *channelPool) capacity() int { return len(p.slots) }

// acquire starts s on a free slot. It fails with ErrNoFreeChannel when the
// pool is exhausted; the request is dropped, never queued.
func (p *channelPool) acquire(s *Sound, loops int) (Channel, audio.Voice, error) {
	if p.inUse == len(p.slots) {
		return NoChannel, nil, ErrNoFreeChannel
	}

	for i, sl := range p.slots {
		if sl != nil {
			continue
		}

		v, err := p.backend.Play(s.tmpl.Clip, loops)
		if err != nil {
			return NoChannel, nil, fmt.Errorf("starting %s: %w", s.tmpl.Name, err)
		}

		p.slots[i] = &slot{category: s.category, sound: s, voice: v}
		p.inUse++
		s.pool = p
		return Channel(i), v, nil
	}

	return NoChannel, nil, ErrNoFreeChannel
}

// release frees ch, stopping its voice and its sound. Releasing a free or
// invalid channel does nothing.
func (p *channelPool) release(ch Channel) {
	sl := p.free(ch, nil)
	if sl == nil {
		return
	}

	if sl.sound.state != Stopped {
		sl.sound.halt()
		return
	}
	sl.voice.Stop()
}

// free empties ch without touching its voice and returns the slot it held.
// With s set, ch is only freed while it still belongs to s.
func (p *channelPool) free(ch Channel, s *Sound) *slot {
	if ch < 0 || int(ch) >= len(p.slots) {
		return nil
	}

	sl := p.slots[ch]
	if sl == nil || (s != nil && sl.sound != s) {
		return nil
	}

	p.slots[ch] = nil
	p.inUse--
	return sl
}

// reconcile frees slots whose sound has stopped or whose voice finished.
// Voices in paused categories are kept even when they report idle. guard
// runs each check so one failing voice does not stop the sweep.
func (p *channelPool) reconcile(paused func(Category) bool, guard func(Channel, func())) {
	for i, sl := range p.slots {
		if sl == nil {
			continue
		}

		ch := Channel(i)
		guard(ch, func() {
			if sl.sound.state == Stopped || (!paused(sl.category) && !sl.voice.Busy()) {
				p.release(ch)
			}
		})
	}
}

// forCategory calls fn for every occupied slot of c.
func (p *channelPool) forCategory(c Category, fn func(*slot)) {
	for _, sl := range p.slots {
		if sl != nil && sl.category == c {
			fn(sl)
		}
	}
}

func (p *channelPool) sound(ch Channel) *Sound {
	if ch < 0 || int(ch) >= len(p.slots) || p.slots[ch] == nil {
		return nil
	}
	return p.slots[ch].sound
}
