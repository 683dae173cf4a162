// SPDX-License-Identifier: EPL-2.0

// Package mixer turns play, stop and fade requests into playback on a
// bounded pool of output voices.
//
// # Volumes
//
// Every sound carries its own volume Envelope. Sounds are routed to a
// Category, which has an envelope and a pause flag of its own, and the
// Mixer has a master envelope on top:
//
//	effective = sound × template gain × category × master
//
// Envelopes fade linearly and land exactly on their target.
//
// # Ticking
//
// The Mixer does no work in the background. The host calls Tick once per
// frame with the elapsed time; master and category envelopes advance
// first, then every sound, then finished channels are reclaimed and the
// music track is updated:
//
//	m, _ := mixer.New(backend, mixer.WithChannels(16))
//	s, err := m.PlaySound(mixer.SFX, jump, 1, mixer.FadeIn(200*time.Millisecond, 0.8))
//	...
//	for frame := range frames {
//	    m.Tick(frame.Delta)
//	}
//
// # Refused plays
//
// Playing never blocks and never steals a voice. A play is refused when
// its volume is below the minimum (ErrBelowThreshold), when the pool is
// full (ErrNoFreeChannel) or, for positional sounds, when it is out of the
// listener's range (ErrOutOfRange). Refused plays spend no channel and
// are counted in Stats.
//
// # Music
//
// A single music track plays outside the channel pool, scaled only by the
// master volume. Starting a new track replaces the old one at once; fade
// the old one out with StopMusic first to crossfade.
//
// # Positional sounds
//
// Dynamic attenuates sounds linearly with their distance to a listening
// position. The attenuation is fixed when the sound starts.
package mixer
