// SPDX-License-Identifier: EPL-2.0

package mixer

import "time"

// Envelope is a volume that moves linearly toward a target over time.
//
// The zero value is a silent envelope at rest. Values are not clamped:
// callers are expected to pass sane volumes.
type Envelope struct {
	current float64
	target  float64
	rate    float64 // per millisecond, meaningful only while fading
	left    float64 // milliseconds until the target is reached
	fading  bool
}

// NewEnvelope returns an envelope resting at v.
func NewEnvelope(v float64) Envelope {
	return Envelope{current: v, target: v}
}

// Set jumps to v and cancels any fade.
func (e *Envelope) Set(v float64) {
	e.current = v
	e.target = v
	e.rate = 0
	e.left = 0
	e.fading = false
}

// FadeTo starts a linear fade from the current value to target lasting d.
// A non-positive duration behaves like Set.
func (e *Envelope) FadeTo(target float64, d time.Duration) {
	ms := toMs(d)
	if ms <= 0 || target == e.current {
		e.Set(target)
		return
	}

	e.target = target
	e.rate = (target - e.current) / ms
	e.left = ms
	e.fading = true
}

// Advance moves the envelope forward by dt.
func (e *Envelope) Advance(dt time.Duration) {
	e.advance(toMs(dt))
}

func (e *Envelope) advance(ms float64) {
	if !e.fading || ms <= 0 {
		return
	}

	e.left -= ms
	e.current += e.rate * ms

	if e.left <= 0 ||
		(e.rate < 0 && e.current <= e.target) ||
		(e.rate > 0 && e.current >= e.target) {
		e.Set(e.target)
	}
}

// Current is the value at this instant.
func (e *Envelope) Current() float64 { return e.current }

// Target is where the envelope is heading; equal to Current at rest.
func (e *Envelope) Target() float64 { return e.target }

// Rate is the slope in volume per millisecond, 0 at rest.
func (e *Envelope) Rate() float64 { return e.rate }

// Fading reports whether a fade is in progress.
func (e *Envelope) Fading() bool { return e.fading }

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
