// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Position is a point in world space.
type Position struct {
	X, Y float32
}

// Distance is the euclidean distance between p and q.
func (p Position) Distance(q Position) float32 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math32.Sqrt(dx*dx + dy*dy)
}

// Dynamic attenuates sounds by their distance to a listener. Attenuation
// is linear, 1 at the listener and 0 at the listening distance, and is
// computed once when the sound starts.
type Dynamic struct {
	*Mixer

	listener Position
	distance float32
}

// NewDynamic wraps m with a listener at the origin hearing up to
// listeningDistance.
func NewDynamic(m *Mixer, listeningDistance float32) *Dynamic {
	return &Dynamic{Mixer: m, distance: listeningDistance}
}

func (d *Dynamic) SetListeningPosition(p Position) { d.listener = p }
func (d *Dynamic) ListeningPosition() Position     { return d.listener }
func (d *Dynamic) ListeningDistance() float32      { return d.distance }

// SetListeningDistance changes how far the listener hears.
func (d *Dynamic) SetListeningDistance(l float32) { d.distance = l }

// Attenuation returns the volume factor for a sound at pos, and false when
// it is out of range.
func (d *Dynamic) Attenuation(pos Position) (float64, bool) {
	dist := pos.Distance(d.listener)
	if d.distance <= 0 || dist > d.distance {
		return 0, false
	}
	return float64(1 - dist/d.distance), true
}

// PlaySoundAt plays t at pos. Both the start volume and any FadeIn target
// are scaled by the attenuation. Sounds beyond the listening distance are
// refused with ErrOutOfRange.
func (d *Dynamic) PlaySoundAt(cat Category, pos Position, t *Template, volume float64, opts ...PlayOption) (*Sound, error) {
	f, ok := d.Attenuation(pos)
	if !ok {
		d.stats.Rejected++
		return nil, fmt.Errorf("%.2f from listener: %w", pos.Distance(d.listener), ErrOutOfRange)
	}

	o := newPlayOptions(volume, opts)
	o.scale(f)
	return d.play(cat, t, o)
}
