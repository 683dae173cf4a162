// SPDX-License-Identifier: EPL-2.0

package mixer

import "fmt"

// Category routes sounds to a shared volume and pause control.
type Category string

// Built-in categories. Others must be declared in Options.Categories.
const (
	SFX     Category = "sfx"
	UI      Category = "ui"
	Voice   Category = "voice"
	Ambient Category = "ambient"
)

// Name identifies a named sound in the singleton registry.
type Name string

type categoryEntry struct {
	env    Envelope
	paused bool
}

// categoryTable holds one entry per category actually used. Entries are
// created on first reference; only declared categories may be referenced.
type categoryTable struct {
	declared      map[Category]float64
	entries       map[Category]*categoryEntry
	defaultVolume float64
	// paused is set by PauseAll and inherited by new entries.
	paused bool
}

func newCategoryTable(defaultVolume float64, declared map[Category]float64) *categoryTable {
	t := &categoryTable{
		declared:      make(map[Category]float64),
		entries:       make(map[Category]*categoryEntry),
		defaultVolume: defaultVolume,
	}
	for _, c := range []Category{SFX, UI, Voice, Ambient} {
		t.declared[c] = defaultVolume
	}
	for c, v := range declared {
		t.declared[c] = v
	}
	return t
}

func (t *categoryTable) entry(c Category) (*categoryEntry, error) {
	if e, ok := t.entries[c]; ok {
		return e, nil
	}

	v, ok := t.declared[c]
	if !ok {
		return nil, fmt.Errorf("%q: %w", c, ErrUnknownCategory)
	}

	e := &categoryEntry{env: NewEnvelope(v), paused: t.paused}
	t.entries[c] = e
	return e, nil
}

func (t *categoryTable) isPaused(c Category) bool {
	if e, ok := t.entries[c]; ok {
		return e.paused
	}
	return t.paused && t.known(c)
}

func (t *categoryTable) volume(c Category) float64 {
	if e, ok := t.entries[c]; ok {
		return e.env.Current()
	}
	return t.declared[c]
}

func (t *categoryTable) known(c Category) bool {
	_, ok := t.declared[c]
	return ok
}
