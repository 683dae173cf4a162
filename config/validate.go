// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate reports every problem found in c.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !slices.Contains([]string{BackendOto, BackendBeep, BackendSilent}, c.Backend) {
		bad("unknown backend %q", c.Backend)
	}
	if c.SampleRate <= 0 {
		bad("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.OutputChannels != 1 && c.OutputChannels != 2 {
		bad("output_channels must be 1 or 2, got %d", c.OutputChannels)
	}
	if c.BufferMs <= 0 {
		bad("buffer_ms must be positive, got %d", c.BufferMs)
	}
	if c.Channels <= 0 {
		bad("channels must be positive, got %d", c.Channels)
	}
	if c.ListeningDistance <= 0 {
		bad("listening_distance must be positive, got %v", c.ListeningDistance)
	}

	volumes := []struct {
		name string
		v    float64
	}{
		{"minimum_volume", c.MinimumVolume},
		{"master_volume", c.MasterVolume},
		{"default_category_volume", c.DefaultCategoryVolume},
	}
	for _, vol := range volumes {
		if !unit(vol.v) {
			bad("%s must be within [0,1], got %v", vol.name, vol.v)
		}
	}

	for _, name := range sortedKeys(c.Categories) {
		if name == "" {
			bad("empty category name")
		}
		if v := c.Categories[name]; !unit(v) {
			bad("category %q volume must be within [0,1], got %v", name, v)
		}
	}

	for _, name := range sortedKeys(c.Sounds) {
		s := c.Sounds[name]
		if s.Path == "" {
			bad("sound %q has no path", name)
		}
		if !unit(s.Volume) {
			bad("sound %q volume must be within [0,1], got %v", name, s.Volume)
		}
	}

	for _, name := range sortedKeys(c.Music) {
		if c.Music[name] == "" {
			bad("music %q has no path", name)
		}
	}

	return errors.Join(errs...)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
