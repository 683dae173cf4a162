// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Backend names accepted in Config.Backend.
const (
	BackendOto    = "oto"
	BackendBeep   = "beep"
	BackendSilent = "silent"
)

// Sound describes one effect to preload.
type Sound struct {
	Path   string  `toml:"path" yaml:"path"`
	Volume float64 `toml:"volume" yaml:"volume"`
}

// Config is the full audio setup of a game.
type Config struct {
	// Backend selects the output device: "oto", "beep" or "silent".
	Backend        string `toml:"backend" yaml:"backend"`
	SampleRate     int    `toml:"sample_rate" yaml:"sample_rate"`
	OutputChannels int    `toml:"output_channels" yaml:"output_channels"`
	BufferMs       int    `toml:"buffer_ms" yaml:"buffer_ms"`

	// Channels is the size of the mixer's channel pool.
	Channels              int                `toml:"channels" yaml:"channels"`
	MinimumVolume         float64            `toml:"minimum_volume" yaml:"minimum_volume"`
	MasterVolume          float64            `toml:"master_volume" yaml:"master_volume"`
	DefaultCategoryVolume float64            `toml:"default_category_volume" yaml:"default_category_volume"`
	Categories            map[string]float64 `toml:"categories" yaml:"categories"`
	ListeningDistance     float64            `toml:"listening_distance" yaml:"listening_distance"`

	// AssetRoot is prepended to relative sound and music paths.
	AssetRoot   string            `toml:"asset_root" yaml:"asset_root"`
	WatchAssets bool              `toml:"watch_assets" yaml:"watch_assets"`
	Sounds      map[string]Sound  `toml:"sounds" yaml:"sounds"`
	Music       map[string]string `toml:"music" yaml:"music"`
}

// Default returns a configuration that plays through oto at 44.1 kHz
// stereo with eight channels.
func Default() *Config {
	return &Config{
		Backend:               BackendOto,
		SampleRate:            44100,
		OutputChannels:        2,
		BufferMs:              100,
		Channels:              8,
		MinimumVolume:         0.1,
		MasterVolume:          1,
		DefaultCategoryVolume: 1,
		Categories: map[string]float64{
			"sfx":     1,
			"ui":      1,
			"voice":   1,
			"ambient": 1,
		},
		ListeningDistance: 500,
		Sounds:            map[string]Sound{},
		Music:             map[string]string{},
	}
}

// Load reads a TOML or YAML file over Default. The format is picked from
// the extension; anything but .yaml and .yml is read as TOML. Unknown keys
// are an error.
func Load(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	if cfg.AssetRoot == "" {
		cfg.AssetRoot = filepath.Dir(path)
	}

	return cfg, nil
}

// Resolve returns p relative to AssetRoot unless it is absolute. A leading
// ~ is expanded to the home directory.
func (c *Config) Resolve(p string) string {
	if expanded, err := homedir.Expand(p); err == nil {
		p = expanded
	}
	if filepath.IsAbs(p) || c.AssetRoot == "" {
		return p
	}

	root := c.AssetRoot
	if expanded, err := homedir.Expand(root); err == nil {
		root = expanded
	}
	return filepath.Join(root, p)
}

// Save writes c as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
