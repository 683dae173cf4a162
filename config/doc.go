// SPDX-License-Identifier: EPL-2.0

// Package config holds the audio settings of a game: output device,
// channel pool, volumes, categories and the assets to preload.
//
// Settings start from Default, are read from a TOML (or YAML) file by Load
// and can be overridden from the environment by FromEnv:
//
//	cfg, err := config.Load("~/.mygame/audio.toml")
//	if err != nil {
//	    return err
//	}
//	if err := config.FromEnv(cfg); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// A file looks like:
//
//	backend = "oto"
//	channels = 16
//	master_volume = 0.8
//
//	[categories]
//	sfx = 1.0
//	ambient = 0.6
//
//	[sounds.jump]
//	path = "sfx/jump.wav"
//	volume = 0.9
//
//	[music]
//	title = "music/title.ogg"
package config
