// SPDX-License-Identifier: EPL-2.0

// Package audmix is the audio layer of a small real-time 2D engine.
//
// It turns "play this sound at this volume, maybe fading" requests into
// playback on a bounded pool of output channels, with per-category volume
// envelopes, a master bus, distance attenuation and an exclusive music
// stream.
//
// # Quick Start
//
//	cfg, err := config.Load("audio.toml")
//	if err != nil {
//	    return err
//	}
//	engine, err := audmix.Open(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	engine.PlayMusic("title", 0.8, mixer.FadeIn(2*time.Second, 0.8))
//	for running {
//	    engine.Tick(frameTime)
//	    if jumped {
//	        engine.Play(mixer.SFX, "jump", 1)
//	    }
//	}
//
// # Packages
//
//   - mixer: envelopes, sounds, the channel pool, categories, music and
//     the positional Dynamic mixer. This is where the behavior lives.
//   - assets: decodes files once and hands out shared clips.
//   - config: TOML/YAML settings with environment overrides.
//   - backend/oto, backend/beep, backend/silent: output devices.
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders.
//   - audio: sample-level types shared by all of the above.
//
// # Threading
//
// The mixer is driven by the host loop and is not safe for concurrent use.
// Backends run their own audio goroutines and guard their own state, so a
// Tick never blocks on the device.
package audmix
