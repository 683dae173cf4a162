// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample-level types shared by decoders, the mixer
// and playback backends.
//
// # Sources and clips
//
// A Source streams interleaved float32 samples in [-1,1]. Decoders in the
// formats packages return one; ReadClip drains it into a Clip, the
// immutable in-memory form every playing sound shares:
//
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	clip, err := audio.ReadClip("jump", src)
//
// Sources that know their frame count implement Lengther so the clip is
// allocated once.
//
// # Format conversion
//
// Convert brings a clip to the sample rate and channel count of an output
// device. Resampling uses Catmull-Rom interpolation with a low-pass pre-filter
// when downsampling; Remix averages or duplicates channels.
//
// # Registry
//
// A Registry maps file extensions to decoders. Keys are case-insensitive and
// the leading dot is optional:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	dec, ok := registry.ForPath("sfx/Jump.WAV")
//
// # Playback
//
// Backend and Voice are the seam between the mixer and an output device. A
// backend starts a clip silent; the mixer drives its volume every tick.
//
// # Errors
//
// ReadSamples returns io.EOF at the end of the stream, possibly together
// with the last samples. Some decoders end with (0, nil), which ReadClip
// accepts too.
package audio
