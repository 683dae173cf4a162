// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio.
//
// Decoding is done by github.com/jfreymuth/oggvorbis. Any channel count and
// sample rate is supported and samples are delivered as float32 in [-1,1].
//
//	f, _ := os.Open("forest.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    // errors.Is(err, vorbis.ErrNotVorbisFile)
//	}
//	clip, err := audio.ReadClip("forest", src)
//
// Reads are trimmed to whole frames. The total length is reported through
// audio.Lengther when the input can seek.
package vorbis
