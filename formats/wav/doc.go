// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV files.
//
// Decoding is done by github.com/go-audio/wav and supports integer PCM at
// 8, 16, 24 and 32 bits, any channel count and any sample rate. Samples are
// delivered as float32 in [-1,1]; 8-bit data is unsigned on disk and is
// re-centered around zero.
//
//	f, _ := os.Open("jump.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    // errors.Is(err, wav.ErrNotWavFile) ...
//	}
//	clip, err := audio.ReadClip("jump", src)
//
// The source implements audio.Lengther: the frame count comes from the
// size of the data chunk, so clips are allocated once.
//
// Encode writes an audio.Clip as a canonical 44-byte-header 16-bit PCM
// file. It only needs an io.Writer, which makes it handy for generated
// clips and test fixtures.
package wav
