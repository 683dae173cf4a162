// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files.
//
// Decoding is done by github.com/go-audio/aiff. Integer PCM at 8, 16, 24
// and 32 bits is supported with any channel count and sample rate; samples
// are delivered as float32 in [-1,1].
//
//	f, _ := os.Open("door.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not AIFF
//	}
//	clip, err := audio.ReadClip("door", src)
//
// The frame count from the COMM chunk is reported through audio.Lengther.
//
// AIFF-C files with compressed sound data are not supported.
package aiff
