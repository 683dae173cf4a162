// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio.
//
// Decoding is done by github.com/hajimehoshi/go-mp3, which always outputs
// 16-bit stereo; mono files are duplicated to both channels. Samples are
// delivered as float32 in [-1,1].
//
//	f, _ := os.Open("theme.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    // errors.Is(err, mp3.ErrNotMP3File)
//	}
//	clip, err := audio.ReadClip("theme", src)
//
// When the input is an io.Seeker (an *os.File, a *bytes.Reader) the
// stream length is known up front and reported through audio.Lengther.
// Reads are always whole stereo frames.
package mp3
