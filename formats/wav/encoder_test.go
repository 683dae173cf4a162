// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/audmix/audio"
)

func TestEncode_Header(t *testing.T) {
	t.Parallel()

	clip := &audio.Clip{Samples: make([]float32, 6), SampleRate: 22050, Channels: 2}

	var buf bytes.Buffer
	if err := Encode(&buf, clip); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	b := buf.Bytes()
	if len(b) != headerSize+12 {
		t.Fatalf("len = %d, want %d", len(b), headerSize+12)
	}

	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", binary.LittleEndian.Uint32(b[4:8]), 36 + 12},
		{"format", uint32(binary.LittleEndian.Uint16(b[20:22])), 1},
		{"channels", uint32(binary.LittleEndian.Uint16(b[22:24])), 2},
		{"sample rate", binary.LittleEndian.Uint32(b[24:28]), 22050},
		{"byte rate", binary.LittleEndian.Uint32(b[28:32]), 22050 * 4},
		{"block align", uint32(binary.LittleEndian.Uint16(b[32:34])), 4},
		{"bits", uint32(binary.LittleEndian.Uint16(b[34:36])), 16},
		{"data size", binary.LittleEndian.Uint32(b[40:44]), 12},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Errorf("bad markers in %q", b[:44])
	}
}

func TestEncode_ClipsAndDropsPartialFrame(t *testing.T) {
	t.Parallel()

	clip := &audio.Clip{Samples: []float32{2, -2, 0.5}, SampleRate: 8000, Channels: 2}

	var buf bytes.Buffer
	if err := Encode(&buf, clip); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	data := buf.Bytes()[headerSize:]
	if len(data) != 4 {
		t.Fatalf("data = %d bytes, want one stereo frame", len(data))
	}
	if got := int16(binary.LittleEndian.Uint16(data[0:2])); got != 32767 {
		t.Errorf("left = %d, want 32767", got)
	}
	if got := int16(binary.LittleEndian.Uint16(data[2:4])); got != -32767 {
		t.Errorf("right = %d, want -32767", got)
	}
}

func TestEncode_LargeClipRoundTrip(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 20000)
	for i := range samples {
		samples[i] = float32(i%100)/100 - 0.5
	}
	clip := &audio.Clip{Samples: samples, SampleRate: 44100, Channels: 1}

	var buf bytes.Buffer
	if err := Encode(&buf, clip); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	src, err := Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	back, err := audio.ReadClip("x", src)
	if err != nil {
		t.Fatalf("ReadClip() error = %v", err)
	}

	if back.Frames() != len(samples) {
		t.Fatalf("frames = %d, want %d", back.Frames(), len(samples))
	}
	for i, s := range samples {
		if d := back.Samples[i] - s; d > 1e-4 || d < -1e-4 {
			t.Fatalf("sample %d = %v, want %v", i, back.Samples[i], s)
		}
	}
}

func TestEncode_InvalidFormat(t *testing.T) {
	t.Parallel()

	err := Encode(&bytes.Buffer{}, &audio.Clip{Samples: []float32{0}})
	if !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("Encode() error = %v, want ErrInvalidFormat", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncode_WriteError(t *testing.T) {
	t.Parallel()

	clip := &audio.Clip{Samples: []float32{0}, SampleRate: 8000, Channels: 1}
	if err := Encode(failingWriter{}, clip); err == nil {
		t.Error("Encode() error = nil, want write failure")
	}
}
