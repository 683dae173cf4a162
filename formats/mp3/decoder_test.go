package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// mockMP3Reader produces 16-bit little-endian PCM like gomp3.Decoder.
type mockMP3Reader struct {
	sampleRate int
	samples    []int16
	offset     int
	length     int64
	err        error
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }
func (m *mockMP3Reader) Length() int64   { return m.length }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	count := min(len(buf)/2, len(m.samples)-m.offset)
	for i := range count {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(m.samples[m.offset+i]))
	}
	m.offset += count
	return count * 2, nil
}

func newSource(samples ...int16) *source {
	return &source{dec: &mockMP3Reader{sampleRate: 44100, samples: samples, length: int64(len(samples) * 2)}}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not MP3 data at all")} {
		_, err := Decoder{}.Decode(bytes.NewReader(data))
		if !errors.Is(err, ErrNotMP3File) {
			t.Errorf("Decode(%q) error = %v, want ErrNotMP3File", data, err)
		}
	}
}

func TestSource_Format(t *testing.T) {
	t.Parallel()

	src := newSource(0, 0, 0, 0)
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("format = %d Hz %d ch", src.SampleRate(), src.Channels())
	}
	if src.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", src.Frames())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_FramesUnknown(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockMP3Reader{length: -1}}
	if src.Frames() != -1 {
		t.Errorf("Frames() = %d, want -1", src.Frames())
	}
}

func TestSource_ReadSamples_Conversion(t *testing.T) {
	t.Parallel()

	src := newSource(0, 16384, -16384, -32768)
	dst := make([]float32, 4)

	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}

	want := []float32{0, 0.5, -0.5, -1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = %d, %v, want 0, EOF", n, err)
	}
}

func TestSource_ReadSamples_FrameAligned(t *testing.T) {
	t.Parallel()

	src := newSource(1, 2, 3, 4, 5, 6)

	// Three slots hold one whole stereo frame.
	dst := make([]float32, 3)
	n, err := src.ReadSamples(dst)
	if err != nil || n != 2 {
		t.Errorf("ReadSamples() = %d, %v, want 2, nil", n, err)
	}

	n, err = src.ReadSamples(make([]float32, 1))
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := &source{dec: &mockMP3Reader{err: boom}}

	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_BufferGrows(t *testing.T) {
	t.Parallel()

	src := newSource(make([]int16, 10000)...)
	src.buf = make([]byte, 16)

	n, err := src.ReadSamples(make([]float32, 8000))
	if err != nil || n != 8000 {
		t.Errorf("ReadSamples() = %d, %v", n, err)
	}
	if src.BufSize() < 8000 {
		t.Errorf("BufSize() = %d, want at least 8000", src.BufSize())
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 44100*2)
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := newSource(samples...)
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
