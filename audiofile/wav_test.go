package audiofile

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/internal/testutil"
	"github.com/go-audio/audio"
)

func TestFloat32RoundTrip(t *testing.T) {
	left := testutil.DeterministicSine(440, 48000, 0.8, 4800)
	right := testutil.DeterministicNoise(7, 0.5, 4800)
	right[10] = 1.5 // float output is not clipped
	a, err := buffer.FromChannels([][]float64{left, right}, 48000)
	if err != nil {
		t.Fatalf("FromChannels() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := SaveWAV(path, a); err != nil {
		t.Fatalf("SaveWAV() error = %v", err)
	}

	got, info, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}

	want := WAVInfo{SampleRate: 48000, Channels: 2, BitsPerSample: 32, Format: FormatIEEEFloat, Frames: 4800}
	if info != want {
		t.Fatalf("ReadWAV() info = %+v, want %+v", info, want)
	}
	if !info.IsFloat32() {
		t.Fatal("IsFloat32() = false")
	}
	if info.Duration() != 100*time.Millisecond {
		t.Fatalf("Duration() = %v, want 100ms", info.Duration())
	}

	testutil.RequireSliceNearlyEqual(t, got.Channel(0), left, 1e-7)
	testutil.RequireSliceNearlyEqual(t, got.Channel(1), right, 1e-7)
}

func TestPCMRoundTrip(t *testing.T) {
	for _, bits := range []int{16, 24, 32} {
		src := testutil.DeterministicSine(1000, 44100, 0.9, 441)
		a, _ := buffer.FromMono(src, 44100)

		path := filepath.Join(t.TempDir(), "pcm.wav")
		if err := SavePCM(path, a, bits); err != nil {
			t.Fatalf("SavePCM(%d) error = %v", bits, err)
		}

		got, info, err := ReadWAV(path)
		if err != nil {
			t.Fatalf("ReadWAV() error = %v", err)
		}
		if info.Format != FormatPCM || info.BitsPerSample != bits || info.IsFloat32() {
			t.Fatalf("bits %d: info = %+v", bits, info)
		}

		tol := 1 / math.Pow(2, float64(bits-1))
		testutil.RequireSliceNearlyEqual(t, got.Channel(0), src, tol)
	}
}

func TestWritePCMRejectsDepth(t *testing.T) {
	a, _ := buffer.FromMono([]float64{0}, 48000)
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := SavePCM(path, a, 8); err == nil {
		t.Fatal("SavePCM(8) expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("failed write left %s behind", path)
	}
}

func TestReadWAVGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("definitely not a riff file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadWAV(path); err == nil {
		t.Fatal("ReadWAV() expected error")
	}
}

func TestReadWAVMissing(t *testing.T) {
	_, _, err := ReadWAV(filepath.Join(t.TempDir(), "nope.wav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadWAV() error = %v, want ErrNotExist", err)
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{FormatPCM, "PCM"},
		{FormatIEEEFloat, "FLOAT"},
		{Format(0xfffe), "Format(65534)"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", uint16(tt.f), got, tt.want)
		}
	}
}

func TestIntBufferBridge(t *testing.T) {
	a, _ := buffer.FromChannels([][]float64{{0.5, -0.5}, {0.25, 0}}, 22050)

	ib, err := ToIntBuffer(a, 16)
	if err != nil {
		t.Fatalf("ToIntBuffer() error = %v", err)
	}
	if ib.NumFrames() != 2 || ib.PCMFormat().SampleRate != 22050 {
		t.Fatalf("ToIntBuffer() frames=%d rate=%d", ib.NumFrames(), ib.PCMFormat().SampleRate)
	}
	wantData := []int{16384, 8192, -16384, 0}
	for i, v := range wantData {
		if ib.Data[i] != v {
			t.Fatalf("Data[%d] = %d, want %d", i, ib.Data[i], v)
		}
	}

	back, err := FromIntBuffer(ib)
	if err != nil {
		t.Fatalf("FromIntBuffer() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, back.Channel(0), a.Channel(0), 0)
	testutil.RequireSliceNearlyEqual(t, back.Channel(1), a.Channel(1), 0)
}

func TestFromIntBufferUnsigned8(t *testing.T) {
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           []int{128, 192, 64},
		SourceBitDepth: 8,
	}
	a, err := FromIntBuffer(ib)
	if err != nil {
		t.Fatalf("FromIntBuffer() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, a.Channel(0), []float64{0, 0.5, -0.5}, 0)
}

func TestFromFloatBuffer(t *testing.T) {
	fb := &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:   []float64{0.1, 0.2, 0.3, 0.4},
	}
	a, err := FromFloatBuffer(fb)
	if err != nil {
		t.Fatalf("FromFloatBuffer() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, a.Channel(1), []float64{0.2, 0.4}, 0)
}
