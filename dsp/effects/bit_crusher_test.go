package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/internal/testutil"
)

func TestBitCrusherProcessInPlaceMatchesSample(t *testing.T) {
	bc1, err := NewBitCrusher(48000, WithBitCrusherDownsample(3))
	if err != nil {
		t.Fatalf("NewBitCrusher() error = %v", err)
	}
	bc2, _ := NewBitCrusher(48000, WithBitCrusherDownsample(3))

	input := testutil.DeterministicSine(1000, 48000, 0.9, 128)
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = bc1.ProcessSample(x)
	}

	got := append([]float64(nil), input...)
	bc2.ProcessInPlace(got)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestBitCrusherValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  BitCrusherOption
	}{
		{"depth zero", WithBitCrusherBitDepth(0)},
		{"depth 25", WithBitCrusherBitDepth(25)},
		{"downsample zero", WithBitCrusherDownsample(0)},
		{"mix", WithBitCrusherMix(2)},
		{"reference", WithBitCrusherReference(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBitCrusher(48000, tt.opt); err == nil {
				t.Fatal("NewBitCrusher() expected error")
			}
		})
	}
}

func TestApplyBitCrusherPeakRelative(t *testing.T) {
	a, _ := buffer.FromMono([]float64{0.5, 0.3, -0.1, 0.0}, 48000)

	out, err := ApplyBitCrusher(a, WithBitCrusherBitDepth(2))
	if err != nil {
		t.Fatalf("ApplyBitCrusher() error = %v", err)
	}
	// Two bits: grid of 0.5*peak steps, peak 0.5.
	want := []float64{0.5, 0.25, 0, 0}
	got := out.Channel(0)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestApplyBitCrusherSilentPassthrough(t *testing.T) {
	a, _ := buffer.New(2, 16, 48000)
	out, err := ApplyBitCrusher(a)
	if err != nil {
		t.Fatalf("ApplyBitCrusher() error = %v", err)
	}
	if out.Peak() != 0 || out.Channels() != 2 {
		t.Fatal("silent input should pass unchanged")
	}
}

func TestBitCrusherSampleAndHold(t *testing.T) {
	bc, err := NewBitCrusher(48000, WithBitCrusherBitDepth(2), WithBitCrusherDownsample(2))
	if err != nil {
		t.Fatalf("NewBitCrusher() error = %v", err)
	}
	if bc.Step() != 0.5 {
		t.Fatalf("Step() = %v, want 0.5", bc.Step())
	}

	buf := []float64{0.6, 0.9, -0.6, 0.1}
	bc.ProcessInPlace(buf)
	testutil.RequireSliceNearlyEqual(t, buf, []float64{0.5, 0.5, -0.5, -0.5}, 1e-12)

	bc.Reset()
	if got := bc.ProcessSample(0.9); math.Abs(got-1) > 1e-12 {
		t.Fatalf("after Reset ProcessSample(0.9) = %v, want 1", got)
	}
}
