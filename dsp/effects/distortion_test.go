package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/internal/testutil"
)

func TestDistortionClipsAtThreshold(t *testing.T) {
	d, err := NewDistortion(WithDistortionDrive(1))
	if err != nil {
		t.Fatalf("NewDistortion() error = %v", err)
	}
	tests := []struct{ in, want float64 }{
		{0.05, 0.5},
		{0.5, 0.8},
		{-0.5, -0.8},
	}
	for _, tt := range tests {
		if got := d.ProcessSample(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ProcessSample(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDistortionValidation(t *testing.T) {
	if _, err := NewDistortion(WithDistortionDrive(1.5)); err == nil {
		t.Error("expected drive error")
	}
	if _, err := NewDistortion(WithDistortionMix(-0.1)); err == nil {
		t.Error("expected mix error")
	}
	a, _ := buffer.FromMono([]float64{0.1}, 48000)
	if _, err := ApplyDistortion(a, WithDistortionDrive(2)); err == nil {
		t.Error("ApplyDistortion() expected error")
	}
}

func TestOverdriveNeutralToneIsTanh(t *testing.T) {
	o, _ := NewOverdrive(WithOverdriveDrive(1))
	for _, x := range []float64{0.1, -0.3, 0.9} {
		if got, want := o.ProcessSample(x), math.Tanh(6*x); math.Abs(got-want) > 1e-12 {
			t.Fatalf("ProcessSample(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestOverdriveToneUsesFirstDifference(t *testing.T) {
	o, _ := NewOverdrive(WithOverdriveDrive(0), WithOverdriveTone(1))
	y0 := math.Tanh(0.2)
	y1 := math.Tanh(0.4)

	if got := o.ProcessSample(0.2); math.Abs(got-y0) > 1e-12 {
		t.Fatalf("first sample = %v, want %v", got, y0)
	}
	want := y1 + 0.4*(y1-y0)
	if got := o.ProcessSample(0.4); math.Abs(got-want) > 1e-12 {
		t.Fatalf("second sample = %v, want %v", got, want)
	}

	o.Reset()
	if got := o.ProcessSample(0.4); math.Abs(got-y1) > 1e-12 {
		t.Fatalf("after Reset = %v, want %v", got, y1)
	}
}

func TestApplyFuzzPeakAtThreshold(t *testing.T) {
	in := testutil.DeterministicSine(220, 48000, 0.5, 4800)
	a, _ := buffer.FromMono(in, 48000)

	out, err := ApplyFuzz(a, WithFuzzAmount(1))
	if err != nil {
		t.Fatalf("ApplyFuzz() error = %v", err)
	}
	// amount 1 clips at 0.7 and renormalizes back to it.
	if peak := out.Peak(); math.Abs(peak-0.7) > 1e-9 {
		t.Fatalf("peak = %v, want 0.7", peak)
	}
}

func TestApplyFuzzGainAndMix(t *testing.T) {
	a, _ := buffer.FromMono([]float64{0.001, -0.5}, 48000)

	out, err := ApplyFuzz(a, WithFuzzAmount(0), WithFuzzGainDB(-6.0206), WithFuzzMix(1))
	if err != nil {
		t.Fatalf("ApplyFuzz() error = %v", err)
	}
	got := out.Channel(0)
	if math.Abs(got[0]-0.0005) > 1e-6 || math.Abs(got[1]+0.25) > 1e-4 {
		t.Fatalf("got %v", got)
	}

	dry, _ := ApplyFuzz(a, WithFuzzMix(0))
	testutil.RequireSliceNearlyEqual(t, dry.Channel(0), a.Channel(0), 1e-15)

	if _, err := ApplyFuzz(a, WithFuzzGainDB(math.Inf(1))); err == nil {
		t.Fatal("expected gain error")
	}
}
