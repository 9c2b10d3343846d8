package biquad

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sfx/internal/testutil"
)

const eps = 1e-12

func TestProcessSampleDFIIT(t *testing.T) {
	// x = [1 0 0 0] through B=[0.25 0.5 0.25], A=[-0.2 0.04]:
	// n=0 y=0.25, d0=0.55, d1=0.24
	// n=1 y=0.55, d0=0.35, d1=-0.022
	// n=2 y=0.35, d0=0.048
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); math.Abs(y-w) > eps {
			t.Fatalf("sample %d: got %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlockMatchesSample(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.3, B2: 0.1, A1: -0.5, A2: 0.2}
	in := testutil.DeterministicNoise(3, 1, 257)

	ref := NewSection(c)
	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = ref.ProcessSample(x)
	}

	s := NewSection(c)
	got := append([]float64(nil), in...)
	s.ProcessBlock(got[:100])
	s.ProcessBlock(got[100:])

	testutil.RequireSliceNearlyEqual(t, got, want, eps)
	if s.State() != ref.State() {
		t.Fatalf("state mismatch: %v vs %v", s.State(), ref.State())
	}
}

func TestSectionStateRoundTrip(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.5, B1: 0.5, A1: -0.3})
	s.ProcessSample(1)
	saved := s.State()
	a := s.ProcessSample(0.5)
	s.SetState(saved)
	if b := s.ProcessSample(0.5); a != b {
		t.Fatalf("restored state diverged: %v vs %v", a, b)
	}
	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("Reset() left state %v", s.State())
	}
}

func TestCoefficientsResponseDC(t *testing.T) {
	c := Coefficients{B0: 0.5, B1: 0.5}
	if db := c.MagnitudeDB(0, 48000); math.Abs(db) > 1e-9 {
		t.Fatalf("DC gain = %v dB, want 0", db)
	}
}
