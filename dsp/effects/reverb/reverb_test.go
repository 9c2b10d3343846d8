package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/internal/testutil"
)

func TestApplyShortFirstReflection(t *testing.T) {
	a, _ := buffer.FromMono(testutil.Impulse(200, 0), 1000)

	out, err := ApplyShort(a, WithShortDecay(0.2), WithShortMix(1))
	if err != nil {
		t.Fatalf("ApplyShort() error = %v", err)
	}

	got := out.Channel(0)
	for i := 0; i < 10; i++ {
		if got[i] != 0 {
			t.Fatalf("out[%d] = %v before the first tap", i, got[i])
		}
	}
	if math.Abs(got[10]-0.25) > 1e-12 {
		t.Fatalf("out[10] = %v, want 0.25", got[10])
	}
	testutil.RequireBounded(t, got, 1)
}

func TestApplyShortDryMix(t *testing.T) {
	in := testutil.DeterministicSine(220, 8000, 0.5, 800)
	a, _ := buffer.FromMono(in, 8000)

	out, err := ApplyShort(a, WithShortMix(0))
	if err != nil {
		t.Fatalf("ApplyShort() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Channel(0), in, 1e-12)
}

func TestApplyLongWetLevel(t *testing.T) {
	in := testutil.DeterministicNoise(5, 0.8, 4000)
	a, _ := buffer.FromMono(in, 8000)

	out, err := ApplyLong(a, WithLongDecay(0.5), WithLongMix(1))
	if err != nil {
		t.Fatalf("ApplyLong() error = %v", err)
	}
	want := 1 / math.Sqrt(6)
	if peak := out.Peak(); math.Abs(peak-want) > 1e-12 {
		t.Fatalf("wet peak = %v, want %v", peak, want)
	}
}

func TestApplyLongSeeded(t *testing.T) {
	in := testutil.DeterministicNoise(9, 0.5, 3000)
	a, _ := buffer.FromMono(in, 8000)

	run := func(seed int64) []float64 {
		out, err := ApplyLong(a, WithLongDecay(0.4), WithLongSeed(seed))
		if err != nil {
			t.Fatalf("ApplyLong() error = %v", err)
		}
		return out.Channel(0)
	}

	testutil.RequireSliceNearlyEqual(t, run(3), run(3), 0)
	diff, err := testutil.MaxAbsDiff(run(3), run(4))
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if diff == 0 {
		t.Fatal("different seeds should give different tails")
	}
}

func TestApplyLongStereoSpread(t *testing.T) {
	left := testutil.Impulse(4000, 0)
	right := make([]float64, 4000)
	a, _ := buffer.FromChannels([][]float64{left, right}, 8000)

	out, err := ApplyLong(a, WithLongDecay(0.5), WithLongMix(1))
	if err != nil {
		t.Fatalf("ApplyLong() error = %v", err)
	}
	// Pan gains scale each channel's own echoes; nothing is cross-fed.
	if p := testutil.PeakAbs(out.Channel(1)); p != 0 {
		t.Fatalf("right peak = %v, want 0", p)
	}
	if testutil.PeakAbs(out.Channel(0)) == 0 {
		t.Fatal("left channel should carry the reverb")
	}
}

func TestTapPan(t *testing.T) {
	if tapPan(0, 0) != panNear || tapPan(0, 1) != panFar {
		t.Fatal("even taps should lean left")
	}
	if tapPan(1, 0) != panFar || tapPan(1, 1) != panNear {
		t.Fatal("odd taps should lean right")
	}
}

func TestLongTapsFeedbackCapped(t *testing.T) {
	cfg := defaultLongConfig()
	cfg.diffusion = 1
	for seed := int64(0); seed < 20; seed++ {
		cfg.seed = seed
		for _, tap := range longTaps(cfg) {
			if tap.feedback > longFeedbackMax {
				t.Fatalf("seed %d: feedback %v above cap", seed, tap.feedback)
			}
			if tap.seconds <= 0 {
				t.Fatalf("seed %d: tap time %v", seed, tap.seconds)
			}
		}
	}
}

func TestReverbValidation(t *testing.T) {
	a, _ := buffer.New(1, 16, 8000)
	if _, err := ApplyShort(a, WithShortDecay(0)); err == nil {
		t.Fatal("ApplyShort() expected decay error")
	}
	if _, err := ApplyShort(a, WithShortMix(1.5)); err == nil {
		t.Fatal("ApplyShort() expected mix error")
	}
	if _, err := ApplyLong(a, WithLongDiffusion(-0.1)); err == nil {
		t.Fatal("ApplyLong() expected diffusion error")
	}
	if _, err := ApplyLong(a, WithLongDecay(math.Inf(1))); err == nil {
		t.Fatal("ApplyLong() expected decay error")
	}
}
