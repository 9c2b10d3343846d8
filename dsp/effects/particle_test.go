package effects

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/window"
	"github.com/cwbudde/algo-sfx/internal/testutil"
)

func TestApplyParticleWindowsGrains(t *testing.T) {
	in := testutil.DC(0.5, 40)
	a, _ := buffer.FromMono(in, 1000)

	// 10 ms grains every 10 ms: the grains tile the input without overlap.
	out, err := ApplyParticle(a,
		WithParticleGrainSize(10),
		WithParticleDensity(100),
		WithParticleMix(1),
	)
	if err != nil {
		t.Fatalf("ApplyParticle() error = %v", err)
	}

	win, _ := window.Hann(10)
	want := make([]float64, 40)
	for i := range want {
		want[i] = 0.5 * win[i%10]
	}
	testutil.RequireSliceNearlyEqual(t, out.Channel(0), want, 1e-12)
}

func TestApplyParticleReverse(t *testing.T) {
	in := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	a, _ := buffer.FromMono(in, 1000)

	out, err := ApplyParticle(a,
		WithParticleGrainSize(5),
		WithParticleDensity(200),
		WithParticleReverse(1),
		WithParticleMix(1),
	)
	if err != nil {
		t.Fatalf("ApplyParticle() error = %v", err)
	}
	win, _ := window.Hann(5)
	want := []float64{0.5 * win[0], 0.4 * win[1], 0.3 * win[2], 0.2 * win[3], 0.1 * win[4]}
	testutil.RequireSliceNearlyEqual(t, out.Channel(0), want, 1e-12)
}

func TestApplyParticleDeterministicAndCoherent(t *testing.T) {
	in := testutil.DeterministicSine(330, 48000, 0.7, 4800)
	a, _ := buffer.FromChannels([][]float64{in, in}, 48000)
	opts := []ParticleOption{
		WithParticlePitchRandom(50),
		WithParticleReverse(0.5),
		WithParticleSeed(42),
		WithParticleDensity(40),
	}

	first, err := ApplyParticle(a, opts...)
	if err != nil {
		t.Fatalf("ApplyParticle() error = %v", err)
	}
	second, _ := ApplyParticle(a, opts...)

	testutil.RequireSliceNearlyEqual(t, first.Channel(0), second.Channel(0), 0)
	testutil.RequireSliceNearlyEqual(t, first.Channel(0), first.Channel(1), 0)
	testutil.RequireBounded(t, first.Channel(0), 1)
}

func TestApplyParticleUnimplementedParams(t *testing.T) {
	a, _ := buffer.FromMono(make([]float64, 32), 48000)
	tests := []struct {
		name string
		opt  ParticleOption
	}{
		{"delay", WithParticleDelay(100)},
		{"feedback", WithParticleFeedback(0.5)},
		{"lfo", WithParticleLFO(1, 2, 0, 0)},
		{"freeze", WithParticleFreeze(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyParticle(a, tt.opt)
			if !errors.Is(err, ErrUnimplementedParam) {
				t.Fatalf("ApplyParticle() error = %v, want ErrUnimplementedParam", err)
			}
		})
	}

	if _, err := ApplyParticle(a, WithParticleDelay(0), WithParticleFreeze(false)); err != nil {
		t.Fatalf("neutral placeholders should be accepted: %v", err)
	}
}

func TestParseQuantizeMode(t *testing.T) {
	for in, want := range map[string]QuantizeMode{
		"free": QuantizeFree, "Semitone": QuantizeSemitone, "OCTAVE": QuantizeOctave,
	} {
		got, err := ParseQuantizeMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseQuantizeMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseQuantizeMode("fifth"); !errors.Is(err, ErrUnknownQuantize) {
		t.Fatalf("ParseQuantizeMode(fifth) error = %v", err)
	}
}

func TestQuantizeModeApply(t *testing.T) {
	if got := QuantizeSemitone.apply(2.4); got != 2 {
		t.Fatalf("semitone = %v", got)
	}
	if got := QuantizeOctave.apply(7); got != 12 {
		t.Fatalf("octave = %v", got)
	}
	if got := QuantizeFree.apply(2.4); got != 2.4 {
		t.Fatalf("free = %v", got)
	}
}

func TestParticleGrainRenderReportsWindowMismatch(t *testing.T) {
	g := particleGrain{ratio: 1}
	x := []float64{1, 1, 1, 1}
	dst := make([]float64, 4)
	win := []float64{0, 1, 0}

	err := g.render(dst, x, win, make([]float64, 3), make([]float64, 4))
	if err == nil {
		t.Fatal("render() expected window length error")
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %v, want untouched", i, v)
		}
	}
}
