package mfn

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/internal/testutil"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func runGraph(t *testing.T, g *Graph, in []float64, opts ...Option) []float64 {
	t.Helper()
	e, err := NewEngine(g, 1000, opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	out := make([]float64, len(in))
	if err := e.Process(out, in); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	return out
}

func TestEngineNodeTap(t *testing.T) {
	g, err := NewBuilder().AddNode("a", 10, 0.5).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, kernel := range Kernels() {
		t.Run(kernel, func(t *testing.T) {
			out := runGraph(t, g, testutil.Impulse(64, 0),
				WithKernel(kernel), WithBlockSize(16), WithWatchdog(false))
			for i, v := range out {
				want := 0.0
				if i == 10 {
					want = 0.5
				}
				if math.Abs(v-want) > 1e-12 {
					t.Fatalf("out[%d] = %v, want %v", i, v, want)
				}
			}
		})
	}
}

func TestEngineFeedbackHasOneBlockLatency(t *testing.T) {
	g, err := NewBuilder().
		AddNode("a", 0, 1).
		AddConnection("a", "a", 0.5).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, kernel := range Kernels() {
		t.Run(kernel, func(t *testing.T) {
			out := runGraph(t, g, testutil.Impulse(20, 0),
				WithKernel(kernel), WithBlockSize(4), WithWatchdog(false))
			for i, v := range out {
				want := 0.0
				if i%4 == 0 {
					want = math.Pow(0.5, float64(i/4))
				}
				if math.Abs(v-want) > 1e-12 {
					t.Fatalf("out[%d] = %v, want %v", i, v, want)
				}
			}
		})
	}
}

func TestKernelEquivalence(t *testing.T) {
	g, err := NewBuilder().
		AddNode("a", 37, 0.8).
		AddNode("b", 91, 0.6, WithMaxDelay(0.2)).
		AddNode("c", 5, 0.7).
		AddConnection("a", "b", 0.6).
		AddConnection("b", "c", 0.5).
		AddConnection("c", "a", 0.4).
		AddConnection("b", "b", 0.3).
		SetInputGain(0.9).
		SetChaos(0.35).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	in := testutil.DeterministicNoise(11, 0.7, 3000)
	portable := runGraph(t, g, in, WithKernel(KernelPortable), WithBlockSize(64))
	vector := runGraph(t, g, in, WithKernel(KernelVector), WithBlockSize(64))

	diff, err := testutil.MaxAbsDiff(portable, vector)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if diff > 1e-5 {
		t.Fatalf("kernel outputs differ by %v", diff)
	}
	if testutil.PeakAbs(portable) == 0 {
		t.Fatal("network produced silence")
	}
}

func TestEngineRunawayStaysBounded(t *testing.T) {
	g, err := NewBuilder().
		AddNode("a", 0, 1).
		AddConnection("a", "a", 1.5).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	in := testutil.DeterministicSine(50, 1000, 0.9, 20000)
	out := runGraph(t, g, in, WithBlockSize(32))
	testutil.RequireFinite(t, out)
	testutil.RequireBounded(t, out, 1)

	// Once the watchdog average has settled the block RMS sits well below
	// full scale even though the loop gain exceeds one.
	tail := out[len(out)-1000:]
	sum := 0.0
	for _, v := range tail {
		sum += v * v
	}
	if rms := math.Sqrt(sum / float64(len(tail))); rms > 0.9 {
		t.Fatalf("tail RMS = %v, watchdog did not engage", rms)
	}
}

func TestWatchdog(t *testing.T) {
	w := newWatchdog(defaultWatchdogLimit, defaultWatchdogMaxReductionDB)
	if gain := w.update(0.5); gain != 1 {
		t.Fatalf("update(0.5) = %v, want 1", gain)
	}

	var gain float64
	for i := 0; i < 200; i++ {
		gain = w.update(1)
	}
	want := defaultWatchdogLimit / (w.average + watchdogEpsilon)
	if math.Abs(gain-want) > 1e-12 || gain >= 1 {
		t.Fatalf("gain = %v, want %v", gain, want)
	}

	floored := newWatchdog(0.01, -6)
	for i := 0; i < 200; i++ {
		gain = floored.update(1)
	}
	if floor := math.Pow(10, -6.0/20); math.Abs(gain-floor) > 1e-12 {
		t.Fatalf("floored gain = %v, want %v", gain, floor)
	}

	floored.reset()
	if floored.average != 0 {
		t.Fatal("reset should clear the average")
	}
}

func TestRingLength(t *testing.T) {
	tests := []struct {
		maxDelay, sr float64
		block, want  int
	}{
		{1, 1000, 16, 1016},
		{0.01, 1000, 16, 272},
		{0.01, 1000, 256, 768},
	}
	for _, tt := range tests {
		if got := ringLength(tt.maxDelay, tt.sr, tt.block); got != tt.want {
			t.Fatalf("ringLength(%v, %v, %d) = %d, want %d", tt.maxDelay, tt.sr, tt.block, got, tt.want)
		}
	}
}

func TestNodeDelayClamped(t *testing.T) {
	g, err := NewBuilder().AddNode("a", 5000, 1, WithMaxDelay(0.1)).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	e, err := NewEngine(g, 1000, WithBlockSize(16))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	size := len(e.net.nodes[0].buf)
	if d := e.net.nodes[0].delay; d != size-16 {
		t.Fatalf("delay = %d, want %d", d, size-16)
	}
}

func TestKernelRegistry(t *testing.T) {
	if names := Kernels(); !slices.Contains(names, KernelPortable) || !slices.Contains(names, KernelVector) {
		t.Fatalf("Kernels() = %v", names)
	}

	g, _ := NewBuilder().AddNode("a", 0, 1).Build()
	if _, err := NewEngine(g, 1000, WithKernel("turbo")); !errors.Is(err, ErrUnknownKernel) {
		t.Fatalf("NewEngine() error = %v, want ErrUnknownKernel", err)
	}

	cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true})
	defer cpu.ResetDetection()

	e, err := NewEngine(g, 1000)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if e.KernelName() != KernelPortable {
		t.Fatalf("KernelName() = %q with ForceGeneric, want %q", e.KernelName(), KernelPortable)
	}
}

func TestEngineOptionValidation(t *testing.T) {
	g, _ := NewBuilder().AddNode("a", 0, 1).Build()
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero block", WithBlockSize(0)},
		{"empty kernel", WithKernel("")},
		{"limit zero", WithWatchdogLimit(0)},
		{"limit above one", WithWatchdogLimit(1.5)},
		{"positive reduction", WithWatchdogMaxReduction(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(g, 1000, tt.opt); err == nil {
				t.Fatal("NewEngine() expected error")
			}
		})
	}
	if _, err := NewEngine(nil, 1000); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("NewEngine(nil) error = %v", err)
	}
	if _, err := NewEngine(g, 0); err == nil {
		t.Fatal("NewEngine() expected sample rate error")
	}
}

func TestEngineResetRepeats(t *testing.T) {
	g, _ := NewBuilder().AddNode("a", 3, 0.9).AddConnection("a", "a", 0.5).Build()
	e, err := NewEngine(g, 1000, WithBlockSize(8))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	in := testutil.DeterministicNoise(4, 0.5, 100)
	first := make([]float64, len(in))
	second := make([]float64, len(in))
	if err := e.Process(first, in); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	e.Reset()
	if err := e.Process(second, in); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, second, first, 0)

	if err := e.Process(first[:3], in); err == nil {
		t.Fatal("Process() expected length error")
	}
}

func TestEngineReleaseReusesBlocks(t *testing.T) {
	g, _ := NewBuilder().AddNode("a", 5, 0.8).AddConnection("a", "a", 0.4).Build()
	in := testutil.DeterministicNoise(9, 0.5, 80)

	e, err := NewEngine(g, 1000, WithBlockSize(16))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	first := make([]float64, len(in))
	if err := e.Process(first, in); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	e.Release()

	second := runGraph(t, g, in, WithBlockSize(16))
	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestApply(t *testing.T) {
	left := testutil.DeterministicNoise(1, 0.5, 1000)
	right := testutil.DeterministicNoise(2, 0.5, 1000)
	a, _ := buffer.FromChannels([][]float64{left, right}, 8000)

	empty, _ := NewBuilder().Build()
	out, err := Apply(a, empty)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Channel(0), left, 0)
	testutil.RequireSliceNearlyEqual(t, out.Channel(1), right, 0)

	g, _ := NewBuilder().AddNode("a", 40, 0.7).AddConnection("a", "a", 0.4).Build()
	out, err = Apply(a, g, WithBlockSize(100))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Frames() != a.Frames() || out.Channels() != 2 {
		t.Fatalf("shape = %dx%d", out.Channels(), out.Frames())
	}

	// Each channel matches a standalone mono run.
	mono, _ := buffer.FromMono(right, 8000)
	ref, err := Apply(mono, g, WithBlockSize(100))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Channel(1), ref.Channel(0), 0)

	if _, err := Apply(a, nil); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("Apply(nil graph) error = %v", err)
	}
}
