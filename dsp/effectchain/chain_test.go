package effectchain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/effects"
	"github.com/cwbudde/algo-sfx/dsp/mfn"
	"github.com/cwbudde/algo-sfx/internal/testutil"
)

func TestParseRecipe(t *testing.T) {
	t.Parallel()

	r, err := ParseRecipe([]byte(`{"steps": [
		{"effect": "delay", "params": {"time": 0.01, "mix": 1}},
		{"effect": "tremolo", "params": {"shape": "square"}, "bypassed": true}
	]}`))
	if err != nil {
		t.Fatalf("ParseRecipe() error = %v", err)
	}
	if len(r.Steps) != 2 || r.Steps[0].Params.Num["time"] != 0.01 || !r.Steps[1].Bypassed {
		t.Fatalf("ParseRecipe() = %+v", r)
	}

	for _, in := range []string{`{"stepz": []}`, `{"steps": [{"effect": "delay", "parms": {}}]}`, `{`} {
		if _, err := ParseRecipe([]byte(in)); err == nil {
			t.Errorf("ParseRecipe(%s) expected error", in)
		}
	}
}

func TestNewReportsStepErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		recipe string
		target error
		text   string
	}{
		{"unknown effect", `{"steps": [{"effect": "wobble"}]}`, ErrUnknownEffect, "step 0 (wobble)"},
		{"unknown param", `{"steps": [{"effect": "chorus"}, {"effect": "echo", "params": {"decay": 1}}]}`, ErrUnknownParam, "step 1 (echo)"},
		{"bad graph", `{"steps": [{"effect": "mfn", "params": {"graph": {"nodes": [{"id": ""}]}}}]}`, mfn.ErrInvalidGraph, "step 0 (mfn)"},
		{"bad quantize", `{"steps": [{"effect": "particle", "params": {"quantize": "cents"}}]}`, effects.ErrUnknownQuantize, "step 0 (particle)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recipe, err := ParseRecipe([]byte(tt.recipe))
			if err != nil {
				t.Fatalf("ParseRecipe() error = %v", err)
			}
			_, err = New(recipe, nil)
			if !errors.Is(err, tt.target) {
				t.Fatalf("New() error = %v, want %v", err, tt.target)
			}
			if !strings.Contains(err.Error(), tt.text) {
				t.Fatalf("New() error = %q, want it to name %q", err, tt.text)
			}
		})
	}
}

func TestChainRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	recipe, err := ParseRecipe([]byte(`{"steps": [
		{"effect": "delay", "params": {"time": 0.01, "feedback": 0, "mix": 1}},
		{"effect": "tremolo", "params": {"depth": 1}, "bypassed": true},
		{"effect": "delay", "params": {"time": 0.005, "feedback": 0, "mix": 1}}
	]}`))
	if err != nil {
		t.Fatalf("ParseRecipe() error = %v", err)
	}

	c, err := New(recipe, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := c.Effects(); len(got) != 2 || got[0] != "delay" || got[1] != "delay" {
		t.Fatalf("Effects() = %v", got)
	}

	in, _ := buffer.FromMono(testutil.Impulse(64, 0), 1000)
	out, err := c.Process(in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// 10 ms then 5 ms at 1 kHz moves the impulse to sample 15.
	got := out.Channel(0)
	for i, v := range got {
		want := 0.0
		if i == 15 {
			want = 1
		}
		if v != want {
			t.Fatalf("out[%d] = %v, want %v", i, v, want)
		}
	}
	if in.Channel(0)[0] != 1 {
		t.Fatal("Process() modified its input")
	}
}

func TestChainEmptyReturnsCopy(t *testing.T) {
	t.Parallel()

	c, err := New(Recipe{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	in, _ := buffer.FromMono([]float64{0.1, 0.2}, 48000)
	out, err := c.Process(in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	out.Channel(0)[0] = 9
	if in.Channel(0)[0] != 0.1 {
		t.Fatal("empty chain aliased its input")
	}
}

func TestChainProcessWrapsRangeErrors(t *testing.T) {
	t.Parallel()

	recipe := Recipe{Steps: []Step{{Effect: "chorus", Params: Params{Num: map[string]float64{"mix": 3}}}}}
	c, err := New(recipe, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	in, _ := buffer.FromMono(make([]float64, 16), 48000)
	if _, err := c.Process(in); err == nil || !strings.Contains(err.Error(), "step 0 (chorus)") {
		t.Fatalf("Process() error = %v", err)
	}
}

func TestDefaultRegistryEffectsRun(t *testing.T) {
	t.Parallel()

	in, _ := buffer.FromMono(testutil.DeterministicNoise(3, 0.5, 4800), 48000)
	params := map[string]Params{
		"mfn": {Raw: map[string]json.RawMessage{
			"graph": json.RawMessage(`{"nodes": [{"id": "a", "delay_samples": 120, "gain": 0.5}],
				"connections": [{"source_id": "a", "target_id": "a", "gain": 0.4}]}`),
		}},
	}

	r := DefaultRegistry()
	for _, name := range r.Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fx, err := r.Build(name, params[name])
			if err != nil {
				t.Fatalf("Build(%s) error = %v", name, err)
			}
			out, err := fx.Process(in)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			for ch := 0; ch < out.Channels(); ch++ {
				testutil.RequireFinite(t, out.Channel(ch))
			}
		})
	}
}
