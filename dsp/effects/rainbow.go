package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/filter/onepole"
)

const (
	defaultRainbowPitch         = 0.0
	defaultRainbowPrimaryLevel  = 0.8
	defaultRainbowSecondaryMode = 0.0
	defaultRainbowTrackingMs    = 20.0
	defaultRainbowTone          = 0.5
	defaultRainbowFeedback      = 0.0
	defaultRainbowFeedbackMs    = 50.0
	defaultRainbowIterations    = 1
	defaultRainbowModRateHz     = 0.5
	defaultRainbowModDepthMs    = 5.0
	defaultRainbowMix           = 0.5

	minRainbowPitch      = -4.0
	maxRainbowPitch      = 3.0
	maxRainbowTrackingMs = 1000.0
	maxRainbowFeedback   = 0.98
	minRainbowFeedbackMs = 1.0
	maxRainbowFeedbackMs = 2000.0
	minRainbowModRateHz  = 0.05
	maxRainbowModRateHz  = 20.0
	maxRainbowModDepthMs = 30.0

	// Tone pole runs from 0.99 (dark) down to 0.05 (bright).
	rainbowPoleDark   = 0.99
	rainbowPoleBright = 0.05
)

// RainbowOption mutates rainbow machine parameters. Out-of-range values are
// clamped to the documented range; only non-finite values are rejected.
type RainbowOption func(*rainbowConfig) error

type rainbowConfig struct {
	pitch         float64
	primaryLevel  float64
	secondaryMode float64
	trackingMs    float64
	tone          float64
	feedback      float64
	feedbackMs    float64
	iterations    int
	modRateHz     float64
	modDepthMs    float64
	mix           float64
}

func defaultRainbowConfig() rainbowConfig {
	return rainbowConfig{
		pitch:         defaultRainbowPitch,
		primaryLevel:  defaultRainbowPrimaryLevel,
		secondaryMode: defaultRainbowSecondaryMode,
		trackingMs:    defaultRainbowTrackingMs,
		tone:          defaultRainbowTone,
		feedback:      defaultRainbowFeedback,
		feedbackMs:    defaultRainbowFeedbackMs,
		iterations:    defaultRainbowIterations,
		modRateHz:     defaultRainbowModRateHz,
		modDepthMs:    defaultRainbowModDepthMs,
		mix:           defaultRainbowMix,
	}
}

func clampedRainbow(name string, v, lo, hi float64, dst *float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("rainbow machine %s must be finite: %f", name, v)
	}
	*dst = core.Clamp(v, lo, hi)
	return nil
}

// WithRainbowPitch sets the primary shift in semitones, clamped to [-4, 3].
func WithRainbowPitch(semitones float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("pitch", semitones, minRainbowPitch, maxRainbowPitch, &cfg.pitch)
	}
}

// WithRainbowPrimaryLevel sets the primary shifter level in [0, 1].
func WithRainbowPrimaryLevel(level float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("primary level", level, 0, 1, &cfg.primaryLevel)
	}
}

// WithRainbowSecondaryMode selects the octave voice: negative is an octave
// down, positive an octave up, zero off. The magnitude (clamped to 1) is its
// level.
func WithRainbowSecondaryMode(mode float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("secondary mode", mode, -1, 1, &cfg.secondaryMode)
	}
}

// WithRainbowTracking sets the lag of the shifted voices in ms, [0, 1000].
func WithRainbowTracking(ms float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("tracking", ms, 0, maxRainbowTrackingMs, &cfg.trackingMs)
	}
}

// WithRainbowTone sets brightness in [0, 1].
func WithRainbowTone(tone float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("tone", tone, 0, 1, &cfg.tone)
	}
}

// WithRainbowFeedback sets the regeneration gain in [0, 0.98].
func WithRainbowFeedback(feedback float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("feedback", feedback, 0, maxRainbowFeedback, &cfg.feedback)
	}
}

// WithRainbowFeedbackDelay sets the regeneration delay in ms, [1, 2000].
func WithRainbowFeedbackDelay(ms float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("feedback delay", ms, minRainbowFeedbackMs, maxRainbowFeedbackMs, &cfg.feedbackMs)
	}
}

// WithRainbowIterations sets the number of regeneration passes (>= 1).
func WithRainbowIterations(n int) RainbowOption {
	return func(cfg *rainbowConfig) error {
		cfg.iterations = max(1, n)
		return nil
	}
}

// WithRainbowModRate sets the modulation LFO rate in Hz, [0.05, 20].
func WithRainbowModRate(hz float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("mod rate", hz, minRainbowModRateHz, maxRainbowModRateHz, &cfg.modRateHz)
	}
}

// WithRainbowModDepth sets the modulation depth in ms, [0, 30].
func WithRainbowModDepth(ms float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("mod depth", ms, 0, maxRainbowModDepthMs, &cfg.modDepthMs)
	}
}

// WithRainbowMix sets the wet amount in [0, 1].
func WithRainbowMix(mix float64) RainbowOption {
	return func(cfg *rainbowConfig) error {
		return clampedRainbow("mix", mix, 0, 1, &cfg.mix)
	}
}

// rainbowPlan holds sample-domain parameters derived for one sample rate.
type rainbowPlan struct {
	cfg            rainbowConfig
	primaryRatio   float64
	secondaryRatio float64
	secondaryLevel float64
	tracking       int
	feedbackDelay  int
	modDepth       int
	tone           *onepole.LowPass
	sampleRate     float64
}

func newRainbowPlan(cfg rainbowConfig, sampleRate float64) (rainbowPlan, error) {
	pole := rainbowPoleDark - cfg.tone*(rainbowPoleDark-rainbowPoleBright)
	// y = (1-a)x + a*y1
	tone, err := onepole.NewLowPass(1 - pole)
	if err != nil {
		return rainbowPlan{}, fmt.Errorf("rainbow machine tone: %w", err)
	}

	p := rainbowPlan{
		cfg:            cfg,
		primaryRatio:   math.Exp2(cfg.pitch / 12),
		secondaryRatio: 1,
		secondaryLevel: math.Abs(cfg.secondaryMode),
		tracking:       int(cfg.trackingMs / 1000 * sampleRate),
		feedbackDelay:  int(cfg.feedbackMs / 1000 * sampleRate),
		modDepth:       int(cfg.modDepthMs / 1000 * sampleRate),
		tone:           tone,
		sampleRate:     sampleRate,
	}
	switch {
	case cfg.secondaryMode > 0:
		p.secondaryRatio = 2
	case cfg.secondaryMode < 0:
		p.secondaryRatio = 0.5
	}
	return p, nil
}

// wet runs the regeneration loop over one channel and returns the toned
// signal of the final pass.
func (p rainbowPlan) wet(x []float64) []float64 {
	n := len(x)
	feedback := make([]float64, n)
	input := make([]float64, n)
	toned := make([]float64, n)

	for it := 0; it < p.cfg.iterations; it++ {
		for i := range input {
			input[i] = core.Clamp(x[i]+p.cfg.feedback*feedback[i], -1, 1)
		}

		shifted := resampleCrude(input, p.primaryRatio)
		for i := range shifted {
			shifted[i] *= p.cfg.primaryLevel
		}
		if p.secondaryLevel > 0 {
			second := resampleCrude(input, p.secondaryRatio)
			for i := range shifted {
				shifted[i] += second[i] * p.secondaryLevel
			}
		}
		core.ClipInPlace(shifted, 1)

		tracked := shiftRight(shifted, p.tracking)
		modulated := p.modulate(tracked)
		core.ClipInPlace(modulated, 1)

		copy(toned, modulated)
		p.tone.Reset()
		p.tone.ProcessInPlace(toned)
		core.ClipInPlace(toned, 1)

		feedback = shiftRight(toned, p.feedbackDelay)
	}

	return toned
}

// modulate reads x through a delay of depth - depth*sin(2*pi*rate*t)
// samples with linear interpolation; reads before the start are silent.
func (p rainbowPlan) modulate(x []float64) []float64 {
	out := make([]float64, len(x))
	if p.modDepth <= 0 {
		copy(out, x)
		return out
	}

	depth := float64(p.modDepth)
	step := 2 * math.Pi * p.cfg.modRateHz / p.sampleRate
	for i := range out {
		pos := float64(i) - (depth - depth*math.Sin(step*float64(i)))
		lo := math.Floor(pos)
		frac := pos - lo
		i0 := int(lo)
		v0 := 0.0
		if i0 >= 0 {
			v0 = x[i0]
		}
		if frac == 0 {
			out[i] = v0
			continue
		}
		v1 := v0
		if i1 := i0 + 1; i1 >= 0 && i1 < len(x) {
			v1 = x[i1]
		}
		out[i] = v0*(1-frac) + v1*frac
	}
	return out
}

// resampleCrude reads x at n*ratio with linear interpolation, holding the
// last sample once the read position runs off the end.
func resampleCrude(x []float64, ratio float64) []float64 {
	out := make([]float64, len(x))
	if ratio == 1 || len(x) == 0 {
		copy(out, x)
		return out
	}

	last := float64(len(x) - 1)
	for i := range out {
		pos := math.Min(float64(i)*ratio, last)
		j := int(pos)
		frac := pos - float64(j)
		if frac == 0 || j+1 >= len(x) {
			out[i] = x[j]
			continue
		}
		out[i] = x[j]*(1-frac) + x[j+1]*frac
	}
	return out
}

// shiftRight delays x by d samples, dropping the tail. A delay at least as
// long as x yields silence.
func shiftRight(x []float64, d int) []float64 {
	out := make([]float64, len(x))
	if d <= 0 {
		copy(out, x)
		return out
	}
	if d < len(x) {
		copy(out[d:], x[:len(x)-d])
	}
	return out
}

// ApplyRainbowMachine runs the rainbow machine: crude pitch shifting into a
// tracking delay, sine-modulated delay and one-pole tone filter, repeated
// with delayed regeneration for the configured number of passes. The mix
// is normalized when its peak exceeds full scale.
func ApplyRainbowMachine(a *buffer.Audio, opts ...RainbowOption) (*buffer.Audio, error) {
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}

	cfg := defaultRainbowConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	plan, err := newRainbowPlan(cfg, a.SampleRate())
	if err != nil {
		return nil, err
	}
	out := a.NewLike()
	for ch := 0; ch < a.Channels(); ch++ {
		dry := a.Channel(ch)
		wet := plan.wet(dry)
		dst := out.Channel(ch)
		for i := range dst {
			dst[i] = dry[i]*(1-cfg.mix) + wet[i]*cfg.mix
		}
	}

	if out.Peak() > 1 {
		out.NormalizeInPlace(1)
	}
	out.ClipInPlace(outputBound)

	return out, nil
}
