package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/delay"
	"github.com/cwbudde/algo-sfx/dsp/filter/onepole"
)

const (
	defaultDelayTimeSeconds = 0.5
	defaultDelayFeedback    = 0.3
	defaultDelayMix         = 0.5
	defaultDelayDamping     = 0.0

	defaultEchoTimeSeconds = 0.5
	defaultEchoFeedback    = 0.4
	defaultEchoMix         = 0.5

	defaultDubEchoTimeSeconds = 0.7
	defaultDubEchoFeedback    = 0.65
	defaultDubEchoMix         = 0.6
	defaultDubEchoDamping     = 0.3

	// Normalized damping cutoff runs from light (0.8) to heavy (0.05).
	dubCutoffLight = 0.8
	dubCutoffHeavy = 0.05
	dubCutoffFloor = 0.01
	dubAlphaMin    = 0.01
	dubAlphaMax    = 0.99
)

// DelayOption mutates delay construction parameters.
type DelayOption func(*delayConfig) error

type delayConfig struct {
	timeSeconds float64
	feedback    float64
	mix         float64
	damping     float64
}

func defaultDelayConfig() delayConfig {
	return delayConfig{
		timeSeconds: defaultDelayTimeSeconds,
		feedback:    defaultDelayFeedback,
		mix:         defaultDelayMix,
		damping:     defaultDelayDamping,
	}
}

// WithDelayTime sets the delay time in seconds. Times shorter than one
// sample make the delay transparent.
func WithDelayTime(seconds float64) DelayOption {
	return func(cfg *delayConfig) error {
		if seconds < 0 || !core.IsFinite(seconds) {
			return fmt.Errorf("delay time must be >= 0 and finite: %f", seconds)
		}
		cfg.timeSeconds = seconds
		return nil
	}
}

// WithDelayFeedback sets the feedback gain in [0, 1).
func WithDelayFeedback(feedback float64) DelayOption {
	return func(cfg *delayConfig) error {
		if err := core.ValidateFeedback("delay feedback", feedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithDelayMix sets the wet amount in [0, 1].
func WithDelayMix(mix float64) DelayOption {
	return func(cfg *delayConfig) error {
		if err := validateMix("delay", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithDelayDamping low-passes the feedback path. 0 disables the filter,
// 1 is the darkest setting.
func WithDelayDamping(damping float64) DelayOption {
	return func(cfg *delayConfig) error {
		if err := core.ValidateRange("delay damping", damping, 0, 1); err != nil {
			return err
		}
		cfg.damping = damping
		return nil
	}
}

// Delay is a feedback delay. Each output is
// x*(1-mix) + d*mix where d is the line output, and the line is fed
// x + d*feedback, optionally through a one-pole damping filter.
type Delay struct {
	sampleRate   float64
	cfg          delayConfig
	delaySamples int
	line         *delay.Line
	damp         *onepole.LowPass
}

// NewDelay creates a delay with optional overrides.
func NewDelay(sampleRate float64, opts ...DelayOption) (*Delay, error) {
	if err := validateSampleRate("delay", sampleRate); err != nil {
		return nil, err
	}

	cfg := defaultDelayConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	d := &Delay{
		sampleRate:   sampleRate,
		cfg:          cfg,
		delaySamples: int(cfg.timeSeconds * sampleRate),
	}
	if d.delaySamples <= 0 {
		return d, nil
	}

	line, err := delay.New(d.delaySamples)
	if err != nil {
		return nil, err
	}
	d.line = line

	if cfg.damping > 0 {
		cutoff := math.Max(dubCutoffFloor, dubCutoffLight-cfg.damping*(dubCutoffLight-dubCutoffHeavy))
		lp, err := onepole.NewLowPass(core.Clamp(cutoff, dubAlphaMin, dubAlphaMax))
		if err != nil {
			return nil, err
		}
		d.damp = lp
	}

	return d, nil
}

// ProcessSample processes one sample.
func (d *Delay) ProcessSample(x float64) float64 {
	if d.line == nil {
		return x
	}

	delayed := d.line.Read(d.delaySamples)
	fb := delayed * d.cfg.feedback
	if d.damp != nil {
		fb = d.damp.Process(fb)
	}
	d.line.Write(x + fb)

	return x*(1-d.cfg.mix) + delayed*d.cfg.mix
}

// ProcessInPlace applies the delay to buf in place.
func (d *Delay) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// Reset clears the line and the damping filter.
func (d *Delay) Reset() {
	if d.line != nil {
		d.line.Reset()
	}
	if d.damp != nil {
		d.damp.Reset()
	}
}

// SampleRate returns the sample rate in Hz.
func (d *Delay) SampleRate() float64 { return d.sampleRate }

// Time returns the delay time in seconds.
func (d *Delay) Time() float64 { return d.cfg.timeSeconds }

// DelaySamples returns the integer delay used by the line.
func (d *Delay) DelaySamples() int { return d.delaySamples }

// Feedback returns the feedback gain.
func (d *Delay) Feedback() float64 { return d.cfg.feedback }

// Mix returns the wet amount.
func (d *Delay) Mix() float64 { return d.cfg.mix }

// Damping returns the feedback damping amount.
func (d *Delay) Damping() float64 { return d.cfg.damping }

// ApplyDelay runs a feedback delay over every channel of a.
func ApplyDelay(a *buffer.Audio, opts ...DelayOption) (*buffer.Audio, error) {
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}
	return applyEach(a, func() (buffer.SampleProcessor, error) {
		return NewDelay(a.SampleRate(), opts...)
	})
}

// ApplyEcho is ApplyDelay with echo defaults (0.5 s, feedback 0.4, mix 0.5).
func ApplyEcho(a *buffer.Audio, opts ...DelayOption) (*buffer.Audio, error) {
	base := []DelayOption{
		WithDelayTime(defaultEchoTimeSeconds),
		WithDelayFeedback(defaultEchoFeedback),
		WithDelayMix(defaultEchoMix),
	}
	return ApplyDelay(a, append(base, opts...)...)
}

// ApplyDubEcho is a darker, longer echo: 0.7 s, feedback 0.65, mix 0.6 and
// damping 0.3 unless overridden.
func ApplyDubEcho(a *buffer.Audio, opts ...DelayOption) (*buffer.Audio, error) {
	base := []DelayOption{
		WithDelayTime(defaultDubEchoTimeSeconds),
		WithDelayFeedback(defaultDubEchoFeedback),
		WithDelayMix(defaultDubEchoMix),
		WithDelayDamping(defaultDubEchoDamping),
	}
	return ApplyDelay(a, append(base, opts...)...)
}
