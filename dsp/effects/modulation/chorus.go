package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultChorusRateHz   = 1.0
	defaultChorusDepthMs  = 2.0
	defaultChorusMix      = 0.5
	defaultChorusFeedback = 0.2
	defaultChorusSpreadMs = 0.5

	minChorusDepthMs = 0.001
	// Average delay sits at 1.5x the depth so the sweep never reaches zero.
	chorusAverageRatio = 1.5
)

// ChorusOption mutates chorus construction parameters.
type ChorusOption func(*chorusConfig) error

type chorusConfig struct {
	rateHz   float64
	depthMs  float64
	mix      float64
	feedback float64
	spreadMs float64
}

func defaultChorusConfig() chorusConfig {
	return chorusConfig{
		rateHz:   defaultChorusRateHz,
		depthMs:  defaultChorusDepthMs,
		mix:      defaultChorusMix,
		feedback: defaultChorusFeedback,
		spreadMs: defaultChorusSpreadMs,
	}
}

// WithChorusRate sets the LFO rate in Hz (> 0).
func WithChorusRate(hz float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if err := validateRate("chorus", hz, false); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithChorusDepth sets the delay deviation in ms. Non-positive depths
// collapse to 0.001 ms.
func WithChorusDepth(ms float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if !core.IsFinite(ms) {
			return fmt.Errorf("chorus depth must be finite: %f", ms)
		}
		cfg.depthMs = math.Max(ms, minChorusDepthMs)
		return nil
	}
}

// WithChorusMix sets the wet amount in [0, 1].
func WithChorusMix(mix float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if err := validateMix("chorus", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithChorusFeedback sets the feedback gain in [0, 1).
func WithChorusFeedback(feedback float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if err := core.ValidateFeedback("chorus feedback", feedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithChorusSpread sets the right channel's LFO offset, expressed as a time
// shift in ms (>= 0).
func WithChorusSpread(ms float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if !core.IsFinite(ms) || ms < 0 {
			return fmt.Errorf("chorus stereo spread must be >= 0: %f", ms)
		}
		cfg.spreadMs = ms
		return nil
	}
}

// Chorus is a single-voice modulated delay:
//
//	d(t) = 1.5*depth + depth*sin(2*pi*rate*t + phase)
type Chorus struct {
	modulatedDelay
	cfg chorusConfig
}

// NewChorus creates a chorus for one channel.
func NewChorus(sampleRate float64, opts ...ChorusOption) (*Chorus, error) {
	cfg := defaultChorusConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return newChorus(sampleRate, cfg, 0)
}

func newChorus(sampleRate float64, cfg chorusConfig, phaseRad float64) (*Chorus, error) {
	depth := core.MsToSamples(cfg.depthMs, sampleRate)
	md, err := newModulatedDelay(sampleRate, cfg.rateHz, phaseRad, depth*chorusAverageRatio, depth, 0)
	if err != nil {
		return nil, fmt.Errorf("chorus: %w", err)
	}
	md.feedback = cfg.feedback
	md.mix = cfg.mix
	return &Chorus{modulatedDelay: md, cfg: cfg}, nil
}

// Rate returns the LFO rate in Hz.
func (c *Chorus) Rate() float64 { return c.cfg.rateHz }

// Depth returns the modulation depth in ms.
func (c *Chorus) Depth() float64 { return c.cfg.depthMs }

// Mix returns the wet amount.
func (c *Chorus) Mix() float64 { return c.cfg.mix }

// Feedback returns the feedback gain.
func (c *Chorus) Feedback() float64 { return c.cfg.feedback }

// ApplyChorus runs a chorus over every channel. The right channel's LFO
// leads by 2*pi*rate*spread.
func ApplyChorus(a *buffer.Audio, opts ...ChorusOption) (*buffer.Audio, error) {
	cfg := defaultChorusConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	offset := 2 * math.Pi * cfg.rateHz * cfg.spreadMs / 1000
	return applyEach(a, func(ch int) (buffer.SampleProcessor, error) {
		return newChorus(a.SampleRate(), cfg, float64(ch)*offset)
	})
}
