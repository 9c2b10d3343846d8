package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultFlangerRateHz   = 0.2
	defaultFlangerDepthMs  = 1.5
	defaultFlangerMix      = 0.5
	defaultFlangerFeedback = 0.7
	defaultFlangerSpreadMs = 0.2

	minFlangerDepthMs  = 0.001
	flangerBaseDelayMs = 0.1
	flangerMinDelayMs  = 1.0
)

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*flangerConfig) error

type flangerConfig struct {
	rateHz   float64
	depthMs  float64
	mix      float64
	feedback float64
	spreadMs float64
}

func defaultFlangerConfig() flangerConfig {
	return flangerConfig{
		rateHz:   defaultFlangerRateHz,
		depthMs:  defaultFlangerDepthMs,
		mix:      defaultFlangerMix,
		feedback: defaultFlangerFeedback,
		spreadMs: defaultFlangerSpreadMs,
	}
}

// WithFlangerRate sets the LFO rate in Hz (> 0).
func WithFlangerRate(hz float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if err := validateRate("flanger", hz, false); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithFlangerDepth sets the delay deviation in ms. Non-positive depths
// collapse to 0.001 ms.
func WithFlangerDepth(ms float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if !core.IsFinite(ms) {
			return fmt.Errorf("flanger depth must be finite: %f", ms)
		}
		cfg.depthMs = math.Max(ms, minFlangerDepthMs)
		return nil
	}
}

// WithFlangerMix sets the wet amount in [0, 1].
func WithFlangerMix(mix float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if err := validateMix("flanger", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithFlangerFeedback sets the feedback gain in [0, 1).
func WithFlangerFeedback(feedback float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if err := core.ValidateFeedback("flanger feedback", feedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithFlangerSpread sets the right channel's LFO offset in ms (>= 0).
func WithFlangerSpread(ms float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if !core.IsFinite(ms) || ms < 0 {
			return fmt.Errorf("flanger stereo spread must be >= 0: %f", ms)
		}
		cfg.spreadMs = ms
		return nil
	}
}

// Flanger is a short modulated delay with feedback. The delay swings
// around 0.1 ms + depth and never drops below 1 ms.
type Flanger struct {
	modulatedDelay
	cfg flangerConfig
}

// NewFlanger creates a flanger for one channel.
func NewFlanger(sampleRate float64, opts ...FlangerOption) (*Flanger, error) {
	cfg := defaultFlangerConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return newFlanger(sampleRate, cfg, 0)
}

func newFlanger(sampleRate float64, cfg flangerConfig, phaseRad float64) (*Flanger, error) {
	depth := core.MsToSamples(cfg.depthMs, sampleRate)
	avg := core.MsToSamples(flangerBaseDelayMs, sampleRate) + depth
	floor := core.MsToSamples(flangerMinDelayMs, sampleRate)
	md, err := newModulatedDelay(sampleRate, cfg.rateHz, phaseRad, avg, depth, floor)
	if err != nil {
		return nil, fmt.Errorf("flanger: %w", err)
	}
	md.feedback = cfg.feedback
	md.mix = cfg.mix
	return &Flanger{modulatedDelay: md, cfg: cfg}, nil
}

// Rate returns the LFO rate in Hz.
func (f *Flanger) Rate() float64 { return f.cfg.rateHz }

// Depth returns the modulation depth in ms.
func (f *Flanger) Depth() float64 { return f.cfg.depthMs }

// Mix returns the wet amount.
func (f *Flanger) Mix() float64 { return f.cfg.mix }

// Feedback returns the feedback gain.
func (f *Flanger) Feedback() float64 { return f.cfg.feedback }

// ApplyFlanger runs a flanger over every channel.
func ApplyFlanger(a *buffer.Audio, opts ...FlangerOption) (*buffer.Audio, error) {
	cfg := defaultFlangerConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	offset := 2 * math.Pi * cfg.rateHz * cfg.spreadMs / 1000
	return applyEach(a, func(ch int) (buffer.SampleProcessor, error) {
		return newFlanger(a.SampleRate(), cfg, float64(ch)*offset)
	})
}
