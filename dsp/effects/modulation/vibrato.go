package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultVibratoRateHz  = 6.0
	defaultVibratoDepthMs = 1.0

	vibratoAverageRatio = 1.1
	vibratoMinDelayMs   = 1.0
)

// VibratoOption mutates vibrato construction parameters.
type VibratoOption func(*vibratoConfig) error

type vibratoConfig struct {
	rateHz   float64
	depthMs  float64
	phaseDeg float64
}

func defaultVibratoConfig() vibratoConfig {
	return vibratoConfig{rateHz: defaultVibratoRateHz, depthMs: defaultVibratoDepthMs}
}

// WithVibratoRate sets the LFO rate in Hz (>= 0).
func WithVibratoRate(hz float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if err := validateRate("vibrato", hz, true); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithVibratoDepth sets the delay deviation in ms. A depth <= 0 disables
// the effect.
func WithVibratoDepth(ms float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if !core.IsFinite(ms) {
			return fmt.Errorf("vibrato depth must be finite: %f", ms)
		}
		cfg.depthMs = ms
		return nil
	}
}

// WithVibratoStereoPhase sets the right channel's LFO offset in degrees,
// [0, 180].
func WithVibratoStereoPhase(deg float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if err := validateStereoPhase("vibrato", deg); err != nil {
			return err
		}
		cfg.phaseDeg = deg
		return nil
	}
}

// Vibrato is a fully wet modulated delay. Only the delayed signal is
// heard, so the sweep is perceived as pitch modulation.
type Vibrato struct {
	modulatedDelay
	cfg    vibratoConfig
	bypass bool
}

// NewVibrato creates a vibrato for one channel.
func NewVibrato(sampleRate float64, opts ...VibratoOption) (*Vibrato, error) {
	cfg := defaultVibratoConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return newVibrato(sampleRate, cfg, 0)
}

func newVibrato(sampleRate float64, cfg vibratoConfig, phaseRad float64) (*Vibrato, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("vibrato: %w", err)
	}
	if cfg.depthMs <= 0 {
		return &Vibrato{cfg: cfg, bypass: true}, nil
	}

	depth := core.MsToSamples(cfg.depthMs, sampleRate)
	floor := core.MsToSamples(vibratoMinDelayMs, sampleRate)
	md, err := newModulatedDelay(sampleRate, cfg.rateHz, phaseRad, depth*vibratoAverageRatio, depth, floor)
	if err != nil {
		return nil, fmt.Errorf("vibrato: %w", err)
	}
	md.wetOnly = true
	return &Vibrato{modulatedDelay: md, cfg: cfg}, nil
}

// ProcessSample processes one sample.
func (v *Vibrato) ProcessSample(x float64) float64 {
	if v.bypass {
		return x
	}
	return v.modulatedDelay.ProcessSample(x)
}

// ProcessInPlace processes buf in place.
func (v *Vibrato) ProcessInPlace(buf []float64) {
	if v.bypass {
		return
	}
	v.modulatedDelay.ProcessInPlace(buf)
}

// Reset clears the delay line and rewinds the LFO.
func (v *Vibrato) Reset() {
	if v.bypass {
		return
	}
	v.modulatedDelay.Reset()
}

// Rate returns the LFO rate in Hz.
func (v *Vibrato) Rate() float64 { return v.cfg.rateHz }

// Depth returns the modulation depth in ms.
func (v *Vibrato) Depth() float64 { return v.cfg.depthMs }

// ApplyVibrato runs a vibrato over every channel. Input is returned
// unchanged when the depth is not positive.
func ApplyVibrato(a *buffer.Audio, opts ...VibratoOption) (*buffer.Audio, error) {
	cfg := defaultVibratoConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}
	if cfg.depthMs <= 0 {
		return a.Clone(), nil
	}

	offset := degToRad(cfg.phaseDeg)
	return applyEach(a, func(ch int) (buffer.SampleProcessor, error) {
		return newVibrato(a.SampleRate(), cfg, float64(ch)*offset)
	})
}
