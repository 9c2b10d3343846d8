package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/lfo"
)

const (
	defaultPhaserRateHz    = 0.5
	defaultPhaserDepth     = 0.8
	defaultPhaserStages    = 4
	defaultPhaserFeedback  = 0.3
	defaultPhaserMix       = 0.5
	defaultPhaserSpreadDeg = 30.0

	minPhaserStages = 1
	maxPhaserStages = 12

	// Allpass coefficient sweeps from phaserMinCoeff up to
	// phaserMinCoeff + phaserCoeffRange*depth.
	phaserMinCoeff   = 0.1
	phaserCoeffRange = 0.6
)

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*phaserConfig) error

type phaserConfig struct {
	rateHz    float64
	depth     float64
	stages    int
	feedback  float64
	mix       float64
	spreadDeg float64
}

func defaultPhaserConfig() phaserConfig {
	return phaserConfig{
		rateHz:    defaultPhaserRateHz,
		depth:     defaultPhaserDepth,
		stages:    defaultPhaserStages,
		feedback:  defaultPhaserFeedback,
		mix:       defaultPhaserMix,
		spreadDeg: defaultPhaserSpreadDeg,
	}
}

// WithPhaserRate sets the LFO rate in Hz (> 0).
func WithPhaserRate(hz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := validateRate("phaser", hz, false); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithPhaserDepth sets the sweep depth in [0, 1].
func WithPhaserDepth(depth float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := core.ValidateRange("phaser depth", depth, 0, 1); err != nil {
			return err
		}
		cfg.depth = depth
		return nil
	}
}

// WithPhaserStages sets the allpass stage count in [1, 12].
func WithPhaserStages(stages int) PhaserOption {
	return func(cfg *phaserConfig) error {
		if stages < minPhaserStages || stages > maxPhaserStages {
			return fmt.Errorf("phaser stages must be in [%d, %d]: %d", minPhaserStages, maxPhaserStages, stages)
		}
		cfg.stages = stages
		return nil
	}
}

// WithPhaserFeedback sets the feedback gain in [0, 1).
func WithPhaserFeedback(feedback float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := core.ValidateFeedback("phaser feedback", feedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithPhaserMix sets the wet amount in [0, 1].
func WithPhaserMix(mix float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := validateMix("phaser", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithPhaserStereoSpread sets the right channel's LFO offset in degrees,
// [0, 180].
func WithPhaserStereoSpread(deg float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := validateStereoPhase("phaser", deg); err != nil {
			return err
		}
		cfg.spreadDeg = deg
		return nil
	}
}

// Phaser is a cascade of first-order allpass sections sharing one
// LFO-driven coefficient. Each section computes
//
//	y = -a*x + z
//	z = y*a + x
//
// and the cascade output is fed back into its input.
type Phaser struct {
	cfg  phaserConfig
	osc  *lfo.Oscillator
	z    []float64
	last float64
}

// NewPhaser creates a phaser for one channel.
func NewPhaser(sampleRate float64, opts ...PhaserOption) (*Phaser, error) {
	cfg := defaultPhaserConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return newPhaser(sampleRate, cfg, 0)
}

func newPhaser(sampleRate float64, cfg phaserConfig, phaseRad float64) (*Phaser, error) {
	osc, err := lfo.New(sampleRate, cfg.rateHz, lfo.Sine, phaseRad)
	if err != nil {
		return nil, fmt.Errorf("phaser: %w", err)
	}
	return &Phaser{cfg: cfg, osc: osc, z: make([]float64, cfg.stages)}, nil
}

// ProcessSample processes one sample.
func (p *Phaser) ProcessSample(x float64) float64 {
	a := phaserMinCoeff + p.osc.Next()*phaserCoeffRange*p.cfg.depth

	y := x + p.last*p.cfg.feedback
	for i, z := range p.z {
		out := -a*y + z
		p.z[i] = out*a + y
		y = out
	}
	p.last = y

	return x*(1-p.cfg.mix) + y*p.cfg.mix
}

// ProcessInPlace processes buf in place.
func (p *Phaser) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = p.ProcessSample(x)
	}
}

// Reset clears allpass and feedback state and rewinds the LFO.
func (p *Phaser) Reset() {
	clear(p.z)
	p.last = 0
	p.osc.Reset()
}

// Stages returns the allpass stage count.
func (p *Phaser) Stages() int { return p.cfg.stages }

// Depth returns the sweep depth.
func (p *Phaser) Depth() float64 { return p.cfg.depth }

// Mix returns the wet amount.
func (p *Phaser) Mix() float64 { return p.cfg.mix }

// ApplyPhaser runs a phaser over every channel.
func ApplyPhaser(a *buffer.Audio, opts ...PhaserOption) (*buffer.Audio, error) {
	cfg := defaultPhaserConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	offset := degToRad(cfg.spreadDeg)
	return applyEach(a, func(ch int) (buffer.SampleProcessor, error) {
		return newPhaser(a.SampleRate(), cfg, float64(ch)*offset)
	})
}
