package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/lfo"
)

const (
	defaultTremoloRateHz = 5.0
	defaultTremoloDepth  = 0.8
)

// TremoloOption mutates tremolo construction parameters.
type TremoloOption func(*tremoloConfig) error

type tremoloConfig struct {
	rateHz   float64
	depth    float64
	shape    lfo.Shape
	phaseDeg float64
}

func defaultTremoloConfig() tremoloConfig {
	return tremoloConfig{rateHz: defaultTremoloRateHz, depth: defaultTremoloDepth, shape: lfo.Sine}
}

// WithTremoloRate sets the LFO rate in Hz (>= 0).
func WithTremoloRate(hz float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := validateRate("tremolo", hz, true); err != nil {
			return err
		}
		cfg.rateHz = hz
		return nil
	}
}

// WithTremoloDepth sets the modulation depth in [0, 1].
func WithTremoloDepth(depth float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := core.ValidateRange("tremolo depth", depth, 0, 1); err != nil {
			return err
		}
		cfg.depth = depth
		return nil
	}
}

// WithTremoloShape selects the LFO waveform by name ("sine", "triangle"
// or "square").
func WithTremoloShape(name string) TremoloOption {
	return func(cfg *tremoloConfig) error {
		shape, err := lfo.ParseShape(name)
		if err != nil {
			return fmt.Errorf("tremolo: %w", err)
		}
		cfg.shape = shape
		return nil
	}
}

// WithTremoloStereoPhase sets the right channel's LFO offset in degrees,
// [0, 180].
func WithTremoloStereoPhase(deg float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := validateStereoPhase("tremolo", deg); err != nil {
			return err
		}
		cfg.phaseDeg = deg
		return nil
	}
}

// Tremolo scales the input by (1-depth) + depth*lfo, with lfo in [0, 1].
type Tremolo struct {
	cfg tremoloConfig
	osc *lfo.Oscillator
}

// NewTremolo creates a tremolo for one channel.
func NewTremolo(sampleRate float64, opts ...TremoloOption) (*Tremolo, error) {
	cfg := defaultTremoloConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return newTremolo(sampleRate, cfg, 0)
}

func newTremolo(sampleRate float64, cfg tremoloConfig, phaseRad float64) (*Tremolo, error) {
	osc, err := lfo.New(sampleRate, cfg.rateHz, cfg.shape, phaseRad)
	if err != nil {
		return nil, fmt.Errorf("tremolo: %w", err)
	}
	return &Tremolo{cfg: cfg, osc: osc}, nil
}

// ProcessSample processes one sample.
func (t *Tremolo) ProcessSample(x float64) float64 {
	return x * ((1 - t.cfg.depth) + t.cfg.depth*t.osc.Next())
}

// ProcessInPlace processes buf in place.
func (t *Tremolo) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = t.ProcessSample(x)
	}
}

// Reset rewinds the LFO.
func (t *Tremolo) Reset() { t.osc.Reset() }

// Shape returns the LFO waveform.
func (t *Tremolo) Shape() lfo.Shape { return t.cfg.shape }

// Depth returns the modulation depth.
func (t *Tremolo) Depth() float64 { return t.cfg.depth }

// ApplyTremolo runs a tremolo over every channel.
func ApplyTremolo(a *buffer.Audio, opts ...TremoloOption) (*buffer.Audio, error) {
	cfg := defaultTremoloConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	offset := degToRad(cfg.phaseDeg)
	return applyEach(a, func(ch int) (buffer.SampleProcessor, error) {
		return newTremolo(a.SampleRate(), cfg, float64(ch)*offset)
	})
}
