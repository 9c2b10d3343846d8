package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultCrushBits       = 4.0
	defaultCrushDownsample = 1
	defaultCrushMix        = 1.0

	minCrushBits       = 1.0
	maxCrushBits       = 24.0
	maxCrushDownsample = 256
)

// BitCrusherOption configures a BitCrusher.
type BitCrusherOption func(*crushConfig) error

type crushConfig struct {
	bits       float64
	downsample int
	mix        float64
	reference  float64
}

// WithBitCrusherBitDepth sets the quantizer resolution in bits, [1, 24].
// Fractional depths give intermediate grids.
func WithBitCrusherBitDepth(bits float64) BitCrusherOption {
	return func(cfg *crushConfig) error {
		if err := core.ValidateRange("bit crusher bit depth", bits, minCrushBits, maxCrushBits); err != nil {
			return err
		}
		cfg.bits = bits
		return nil
	}
}

// WithBitCrusherDownsample holds every quantized value for factor samples,
// [1, 256].
func WithBitCrusherDownsample(factor int) BitCrusherOption {
	return func(cfg *crushConfig) error {
		if factor < 1 || factor > maxCrushDownsample {
			return fmt.Errorf("bit crusher downsample must be in [1, %d]: %d", maxCrushDownsample, factor)
		}
		cfg.downsample = factor
		return nil
	}
}

// WithBitCrusherMix sets the wet proportion.
func WithBitCrusherMix(mix float64) BitCrusherOption {
	return func(cfg *crushConfig) error {
		if err := validateMix("bit crusher", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithBitCrusherReference sets the level mapped to the top of the grid.
// ApplyBitCrusher always uses the signal peak.
func WithBitCrusherReference(level float64) BitCrusherOption {
	return func(cfg *crushConfig) error {
		if !core.IsFinite(level) || level <= 0 {
			return fmt.Errorf("bit crusher reference must be > 0: %f", level)
		}
		cfg.reference = level
		return nil
	}
}

// BitCrusher snaps samples to a grid of 2^(bits-1) steps per reference
// level and optionally samples-and-holds the result:
//
//	q(x) = round(x / step) * step,  step = ref / 2^(bits-1)
type BitCrusher struct {
	sampleRate float64
	bits       float64
	downsample int
	mix        float64
	step       float64

	held  float64
	phase int
}

// NewBitCrusher returns a crusher for sampleRate. The reference defaults
// to full scale.
func NewBitCrusher(sampleRate float64, opts ...BitCrusherOption) (*BitCrusher, error) {
	if err := validateSampleRate("bit crusher", sampleRate); err != nil {
		return nil, err
	}

	cfg := crushConfig{
		bits:       defaultCrushBits,
		downsample: defaultCrushDownsample,
		mix:        defaultCrushMix,
		reference:  1,
	}
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	return &BitCrusher{
		sampleRate: sampleRate,
		bits:       cfg.bits,
		downsample: cfg.downsample,
		mix:        cfg.mix,
		step:       cfg.reference / math.Exp2(cfg.bits-1),
	}, nil
}

// ProcessSample crushes one sample.
func (bc *BitCrusher) ProcessSample(x float64) float64 {
	if bc.phase == 0 {
		bc.held = math.Round(x/bc.step) * bc.step
	}
	if bc.phase++; bc.phase == bc.downsample {
		bc.phase = 0
	}
	return x + (bc.held-x)*bc.mix
}

// ProcessInPlace crushes buf in place.
func (bc *BitCrusher) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = bc.ProcessSample(x)
	}
}

// Reset clears the hold stage.
func (bc *BitCrusher) Reset() {
	bc.held = 0
	bc.phase = 0
}

// SampleRate returns the sample rate in Hz.
func (bc *BitCrusher) SampleRate() float64 { return bc.sampleRate }

// Step returns the grid spacing.
func (bc *BitCrusher) Step() float64 { return bc.step }

// ApplyBitCrusher quantizes a against its own peak over all channels.
// Silent input is returned unchanged.
func ApplyBitCrusher(a *buffer.Audio, opts ...BitCrusherOption) (*buffer.Audio, error) {
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}
	if _, err := NewBitCrusher(a.SampleRate(), opts...); err != nil {
		return nil, err
	}

	peak := a.Peak()
	if peak == 0 {
		return a.Clone(), nil
	}

	opts = append(opts[:len(opts):len(opts)], WithBitCrusherReference(peak))
	return applyEach(a, func() (buffer.SampleProcessor, error) {
		return NewBitCrusher(a.SampleRate(), opts...)
	})
}
