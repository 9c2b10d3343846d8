// Package onepole provides the one-pole low-pass used for parameter
// smoothing and feedback-path damping.
package onepole

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/core"
)

// LowPass computes y = alpha*x + (1-alpha)*y1.
type LowPass struct {
	alpha float64
	y1    float64
}

// NewLowPass returns a smoother with alpha in (0, 1]. alpha == 1 passes the
// input unchanged.
func NewLowPass(alpha float64) (*LowPass, error) {
	if !core.IsFinite(alpha) || alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("one-pole alpha must be in (0, 1]: %f", alpha)
	}
	return &LowPass{alpha: alpha}, nil
}

// NewLowPassHz derives alpha = 1 - exp(-2*pi*fc/sr) from a cutoff.
func NewLowPassHz(cutoffHz, sampleRate float64) (*LowPass, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("one-pole: %w", err)
	}
	if !core.IsFinite(cutoffHz) || cutoffHz <= 0 {
		return nil, fmt.Errorf("one-pole cutoff must be > 0: %f", cutoffHz)
	}
	return NewLowPass(1 - math.Exp(-2*math.Pi*cutoffHz/sampleRate))
}

// Alpha returns the smoothing coefficient.
func (f *LowPass) Alpha() float64 { return f.alpha }

// Process filters one sample.
func (f *LowPass) Process(x float64) float64 {
	f.y1 = f.alpha*x + (1-f.alpha)*f.y1
	return f.y1
}

// ProcessInPlace filters buf in place.
func (f *LowPass) ProcessInPlace(buf []float64) {
	a, y := f.alpha, f.y1
	for i, x := range buf {
		y = a*x + (1-a)*y
		buf[i] = y
	}
	f.y1 = y
}

// Reset clears the state.
func (f *LowPass) Reset() { f.y1 = 0 }
