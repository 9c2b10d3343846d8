// Package lfo provides the low-frequency oscillators that drive modulation
// effects.
package lfo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-sfx/dsp/core"
)

// ErrUnknownShape is returned by ParseShape for unsupported names.
var ErrUnknownShape = errors.New("lfo: unknown shape")

// Shape identifies an LFO waveform.
type Shape int

const (
	Sine Shape = iota
	Triangle
	Square
)

// String returns the canonical shape name.
func (s Shape) String() string {
	switch s {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape resolves a case-insensitive shape name.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, nil
	case "triangle", "tri":
		return Triangle, nil
	case "square", "sq":
		return Square, nil
	default:
		return 0, fmt.Errorf("%w: %q (choose sine, triangle or square)", ErrUnknownShape, name)
	}
}

// Value evaluates the bipolar waveform at a position measured in cycles.
// All shapes start at zero and rise, so Sine.Value(c) == sin(2*pi*c).
func (s Shape) Value(cycle float64) float64 {
	c := cycle - math.Floor(cycle)
	switch s {
	case Triangle:
		u := c + 0.25
		u -= math.Floor(u)
		return 1 - 4*math.Abs(u-0.5)
	case Square:
		if c < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * c)
	}
}

// Oscillator is a free-running LFO.
type Oscillator struct {
	shape      Shape
	inc        float64
	phase      float64
	startPhase float64
}

// New returns an oscillator at rateHz whose initial phase is phaseRad.
// A zero rate yields a constant output.
func New(sampleRate, rateHz float64, shape Shape, phaseRad float64) (*Oscillator, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("lfo: %w", err)
	}
	if rateHz < 0 || !core.IsFinite(rateHz) {
		return nil, fmt.Errorf("lfo rate must be >= 0 and finite: %f", rateHz)
	}
	if !core.IsFinite(phaseRad) {
		return nil, fmt.Errorf("lfo phase must be finite: %f", phaseRad)
	}
	if shape < Sine || shape > Square {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(shape))
	}

	start := phaseRad / (2 * math.Pi)
	start -= math.Floor(start)

	return &Oscillator{
		shape:      shape,
		inc:        rateHz / sampleRate,
		phase:      start,
		startPhase: start,
	}, nil
}

// NextBipolar returns the current value in [-1, 1] and advances one sample.
func (o *Oscillator) NextBipolar() float64 {
	v := o.shape.Value(o.phase)
	o.phase += o.inc
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return v
}

// Next returns the current value mapped to [0, 1] and advances one sample.
func (o *Oscillator) Next() float64 {
	return 0.5 * (o.NextBipolar() + 1)
}

// Shape returns the waveform.
func (o *Oscillator) Shape() Shape { return o.shape }

// Reset rewinds to the initial phase.
func (o *Oscillator) Reset() { o.phase = o.startPhase }
