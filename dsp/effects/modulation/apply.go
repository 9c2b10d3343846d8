package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/delay"
	"github.com/cwbudde/algo-sfx/dsp/lfo"
)

const outputBound = 1.0

// applyEach runs one fresh processor per channel and clips the result.
func applyEach(a *buffer.Audio, build func(ch int) (buffer.SampleProcessor, error)) (*buffer.Audio, error) {
	out, err := buffer.ProcessEach(a, build)
	if err != nil {
		return nil, err
	}
	out.ClipInPlace(outputBound)
	return out, nil
}

func validateMix(effect string, mix float64) error {
	return core.ValidateRange(effect+" mix", mix, 0, 1)
}

func validateStereoPhase(effect string, deg float64) error {
	return core.ValidateRange(effect+" stereo phase", deg, 0, 180)
}

func validateRate(effect string, hz float64, allowZero bool) error {
	if !core.IsFinite(hz) || hz < 0 || (!allowZero && hz == 0) {
		if allowZero {
			return fmt.Errorf("%s rate must be >= 0: %f", effect, hz)
		}
		return fmt.Errorf("%s rate must be > 0: %f", effect, hz)
	}
	return nil
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

// modulatedDelay is a delay line read at avg + depth*lfo samples, floored
// at minDelay. The line input is x plus the delayed sample scaled by
// feedback.
type modulatedDelay struct {
	line     *delay.Line
	osc      *lfo.Oscillator
	avg      float64
	depth    float64
	minDelay float64
	feedback float64
	mix      float64
	wetOnly  bool
}

func newModulatedDelay(sampleRate, rateHz, phaseRad, avg, depth, minDelay float64) (modulatedDelay, error) {
	line, err := delay.NewForDelay(math.Max(avg+depth, minDelay))
	if err != nil {
		return modulatedDelay{}, err
	}
	osc, err := lfo.New(sampleRate, rateHz, lfo.Sine, phaseRad)
	if err != nil {
		return modulatedDelay{}, err
	}
	return modulatedDelay{line: line, osc: osc, avg: avg, depth: depth, minDelay: minDelay}, nil
}

func (m *modulatedDelay) ProcessSample(x float64) float64 {
	d := math.Max(m.minDelay, m.avg+m.depth*m.osc.NextBipolar())
	wet := m.line.ReadLinear(d)
	m.line.Write(x + wet*m.feedback)
	if m.wetOnly {
		return wet
	}
	return x*(1-m.mix) + wet*m.mix
}

func (m *modulatedDelay) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = m.ProcessSample(x)
	}
}

func (m *modulatedDelay) Reset() {
	m.line.Reset()
	m.osc.Reset()
}
