package reverb

import (
	"github.com/cwbudde/algo-sfx/dsp/effects"
)

// feedbackTap returns the fully wet output of a feedback delay of the given
// length over src.
func feedbackTap(src []float64, sampleRate, seconds, feedback float64) ([]float64, error) {
	d, err := effects.NewDelay(sampleRate,
		effects.WithDelayTime(seconds),
		effects.WithDelayFeedback(feedback),
		effects.WithDelayMix(1))
	if err != nil {
		return nil, err
	}

	out := append([]float64(nil), src...)
	d.ProcessInPlace(out)
	return out, nil
}
