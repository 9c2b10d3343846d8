package effects

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

// ErrUnimplementedParam is returned when a parameter is accepted by name but
// its processing is not available. Neutral values are always accepted.
var ErrUnimplementedParam = errors.New("effects: parameter not implemented")

// outputBound is the exit clip level for every Apply function.
const outputBound = 1.0

// applyEach runs one fresh processor per channel and clips the result.
func applyEach(a *buffer.Audio, build func() (buffer.SampleProcessor, error)) (*buffer.Audio, error) {
	out, err := buffer.ProcessEach(a, func(int) (buffer.SampleProcessor, error) {
		return build()
	})
	if err != nil {
		return nil, err
	}

	out.ClipInPlace(outputBound)
	return out, nil
}

func validateMix(effect string, mix float64) error {
	return core.ValidateRange(effect+" mix", mix, 0, 1)
}

func validateSampleRate(effect string, sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("%s: %w", effect, err)
	}
	return nil
}
