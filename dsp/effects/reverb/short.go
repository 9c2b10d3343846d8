package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultShortDecaySeconds = 0.2
	defaultShortMix          = 0.3
)

var (
	shortTapRatios    = [...]float64{0.05, 0.07, 0.09, 0.11}
	shortTapFeedbacks = [...]float64{0.25, 0.2, 0.15, 0.1}
)

// ShortOption mutates short reverb parameters.
type ShortOption func(*shortConfig) error

type shortConfig struct {
	decaySeconds float64
	mix          float64
}

func defaultShortConfig() shortConfig {
	return shortConfig{
		decaySeconds: defaultShortDecaySeconds,
		mix:          defaultShortMix,
	}
}

// WithShortDecay sets the decay time in seconds (> 0).
func WithShortDecay(seconds float64) ShortOption {
	return func(cfg *shortConfig) error {
		if !core.IsFinite(seconds) || seconds <= 0 {
			return fmt.Errorf("short reverb decay must be > 0: %f", seconds)
		}
		cfg.decaySeconds = seconds
		return nil
	}
}

// WithShortMix sets the wet amount in [0, 1].
func WithShortMix(mix float64) ShortOption {
	return func(cfg *shortConfig) error {
		if err := core.ValidateRange("short reverb mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// ApplyShort adds a short room: four feedback echoes at 5, 7, 9 and 11 % of
// the decay time, averaged. The wet signal is normalized only when it would
// exceed full scale.
func ApplyShort(a *buffer.Audio, opts ...ShortOption) (*buffer.Audio, error) {
	cfg := defaultShortConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}

	wet := a.NewLike()
	for ch := 0; ch < a.Channels(); ch++ {
		src := a.Channel(ch)
		sum := wet.Channel(ch)
		for i, ratio := range shortTapRatios {
			tap, err := feedbackTap(src, a.SampleRate(), cfg.decaySeconds*ratio, shortTapFeedbacks[i])
			if err != nil {
				return nil, fmt.Errorf("short reverb: %w", err)
			}
			for j, v := range tap {
				sum[j] += v / float64(len(shortTapRatios))
			}
		}
	}

	if wet.Peak() > 1 {
		wet.NormalizeInPlace(1)
	}

	return mixWet(a, wet, cfg.mix), nil
}

// mixWet returns dry*(1-mix) + wet*mix clipped to full scale.
func mixWet(a, wet *buffer.Audio, mix float64) *buffer.Audio {
	out := a.NewLike()
	for ch := 0; ch < a.Channels(); ch++ {
		dry, w := a.Channel(ch), wet.Channel(ch)
		dst := out.Channel(ch)
		for i := range dst {
			dst[i] = dry[i]*(1-mix) + w[i]*mix
		}
	}
	out.ClipInPlace(1)
	return out
}
