package reverb

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultLongDecaySeconds = 2.0
	defaultLongMix          = 0.4
	defaultLongDiffusion    = 0.7
	defaultLongSeed         = 1

	longFeedbackBase      = 0.6
	longFeedbackDiffusion = 0.2
	longFeedbackMax       = 0.95
	longJitter            = 0.1

	panNear = 0.8
	panFar  = 0.2
)

var longTapRatios = [...]float64{0.0297, 0.0371, 0.0411, 0.0437, 0.0533, 0.0677}

// LongOption mutates long reverb parameters.
type LongOption func(*longConfig) error

type longConfig struct {
	decaySeconds float64
	mix          float64
	diffusion    float64
	seed         int64
}

func defaultLongConfig() longConfig {
	return longConfig{
		decaySeconds: defaultLongDecaySeconds,
		mix:          defaultLongMix,
		diffusion:    defaultLongDiffusion,
		seed:         defaultLongSeed,
	}
}

// WithLongDecay sets the decay time in seconds (> 0).
func WithLongDecay(seconds float64) LongOption {
	return func(cfg *longConfig) error {
		if !core.IsFinite(seconds) || seconds <= 0 {
			return fmt.Errorf("long reverb decay must be > 0: %f", seconds)
		}
		cfg.decaySeconds = seconds
		return nil
	}
}

// WithLongMix sets the wet amount in [0, 1].
func WithLongMix(mix float64) LongOption {
	return func(cfg *longConfig) error {
		if err := core.ValidateRange("long reverb mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithLongDiffusion sets how far tap times and feedbacks are spread, in
// [0, 1].
func WithLongDiffusion(diffusion float64) LongOption {
	return func(cfg *longConfig) error {
		if err := core.ValidateRange("long reverb diffusion", diffusion, 0, 1); err != nil {
			return err
		}
		cfg.diffusion = diffusion
		return nil
	}
}

// WithLongSeed seeds the tap jitter.
func WithLongSeed(seed int64) LongOption {
	return func(cfg *longConfig) error {
		cfg.seed = seed
		return nil
	}
}

type longTap struct {
	seconds  float64
	feedback float64
}

// longTaps draws all tap times first and then all feedbacks from one seeded
// source.
func longTaps(cfg longConfig) []longTap {
	rng := rand.New(rand.NewSource(cfg.seed))
	taps := make([]longTap, len(longTapRatios))
	for i, ratio := range longTapRatios {
		jitter := (rng.Float64() - 0.5) * longJitter * cfg.diffusion
		taps[i].seconds = ratio * cfg.decaySeconds * (1 + jitter)
	}
	for i := range taps {
		fb := longFeedbackBase + longFeedbackDiffusion*cfg.diffusion + (rng.Float64()-0.5)*longJitter
		taps[i].feedback = math.Min(fb, longFeedbackMax)
	}
	return taps
}

// ApplyLong adds a long hall: six jittered feedback echoes. On stereo input
// even taps lean left and odd taps lean right. The summed wet signal is
// normalized to full scale and then scaled by 1/sqrt(6).
func ApplyLong(a *buffer.Audio, opts ...LongOption) (*buffer.Audio, error) {
	cfg := defaultLongConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}

	taps := longTaps(cfg)
	stereo := a.Channels() == 2

	wet := a.NewLike()

	for i, tap := range taps {
		for ch := 0; ch < a.Channels(); ch++ {
			out, err := feedbackTap(a.Channel(ch), a.SampleRate(), tap.seconds, tap.feedback)
			if err != nil {
				return nil, fmt.Errorf("long reverb: %w", err)
			}
			gain := 1.0
			if stereo {
				gain = tapPan(i, ch)
			}
			dst := wet.Channel(ch)
			for j, v := range out {
				dst[j] += v * gain
			}
		}
	}

	wet.NormalizeInPlace(1)
	wet.Scale(1 / math.Sqrt(float64(len(taps))))

	return mixWet(a, wet, cfg.mix), nil
}

// tapPan returns the stereo gain of tap i on channel ch.
func tapPan(i, ch int) float64 {
	leansLeft := i%2 == 0
	if (ch == 0) == leansLeft {
		return panNear
	}
	return panFar
}
