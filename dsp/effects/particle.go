package effects

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/window"
)

const (
	defaultParticleGrainMs = 50.0
	defaultParticleDensity = 10.0
	defaultParticleMix     = 0.5
	defaultParticleSeed    = 1

	maxParticleRandomPct = 100.0
)

// ErrUnknownQuantize is returned for an unrecognized pitch quantize mode.
var ErrUnknownQuantize = errors.New("effects: unknown pitch quantize mode")

// QuantizeMode snaps per-grain pitch offsets.
type QuantizeMode int

const (
	QuantizeFree QuantizeMode = iota
	QuantizeSemitone
	QuantizeOctave
)

func (m QuantizeMode) String() string {
	switch m {
	case QuantizeFree:
		return "free"
	case QuantizeSemitone:
		return "semitone"
	case QuantizeOctave:
		return "octave"
	default:
		return fmt.Sprintf("QuantizeMode(%d)", int(m))
	}
}

// ParseQuantizeMode maps "free", "semitone" or "octave" to a QuantizeMode.
func ParseQuantizeMode(s string) (QuantizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free", "":
		return QuantizeFree, nil
	case "semitone":
		return QuantizeSemitone, nil
	case "octave":
		return QuantizeOctave, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuantize, s)
	}
}

func (m QuantizeMode) apply(semitones float64) float64 {
	switch m {
	case QuantizeSemitone:
		return math.Round(semitones)
	case QuantizeOctave:
		return math.Round(semitones/12) * 12
	default:
		return semitones
	}
}

// ParticleOption mutates particle parameters.
type ParticleOption func(*particleConfig) error

type particleConfig struct {
	grainMs     float64
	density     float64
	pitch       float64
	quantize    QuantizeMode
	randomPct   float64
	reverseProb float64
	mix         float64
	seed        int64
}

func defaultParticleConfig() particleConfig {
	return particleConfig{
		grainMs:  defaultParticleGrainMs,
		density:  defaultParticleDensity,
		quantize: QuantizeFree,
		mix:      defaultParticleMix,
		seed:     defaultParticleSeed,
	}
}

// WithParticleGrainSize sets the grain length in ms (> 0).
func WithParticleGrainSize(ms float64) ParticleOption {
	return func(cfg *particleConfig) error {
		if !core.IsFinite(ms) || ms <= 0 {
			return fmt.Errorf("particle grain size must be > 0: %f", ms)
		}
		cfg.grainMs = ms
		return nil
	}
}

// WithParticleDensity sets grains per second (> 0).
func WithParticleDensity(density float64) ParticleOption {
	return func(cfg *particleConfig) error {
		if !core.IsFinite(density) || density <= 0 {
			return fmt.Errorf("particle density must be > 0: %f", density)
		}
		cfg.density = density
		return nil
	}
}

// WithParticlePitch sets the base grain shift in semitones.
func WithParticlePitch(semitones float64) ParticleOption {
	return func(cfg *particleConfig) error {
		if !core.IsFinite(semitones) {
			return fmt.Errorf("particle pitch must be finite: %f", semitones)
		}
		cfg.pitch = semitones
		return nil
	}
}

// WithParticleQuantize sets the pitch quantize mode.
func WithParticleQuantize(mode QuantizeMode) ParticleOption {
	return func(cfg *particleConfig) error {
		if mode < QuantizeFree || mode > QuantizeOctave {
			return fmt.Errorf("%w: %v", ErrUnknownQuantize, mode)
		}
		cfg.quantize = mode
		return nil
	}
}

// WithParticlePitchRandom sets per-grain pitch randomization in percent of
// an octave, [0, 100].
func WithParticlePitchRandom(pct float64) ParticleOption {
	return func(cfg *particleConfig) error {
		if err := core.ValidateRange("particle pitch randomization", pct, 0, maxParticleRandomPct); err != nil {
			return err
		}
		cfg.randomPct = pct
		return nil
	}
}

// WithParticleReverse sets the probability that a grain plays backwards.
func WithParticleReverse(prob float64) ParticleOption {
	return func(cfg *particleConfig) error {
		if err := core.ValidateRange("particle reverse probability", prob, 0, 1); err != nil {
			return err
		}
		cfg.reverseProb = prob
		return nil
	}
}

// WithParticleMix sets the wet amount in [0, 1].
func WithParticleMix(mix float64) ParticleOption {
	return func(cfg *particleConfig) error {
		if err := validateMix("particle", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithParticleSeed seeds the grain randomizer.
func WithParticleSeed(seed int64) ParticleOption {
	return func(cfg *particleConfig) error {
		cfg.seed = seed
		return nil
	}
}

// WithParticleDelay is not supported; any non-zero delay is rejected.
func WithParticleDelay(ms float64) ParticleOption {
	return unimplementedParticle("delay", ms != 0)
}

// WithParticleFeedback is not supported; any non-zero amount is rejected.
func WithParticleFeedback(amount float64) ParticleOption {
	return unimplementedParticle("feedback", amount != 0)
}

// WithParticleLFO is not supported; any non-zero modulation depth is
// rejected.
func WithParticleLFO(rateHz, pitchDepthSt, delayDepthMs, positionDepthPct float64) ParticleOption {
	return unimplementedParticle("lfo", pitchDepthSt != 0 || delayDepthMs != 0 || positionDepthPct != 0)
}

// WithParticleFreeze is not supported; enabling it is rejected.
func WithParticleFreeze(active bool) ParticleOption {
	return unimplementedParticle("freeze", active)
}

func unimplementedParticle(name string, set bool) ParticleOption {
	return func(*particleConfig) error {
		if set {
			return fmt.Errorf("%w: particle %s", ErrUnimplementedParam, name)
		}
		return nil
	}
}

type particleGrain struct {
	onset   int
	ratio   float64
	reverse bool
}

// scheduleGrains draws the per-grain randomness once so every channel
// renders the same grains.
func (cfg particleConfig) scheduleGrains(frames, interval int) []particleGrain {
	rng := rand.New(rand.NewSource(cfg.seed))

	grains := make([]particleGrain, 0, frames/interval+1)
	for onset := 0; onset < frames; onset += interval {
		reverse := rng.Float64() < cfg.reverseProb
		offset := (rng.Float64()*2 - 1) * cfg.randomPct / 100 * 12
		semitones := cfg.quantize.apply(cfg.pitch + offset)
		grains = append(grains, particleGrain{
			onset:   onset,
			ratio:   math.Exp2(semitones / 12),
			reverse: reverse,
		})
	}
	return grains
}

// render overlap-adds the scheduled grains of x into dst.
func (g particleGrain) render(dst, x, win, scratch, shifted []float64) error {
	n := len(win)
	for i := range scratch {
		scratch[i] = 0
	}
	if g.onset < len(x) {
		copy(scratch, x[g.onset:min(g.onset+n, len(x))])
	}
	if g.reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			scratch[i], scratch[j] = scratch[j], scratch[i]
		}
	}

	for j := range shifted {
		pos := float64(j) * g.ratio
		i0 := int(pos)
		switch {
		case i0 >= n-1:
			if i0 == n-1 && pos == float64(i0) {
				shifted[j] = scratch[i0]
			} else {
				shifted[j] = 0
			}
		default:
			frac := pos - float64(i0)
			shifted[j] = scratch[i0] + (scratch[i0+1]-scratch[i0])*frac
		}
	}
	if err := window.Apply(shifted, win); err != nil {
		return fmt.Errorf("particle grain at %d: %w", g.onset, err)
	}

	for j, v := range shifted {
		k := g.onset + j
		if k >= len(dst) {
			break
		}
		dst[k] += v
	}
	return nil
}

// ApplyParticle chops the input into grains at a fixed inter-onset
// interval of sr/density, optionally reverses and pitch-shifts each grain,
// applies a Hann window and overlap-adds the result.
//
// Grain delay, feedback, LFO modulation and freeze are not implemented;
// their options fail with ErrUnimplementedParam when set.
func ApplyParticle(a *buffer.Audio, opts ...ParticleOption) (*buffer.Audio, error) {
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}

	cfg := defaultParticleConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	sr := a.SampleRate()
	interval := max(1, int(math.Round(sr/cfg.density)))
	grainLen := max(1, int(math.Round(cfg.grainMs*sr/1000)))

	win, err := window.Hann(grainLen)
	if err != nil {
		return nil, err
	}

	grains := cfg.scheduleGrains(a.Frames(), interval)
	scratch := make([]float64, grainLen)
	shifted := make([]float64, grainLen)

	out := a.NewLike()
	for ch := 0; ch < a.Channels(); ch++ {
		dry := a.Channel(ch)
		wet := make([]float64, len(dry))
		for _, g := range grains {
			if err := g.render(wet, dry, win, scratch, shifted); err != nil {
				return nil, err
			}
		}

		dst := out.Channel(ch)
		for i := range dst {
			dst[i] = dry[i]*(1-cfg.mix) + wet[i]*cfg.mix
		}
	}

	out.ClipInPlace(outputBound)
	return out, nil
}
