package modulation

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/envelope"
	"github.com/cwbudde/algo-sfx/dsp/filter/biquad"
	"github.com/cwbudde/algo-sfx/dsp/filter/design"
	"github.com/cwbudde/algo-sfx/dsp/lfo"
)

const (
	defaultAutoWahMix         = 0.7
	defaultAutoWahSensitivity = 0.8
	defaultAutoWahAttackMs    = 10.0
	defaultAutoWahReleaseMs   = 70.0
	defaultAutoWahBaseHz      = 100.0
	defaultAutoWahSweepHz     = 2000.0
	defaultAutoWahQ           = 2.0

	autoWahFilterOrder  = 2
	autoWahMinCenterHz  = 20.0
	autoWahCenterMargin = 50.0
	autoWahMinBandwidth = 10.0
	autoWahMinLowHz     = 20.0
	autoWahLowMargin    = 20.0
	autoWahHighMargin   = 10.0
	autoWahMinSpanHz    = 10.0
)

// AutoWahOption mutates auto-wah construction parameters.
type AutoWahOption func(*autoWahConfig) error

type autoWahConfig struct {
	mix         float64
	sensitivity float64
	attackMs    float64
	releaseMs   float64
	baseHz      float64
	sweepHz     float64
	q           float64
	lfoRateHz   float64
	lfoDepth    float64
}

func defaultAutoWahConfig() autoWahConfig {
	return autoWahConfig{
		mix:         defaultAutoWahMix,
		sensitivity: defaultAutoWahSensitivity,
		attackMs:    defaultAutoWahAttackMs,
		releaseMs:   defaultAutoWahReleaseMs,
		baseHz:      defaultAutoWahBaseHz,
		sweepHz:     defaultAutoWahSweepHz,
		q:           defaultAutoWahQ,
	}
}

// WithAutoWahMix sets the wet amount in [0, 1].
func WithAutoWahMix(mix float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if err := validateMix("auto-wah", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithAutoWahSensitivity sets how much the envelope, rather than the LFO,
// drives the sweep. Range [0, 1].
func WithAutoWahSensitivity(sensitivity float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if err := core.ValidateRange("auto-wah sensitivity", sensitivity, 0, 1); err != nil {
			return err
		}
		cfg.sensitivity = sensitivity
		return nil
	}
}

// WithAutoWahEnvelope sets follower attack and release in ms (>= 0).
func WithAutoWahEnvelope(attackMs, releaseMs float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if !core.IsFinite(attackMs) || attackMs < 0 {
			return fmt.Errorf("auto-wah attack must be >= 0: %f", attackMs)
		}
		if !core.IsFinite(releaseMs) || releaseMs < 0 {
			return fmt.Errorf("auto-wah release must be >= 0: %f", releaseMs)
		}
		cfg.attackMs = attackMs
		cfg.releaseMs = releaseMs
		return nil
	}
}

// WithAutoWahSweep sets the lowest center frequency and the sweep range
// above it, both in Hz.
func WithAutoWahSweep(baseHz, sweepHz float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if !core.IsFinite(baseHz) || baseHz <= 0 {
			return fmt.Errorf("auto-wah base frequency must be > 0: %f", baseHz)
		}
		if !core.IsFinite(sweepHz) || sweepHz < 0 {
			return fmt.Errorf("auto-wah sweep range must be >= 0: %f", sweepHz)
		}
		cfg.baseHz = baseHz
		cfg.sweepHz = sweepHz
		return nil
	}
}

// WithAutoWahQ sets the band-pass Q (> 0).
func WithAutoWahQ(q float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if !core.IsFinite(q) || q <= 0 {
			return fmt.Errorf("auto-wah Q must be > 0: %f", q)
		}
		cfg.q = q
		return nil
	}
}

// WithAutoWahLFO adds an LFO to the sweep. rateHz >= 0, depth in [0, 1].
func WithAutoWahLFO(rateHz, depth float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if err := validateRate("auto-wah lfo", rateHz, true); err != nil {
			return err
		}
		if err := core.ValidateRange("auto-wah lfo depth", depth, 0, 1); err != nil {
			return err
		}
		cfg.lfoRateHz = rateHz
		cfg.lfoDepth = depth
		return nil
	}
}

// AutoWah sweeps a Butterworth band-pass with a blend of the input
// envelope and an LFO:
//
//	mod    = clip(env*sens + lfo*(1-sens)*lfoDepth, 0, 1)
//	center = base + mod*sweep
//
// Filter coefficients are recomputed every sample while the filter state
// carries over. One detector drives all channels.
type AutoWah struct {
	cfg        autoWahConfig
	sampleRate float64
	env        *envelope.Follower
	osc        *lfo.Oscillator
	filters    []*biquad.Chain
	center     float64
	lo, hi     float64
}

// NewAutoWah creates an auto-wah for one channel.
func NewAutoWah(sampleRate float64, opts ...AutoWahOption) (*AutoWah, error) {
	cfg := defaultAutoWahConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return newAutoWah(sampleRate, cfg, 1)
}

func newAutoWah(sampleRate float64, cfg autoWahConfig, channels int) (*AutoWah, error) {
	env, err := envelope.NewFollower(sampleRate, cfg.attackMs, cfg.releaseMs)
	if err != nil {
		return nil, fmt.Errorf("auto-wah: %w", err)
	}
	osc, err := lfo.New(sampleRate, cfg.lfoRateHz, lfo.Sine, 0)
	if err != nil {
		return nil, fmt.Errorf("auto-wah: %w", err)
	}

	w := &AutoWah{cfg: cfg, sampleRate: sampleRate, env: env, osc: osc}
	initial, gain := w.bandPass(cfg.baseHz)
	if initial == nil {
		return nil, fmt.Errorf("auto-wah: no valid band-pass at %g Hz for sample rate %g", cfg.baseHz, sampleRate)
	}
	w.filters = make([]*biquad.Chain, channels)
	for ch := range w.filters {
		w.filters[ch] = biquad.NewChain(initial, biquad.WithGain(gain))
	}
	return w, nil
}

// bandPass designs the band around center with the edge guards applied.
// The high-pass/low-pass cascade sags below unity in a narrow band, so the
// returned gain restores 0 dB at the geometric center of the edges.
func (w *AutoWah) bandPass(center float64) ([]biquad.Coefficients, float64) {
	nyquist := w.sampleRate / 2
	center = core.Clamp(center, autoWahMinCenterHz, nyquist-autoWahCenterMargin)
	bw := math.Max(center/w.cfg.q, autoWahMinBandwidth)

	lo := core.Clamp(center-bw/2, autoWahMinLowHz, nyquist-autoWahLowMargin)
	hi := core.Clamp(center+bw/2, lo+autoWahMinSpanHz, nyquist-autoWahHighMargin)
	w.center, w.lo, w.hi = center, lo, hi

	coeffs := design.ButterworthBP(lo, hi, autoWahFilterOrder, w.sampleRate)
	if coeffs == nil {
		return nil, 0
	}

	mid := math.Sqrt(lo * hi)
	mag := 1.0
	for i := range coeffs {
		mag *= cmplx.Abs(coeffs[i].Response(mid, w.sampleRate))
	}
	if mag == 0 {
		return coeffs, 1
	}
	return coeffs, 1 / mag
}

// Detect advances the envelope and LFO with one rectified level and
// retunes every channel's filter.
func (w *AutoWah) Detect(level float64) {
	env := w.env.Process(level)
	mod := core.Clamp(env*w.cfg.sensitivity+w.osc.Next()*(1-w.cfg.sensitivity)*w.cfg.lfoDepth, 0, 1)

	coeffs, gain := w.bandPass(w.cfg.baseHz + mod*w.cfg.sweepHz)
	if coeffs == nil {
		return
	}
	for _, f := range w.filters {
		f.UpdateCoefficients(coeffs, gain)
	}
}

// Apply filters one sample of channel ch and mixes it with the dry input.
func (w *AutoWah) Apply(ch int, x float64) float64 {
	wet := w.filters[ch].ProcessSample(x)
	return x*(1-w.cfg.mix) + wet*w.cfg.mix
}

// ProcessSample processes one mono sample.
func (w *AutoWah) ProcessSample(x float64) float64 {
	w.Detect(math.Abs(x))
	return w.Apply(0, x)
}

// ProcessInPlace processes buf in place.
func (w *AutoWah) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = w.ProcessSample(x)
	}
}

// Reset clears envelope and filter state and rewinds the LFO.
func (w *AutoWah) Reset() {
	w.env.Reset()
	w.osc.Reset()
	for _, f := range w.filters {
		f.Reset()
	}
}

// Center returns the most recent band center in Hz.
func (w *AutoWah) Center() float64 { return w.center }

// ApplyAutoWah runs the auto-wah with one envelope linked across channels.
func ApplyAutoWah(a *buffer.Audio, opts ...AutoWahOption) (*buffer.Audio, error) {
	cfg := defaultAutoWahConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	out, err := buffer.ProcessLinked(a, buffer.Linked, func(channels int) (buffer.FrameProcessor, error) {
		return newAutoWah(a.SampleRate(), cfg, channels)
	})
	if err != nil {
		return nil, err
	}
	out.ClipInPlace(outputBound)
	return out, nil
}
