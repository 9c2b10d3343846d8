package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultDistortionDrive = 0.5
	defaultDistortionMix   = 1.0
	distortionMaxGain      = 9.0
	distortionClipLevel    = 0.8

	defaultOverdriveDrive = 0.5
	defaultOverdriveTone  = 0.5
	defaultOverdriveMix   = 1.0
	overdriveMaxGain      = 5.0
	overdriveToneNeutral  = 0.5
	overdriveToneScale    = 0.8
)

// DistortionOption mutates distortion construction parameters.
type DistortionOption func(*distortionConfig) error

type distortionConfig struct {
	drive float64
	mix   float64
}

func defaultDistortionConfig() distortionConfig {
	return distortionConfig{drive: defaultDistortionDrive, mix: defaultDistortionMix}
}

// WithDistortionDrive sets the drive in [0, 1]; input gain is 1+9*drive.
func WithDistortionDrive(drive float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := core.ValidateRange("distortion drive", drive, 0, 1); err != nil {
			return err
		}
		cfg.drive = drive
		return nil
	}
}

// WithDistortionMix sets the wet amount in [0, 1].
func WithDistortionMix(mix float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validateMix("distortion", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// Distortion is a hard clipper at ±0.8 after a drive gain.
type Distortion struct {
	cfg  distortionConfig
	gain float64
}

// NewDistortion returns a hard-clip distortion.
func NewDistortion(opts ...DistortionOption) (*Distortion, error) {
	cfg := defaultDistortionConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return &Distortion{cfg: cfg, gain: 1 + cfg.drive*distortionMaxGain}, nil
}

// ProcessSample processes one sample.
func (d *Distortion) ProcessSample(x float64) float64 {
	wet := core.Clamp(x*d.gain, -distortionClipLevel, distortionClipLevel)
	return x*(1-d.cfg.mix) + wet*d.cfg.mix
}

// ProcessInPlace processes buf in place.
func (d *Distortion) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// Reset is a no-op; the clipper is stateless.
func (d *Distortion) Reset() {}

// Drive returns the drive amount.
func (d *Distortion) Drive() float64 { return d.cfg.drive }

// Mix returns the wet amount.
func (d *Distortion) Mix() float64 { return d.cfg.mix }

// ApplyDistortion hard-clips every channel of a.
func ApplyDistortion(a *buffer.Audio, opts ...DistortionOption) (*buffer.Audio, error) {
	if _, err := NewDistortion(opts...); err != nil {
		return nil, err
	}
	return applyEach(a, func() (buffer.SampleProcessor, error) {
		return NewDistortion(opts...)
	})
}

// OverdriveOption mutates overdrive construction parameters.
type OverdriveOption func(*overdriveConfig) error

type overdriveConfig struct {
	drive float64
	tone  float64
	mix   float64
}

func defaultOverdriveConfig() overdriveConfig {
	return overdriveConfig{
		drive: defaultOverdriveDrive,
		tone:  defaultOverdriveTone,
		mix:   defaultOverdriveMix,
	}
}

// WithOverdriveDrive sets the drive in [0, 1]; input gain is 1+5*drive.
func WithOverdriveDrive(drive float64) OverdriveOption {
	return func(cfg *overdriveConfig) error {
		if err := core.ValidateRange("overdrive drive", drive, 0, 1); err != nil {
			return err
		}
		cfg.drive = drive
		return nil
	}
}

// WithOverdriveTone sets brightness in [0, 1]; 0.5 is neutral.
func WithOverdriveTone(tone float64) OverdriveOption {
	return func(cfg *overdriveConfig) error {
		if err := core.ValidateRange("overdrive tone", tone, 0, 1); err != nil {
			return err
		}
		cfg.tone = tone
		return nil
	}
}

// WithOverdriveMix sets the wet amount in [0, 1].
func WithOverdriveMix(mix float64) OverdriveOption {
	return func(cfg *overdriveConfig) error {
		if err := validateMix("overdrive", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// Overdrive is a tanh soft clipper followed by a first-difference tone tilt:
// y += (tone-0.5)*0.8*(y[n]-y[n-1]).
type Overdrive struct {
	cfg       overdriveConfig
	gain      float64
	toneCoeff float64
	prev      float64
	primed    bool
}

// NewOverdrive returns a soft-clip overdrive.
func NewOverdrive(opts ...OverdriveOption) (*Overdrive, error) {
	cfg := defaultOverdriveConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return &Overdrive{
		cfg:       cfg,
		gain:      1 + cfg.drive*overdriveMaxGain,
		toneCoeff: (cfg.tone - overdriveToneNeutral) * overdriveToneScale,
	}, nil
}

// ProcessSample processes one sample. The first sample of a run has no
// predecessor, so its tone difference is zero.
func (o *Overdrive) ProcessSample(x float64) float64 {
	y := math.Tanh(x * o.gain)
	wet := y
	if o.toneCoeff != 0 {
		if o.primed {
			wet += o.toneCoeff * (y - o.prev)
		}
		o.prev = y
		o.primed = true
	}
	return x*(1-o.cfg.mix) + wet*o.cfg.mix
}

// ProcessInPlace processes buf in place.
func (o *Overdrive) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = o.ProcessSample(buf[i])
	}
}

// Reset clears the tone filter history.
func (o *Overdrive) Reset() {
	o.prev = 0
	o.primed = false
}

// ApplyOverdrive saturates every channel of a.
func ApplyOverdrive(a *buffer.Audio, opts ...OverdriveOption) (*buffer.Audio, error) {
	if _, err := NewOverdrive(opts...); err != nil {
		return nil, err
	}
	return applyEach(a, func() (buffer.SampleProcessor, error) {
		return NewOverdrive(opts...)
	})
}

const (
	defaultFuzzAmount = 0.8
	defaultFuzzGainDB = 0.0
	defaultFuzzMix    = 1.0
	fuzzMaxGain       = 49.0
	fuzzShapeOnset    = 0.5
	fuzzShapeWeight   = 0.3
)

// FuzzOption mutates fuzz parameters.
type FuzzOption func(*fuzzConfig) error

type fuzzConfig struct {
	amount float64
	gainDB float64
	mix    float64
}

// WithFuzzAmount sets the intensity in [0, 1].
func WithFuzzAmount(amount float64) FuzzOption {
	return func(cfg *fuzzConfig) error {
		if err := core.ValidateRange("fuzz amount", amount, 0, 1); err != nil {
			return err
		}
		cfg.amount = amount
		return nil
	}
}

// WithFuzzGainDB sets the output gain in dB.
func WithFuzzGainDB(db float64) FuzzOption {
	return func(cfg *fuzzConfig) error {
		if !core.IsFinite(db) {
			return fmt.Errorf("fuzz gain must be finite: %f", db)
		}
		cfg.gainDB = db
		return nil
	}
}

// WithFuzzMix sets the wet amount in [0, 1].
func WithFuzzMix(mix float64) FuzzOption {
	return func(cfg *fuzzConfig) error {
		if err := validateMix("fuzz", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// ApplyFuzz drives a into a hard clip at 0.7+(1-amount)*0.3. Above an amount
// of 0.5 a polarity-preserving square term is blended in and the whole
// signal is renormalized so its peak sits at the clip threshold again.
// The renormalization uses the peak across all channels.
func ApplyFuzz(a *buffer.Audio, opts ...FuzzOption) (*buffer.Audio, error) {
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}

	cfg := fuzzConfig{amount: defaultFuzzAmount, gainDB: defaultFuzzGainDB, mix: defaultFuzzMix}
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	gain := 1 + cfg.amount*fuzzMaxGain
	threshold := 0.7 + (1-cfg.amount)*0.3
	wet := a.NewLike()
	for ch := 0; ch < a.Channels(); ch++ {
		src, dst := a.Channel(ch), wet.Channel(ch)
		for i, x := range src {
			dst[i] = core.Clamp(x*gain, -threshold, threshold)
		}
	}

	if cfg.amount > fuzzShapeOnset {
		w := cfg.amount * fuzzShapeWeight
		for ch := 0; ch < wet.Channels(); ch++ {
			buf := wet.Channel(ch)
			for i, f := range buf {
				sq := f * f
				if f < 0 {
					sq = -sq
				}
				buf[i] = (1-w)*f + w*sq
			}
		}
		wet.NormalizeInPlace(threshold)
	}

	wet.Scale(core.DBToLinear(cfg.gainDB))

	out := a.NewLike()
	for ch := 0; ch < a.Channels(); ch++ {
		src, w, dst := a.Channel(ch), wet.Channel(ch), out.Channel(ch)
		for i := range dst {
			dst[i] = src[i]*(1-cfg.mix) + w[i]*cfg.mix
		}
	}
	out.ClipInPlace(outputBound)

	return out, nil
}
