package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/envelope"
)

const (
	defaultCompressorThresholdDB = -20.0
	defaultCompressorRatio       = 4.0
	defaultCompressorAttackMs    = 5.0
	defaultCompressorReleaseMs   = 50.0
	defaultCompressorMakeupDB    = 0.0
	defaultCompressorKneeDB      = 0.0

	minCompressorRatio = 1.0
)

// CompressorOption mutates compressor construction parameters.
type CompressorOption func(*compressorConfig) error

type compressorConfig struct {
	thresholdDB float64
	ratio       float64
	attackMs    float64
	releaseMs   float64
	makeupDB    float64
	kneeDB      float64
	link        buffer.LinkMode
}

func defaultCompressorConfig() compressorConfig {
	return compressorConfig{
		thresholdDB: defaultCompressorThresholdDB,
		ratio:       defaultCompressorRatio,
		attackMs:    defaultCompressorAttackMs,
		releaseMs:   defaultCompressorReleaseMs,
		makeupDB:    defaultCompressorMakeupDB,
		kneeDB:      defaultCompressorKneeDB,
		link:        buffer.Linked,
	}
}

// WithCompressorThreshold sets the threshold in dBFS.
func WithCompressorThreshold(dB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !core.IsFinite(dB) {
			return fmt.Errorf("compressor threshold must be finite: %f", dB)
		}
		cfg.thresholdDB = dB
		return nil
	}
}

// WithCompressorRatio sets the ratio (>= 1).
func WithCompressorRatio(ratio float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !core.IsFinite(ratio) || ratio < minCompressorRatio {
			return fmt.Errorf("compressor ratio must be >= %g: %f", minCompressorRatio, ratio)
		}
		cfg.ratio = ratio
		return nil
	}
}

// WithCompressorAttack sets the attack time in ms (> 0).
func WithCompressorAttack(ms float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !core.IsFinite(ms) || ms <= 0 {
			return fmt.Errorf("compressor attack must be > 0: %f", ms)
		}
		cfg.attackMs = ms
		return nil
	}
}

// WithCompressorRelease sets the release time in ms (> 0).
func WithCompressorRelease(ms float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !core.IsFinite(ms) || ms <= 0 {
			return fmt.Errorf("compressor release must be > 0: %f", ms)
		}
		cfg.releaseMs = ms
		return nil
	}
}

// WithCompressorMakeup sets the output gain in dB.
func WithCompressorMakeup(dB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !core.IsFinite(dB) {
			return fmt.Errorf("compressor makeup gain must be finite: %f", dB)
		}
		cfg.makeupDB = dB
		return nil
	}
}

// WithCompressorKnee sets the soft-knee width in dB (>= 0, 0 is a hard
// knee).
func WithCompressorKnee(dB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !core.IsFinite(dB) || dB < 0 {
			return fmt.Errorf("compressor knee must be >= 0: %f", dB)
		}
		cfg.kneeDB = dB
		return nil
	}
}

// WithCompressorLink selects linked or per-channel detection for
// multi-channel input.
func WithCompressorLink(mode buffer.LinkMode) CompressorOption {
	return func(cfg *compressorConfig) error {
		if mode != buffer.Linked && mode != buffer.Unlinked {
			return fmt.Errorf("compressor link mode invalid: %v", mode)
		}
		cfg.link = mode
		return nil
	}
}

// Compressor is a feed-forward peak compressor. The detector is an
// attack/release follower on |x|; its level drives the gain computer and
// the resulting gain, times makeup, scales the input.
//
// Compressor implements buffer.FrameProcessor so one detector can drive
// several channels.
type Compressor struct {
	cfg      compressorConfig
	env      *envelope.Follower
	computer gainComputer
	makeup   float64
	gain     float64
}

// NewCompressor creates a compressor.
func NewCompressor(sampleRate float64, opts ...CompressorOption) (*Compressor, error) {
	cfg := defaultCompressorConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return newCompressor(sampleRate, cfg)
}

func newCompressor(sampleRate float64, cfg compressorConfig) (*Compressor, error) {
	env, err := envelope.NewFollower(sampleRate, cfg.attackMs, cfg.releaseMs)
	if err != nil {
		return nil, fmt.Errorf("compressor: %w", err)
	}
	return &Compressor{
		cfg:      cfg,
		env:      env,
		computer: gainComputer{thresholdDB: cfg.thresholdDB, ratio: cfg.ratio, kneeDB: cfg.kneeDB},
		makeup:   core.DBToLinear(cfg.makeupDB),
		gain:     1,
	}, nil
}

// Detect advances the envelope with one rectified level.
func (c *Compressor) Detect(level float64) {
	c.gain = c.computer.gainFor(c.env.Process(level))
}

// Apply scales one sample by the current gain and makeup.
func (c *Compressor) Apply(_ int, x float64) float64 {
	return x * c.gain * c.makeup
}

// ProcessSample compresses one mono sample.
func (c *Compressor) ProcessSample(x float64) float64 {
	c.Detect(math.Abs(x))
	return c.Apply(0, x)
}

// ProcessInPlace compresses buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Reset clears the detector.
func (c *Compressor) Reset() {
	c.env.Reset()
	c.gain = 1
}

// GainReductionDB returns the most recent gain change in dB (<= 0).
func (c *Compressor) GainReductionDB() float64 {
	return core.LinearToDB(c.gain)
}

// Threshold returns the threshold in dB.
func (c *Compressor) Threshold() float64 { return c.cfg.thresholdDB }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.cfg.ratio }

// Knee returns the knee width in dB.
func (c *Compressor) Knee() float64 { return c.cfg.kneeDB }

// ApplyCompressor compresses a with a fresh detector. Stereo input shares
// one detector unless WithCompressorLink(buffer.Unlinked) is given.
func ApplyCompressor(a *buffer.Audio, opts ...CompressorOption) (*buffer.Audio, error) {
	cfg := defaultCompressorConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	out, err := buffer.ProcessLinked(a, cfg.link, func(int) (buffer.FrameProcessor, error) {
		return newCompressor(a.SampleRate(), cfg)
	})
	if err != nil {
		return nil, err
	}
	out.ClipInPlace(1)
	return out, nil
}
