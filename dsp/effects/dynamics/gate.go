package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultGateThresholdDB   = -50.0
	defaultGateAttackMs      = 1.0
	defaultGateHoldMs        = 10.0
	defaultGateReleaseMs     = 20.0
	defaultGateAttenuationDB = -96.0

	// The detector runs twice as fast as the gain ramps.
	gateDetectorSpeedup = 0.5
)

// GateState is the phase of the gate state machine.
type GateState int

const (
	GateClosed GateState = iota
	GateAttack
	GateHold
	GateRelease
)

func (s GateState) String() string {
	switch s {
	case GateClosed:
		return "closed"
	case GateAttack:
		return "attack"
	case GateHold:
		return "hold"
	case GateRelease:
		return "release"
	default:
		return fmt.Sprintf("GateState(%d)", int(s))
	}
}

// GateOption mutates gate construction parameters.
type GateOption func(*gateConfig) error

type gateConfig struct {
	thresholdDB   float64
	attackMs      float64
	holdMs        float64
	releaseMs     float64
	attenuationDB float64
	link          buffer.LinkMode
}

func defaultGateConfig() gateConfig {
	return gateConfig{
		thresholdDB:   defaultGateThresholdDB,
		attackMs:      defaultGateAttackMs,
		holdMs:        defaultGateHoldMs,
		releaseMs:     defaultGateReleaseMs,
		attenuationDB: defaultGateAttenuationDB,
		link:          buffer.Unlinked,
	}
}

// WithGateThreshold sets the opening threshold in dBFS.
func WithGateThreshold(dB float64) GateOption {
	return func(cfg *gateConfig) error {
		if !core.IsFinite(dB) {
			return fmt.Errorf("gate threshold must be finite: %f", dB)
		}
		cfg.thresholdDB = dB
		return nil
	}
}

// WithGateTimes sets attack, hold and release in ms (all >= 0).
func WithGateTimes(attackMs, holdMs, releaseMs float64) GateOption {
	return func(cfg *gateConfig) error {
		for _, v := range []struct {
			name string
			ms   float64
		}{{"attack", attackMs}, {"hold", holdMs}, {"release", releaseMs}} {
			if !core.IsFinite(v.ms) || v.ms < 0 {
				return fmt.Errorf("gate %s must be >= 0: %f", v.name, v.ms)
			}
		}
		cfg.attackMs = attackMs
		cfg.holdMs = holdMs
		cfg.releaseMs = releaseMs
		return nil
	}
}

// WithGateAttenuation sets the closed-gate gain in dB (<= 0).
func WithGateAttenuation(dB float64) GateOption {
	return func(cfg *gateConfig) error {
		if !core.IsFinite(dB) || dB > 0 {
			return fmt.Errorf("gate attenuation must be <= 0: %f", dB)
		}
		cfg.attenuationDB = dB
		return nil
	}
}

// WithGateLink selects linked or per-channel detection.
func WithGateLink(mode buffer.LinkMode) GateOption {
	return func(cfg *gateConfig) error {
		if mode != buffer.Linked && mode != buffer.Unlinked {
			return fmt.Errorf("gate link mode invalid: %v", mode)
		}
		cfg.link = mode
		return nil
	}
}

// Gate is a noise gate. An envelope crossing the threshold moves the gate
// Closed → Attack → Hold; once the envelope stays below the threshold for
// longer than the hold time the gate releases back to Closed. Gain ramps
// linearly between the attenuation floor and unity.
type Gate struct {
	threshold   float64
	attenuation float64

	attackSamples  int
	holdSamples    int
	releaseSamples int
	envAttack      float64
	envRelease     float64

	env     float64
	gain    float64
	state   GateState
	counter int
}

// NewGate creates a gate.
func NewGate(sampleRate float64, opts ...GateOption) (*Gate, error) {
	cfg := defaultGateConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return newGate(sampleRate, cfg)
}

func newGate(sampleRate float64, cfg gateConfig) (*Gate, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("gate: %w", err)
	}

	toSamples := func(ms float64) int { return int(core.MsToSamples(ms, sampleRate)) }
	g := &Gate{
		threshold:      core.DBToLinear(cfg.thresholdDB),
		attenuation:    core.DBToLinear(cfg.attenuationDB),
		attackSamples:  toSamples(cfg.attackMs),
		holdSamples:    toSamples(cfg.holdMs),
		releaseSamples: toSamples(cfg.releaseMs),
	}
	g.envAttack = math.Exp(-1 / (float64(max(1, g.attackSamples)) * gateDetectorSpeedup))
	g.envRelease = math.Exp(-1 / (float64(max(1, g.releaseSamples)) * gateDetectorSpeedup))
	g.Reset()

	return g, nil
}

// Detect advances the detector and state machine with one rectified level.
func (g *Gate) Detect(level float64) {
	coeff := g.envRelease
	if level > g.env {
		coeff = g.envAttack
	}
	g.env = coeff*g.env + (1-coeff)*level
	open := g.env > g.threshold
	span := 1 - g.attenuation

	switch g.state {
	case GateClosed:
		g.gain = g.attenuation
		if open {
			g.enter(GateAttack)
		}
	case GateAttack:
		if g.attackSamples > 0 {
			g.gain += span / float64(g.attackSamples)
		} else {
			g.gain = 1
		}
		switch {
		case g.gain >= 1:
			g.gain = 1
			g.enter(GateHold)
		case !open:
			g.enter(GateRelease)
		}
	case GateHold:
		g.gain = 1
		if open {
			g.counter = 0
		} else {
			g.counter++
			if g.counter > g.holdSamples {
				g.enter(GateRelease)
			}
		}
	case GateRelease:
		if g.releaseSamples > 0 {
			g.gain -= span / float64(g.releaseSamples)
		} else {
			g.gain = g.attenuation
		}
		switch {
		case g.gain <= g.attenuation:
			g.gain = g.attenuation
			g.enter(GateClosed)
		case open:
			g.enter(GateAttack)
		}
	}

	g.gain = core.Clamp(g.gain, g.attenuation, 1)
}

func (g *Gate) enter(s GateState) {
	g.state = s
	g.counter = 0
}

// Apply scales one sample by the current gate gain.
func (g *Gate) Apply(_ int, x float64) float64 {
	return x * g.gain
}

// ProcessSample gates one mono sample.
func (g *Gate) ProcessSample(x float64) float64 {
	g.Detect(math.Abs(x))
	return g.Apply(0, x)
}

// ProcessInPlace gates buf in place.
func (g *Gate) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = g.ProcessSample(x)
	}
}

// Reset closes the gate and clears the detector.
func (g *Gate) Reset() {
	g.env = 0
	g.gain = g.attenuation
	g.state = GateClosed
	g.counter = 0
}

// State returns the current state.
func (g *Gate) State() GateState { return g.state }

// Gain returns the current linear gain.
func (g *Gate) Gain() float64 { return g.gain }

// ApplyNoiseGate gates a with fresh state. Channels are detected
// independently unless WithGateLink(buffer.Linked) is given.
func ApplyNoiseGate(a *buffer.Audio, opts ...GateOption) (*buffer.Audio, error) {
	cfg := defaultGateConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	out, err := buffer.ProcessLinked(a, cfg.link, func(int) (buffer.FrameProcessor, error) {
		return newGate(a.SampleRate(), cfg)
	})
	if err != nil {
		return nil, err
	}
	out.ClipInPlace(1)
	return out, nil
}
