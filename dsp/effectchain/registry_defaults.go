package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/effects"
	"github.com/cwbudde/algo-sfx/dsp/effects/dynamics"
	"github.com/cwbudde/algo-sfx/dsp/effects/modulation"
	"github.com/cwbudde/algo-sfx/dsp/effects/reverb"
	"github.com/cwbudde/algo-sfx/dsp/lfo"
	"github.com/cwbudde/algo-sfx/dsp/master"
	"github.com/cwbudde/algo-sfx/dsp/mfn"
)

// Processor defaults for options that take several values at once. A step
// that sets only one of them keeps the others at these values.
const (
	defaultGateAttackMs     = 1.0
	defaultGateHoldMs       = 10.0
	defaultGateReleaseMs    = 20.0
	defaultAutoWahAttackMs  = 10.0
	defaultAutoWahReleaseMs = 70.0
	defaultAutoWahBaseHz    = 100.0
	defaultAutoWahSweepHz   = 2000.0
)

// DefaultRegistry returns a Registry holding every built-in effect.
//
//nolint:funlen
func DefaultRegistry() *Registry {
	r := NewRegistry()

	registerDelays(r)
	registerDistortion(r)
	registerModulation(r)
	registerDynamics(r)

	r.MustRegister("rainbow_machine", func(p Params) (Effect, error) {
		rd := newParamReader("rainbow_machine", p)
		var opts []effects.RainbowOption
		numOpt(rd, &opts, "pitch", effects.WithRainbowPitch)
		numOpt(rd, &opts, "primary_level", effects.WithRainbowPrimaryLevel)
		numOpt(rd, &opts, "secondary_mode", effects.WithRainbowSecondaryMode)
		numOpt(rd, &opts, "tracking_ms", effects.WithRainbowTracking)
		numOpt(rd, &opts, "tone", effects.WithRainbowTone)
		numOpt(rd, &opts, "feedback", effects.WithRainbowFeedback)
		numOpt(rd, &opts, "feedback_delay_ms", effects.WithRainbowFeedbackDelay)
		intOpt(rd, &opts, "iterations", effects.WithRainbowIterations)
		numOpt(rd, &opts, "mod_rate", effects.WithRainbowModRate)
		numOpt(rd, &opts, "mod_depth_ms", effects.WithRainbowModDepth)
		numOpt(rd, &opts, "mix", effects.WithRainbowMix)
		return applyWith(rd, effects.ApplyRainbowMachine, opts)
	})

	r.MustRegister("particle", func(p Params) (Effect, error) {
		rd := newParamReader("particle", p)
		var opts []effects.ParticleOption
		numOpt(rd, &opts, "grain_size_ms", effects.WithParticleGrainSize)
		numOpt(rd, &opts, "density", effects.WithParticleDensity)
		numOpt(rd, &opts, "pitch", effects.WithParticlePitch)
		numOpt(rd, &opts, "pitch_random", effects.WithParticlePitchRandom)
		numOpt(rd, &opts, "reverse", effects.WithParticleReverse)
		numOpt(rd, &opts, "mix", effects.WithParticleMix)
		numOpt(rd, &opts, "delay_ms", effects.WithParticleDelay)
		numOpt(rd, &opts, "feedback", effects.WithParticleFeedback)
		if seed, ok := rd.integer("seed"); ok {
			opts = append(opts, effects.WithParticleSeed(int64(seed)))
		}
		if name, ok := rd.str("quantize"); ok {
			mode, err := effects.ParseQuantizeMode(name)
			if err != nil {
				return nil, err
			}
			opts = append(opts, effects.WithParticleQuantize(mode))
		}
		if freeze, ok := rd.flag("freeze"); ok {
			opts = append(opts, effects.WithParticleFreeze(freeze))
		}
		lfoRate, hasRate := rd.num("lfo_rate")
		pitchDepth, hasPitch := rd.num("lfo_pitch_depth")
		delayDepth, hasDelay := rd.num("lfo_delay_depth")
		posDepth, hasPos := rd.num("lfo_position_depth")
		if hasRate || hasPitch || hasDelay || hasPos {
			opts = append(opts, effects.WithParticleLFO(lfoRate, pitchDepth, delayDepth, posDepth))
		}
		return applyWith(rd, effects.ApplyParticle, opts)
	})

	r.MustRegister("bitcrusher", func(p Params) (Effect, error) {
		rd := newParamReader("bitcrusher", p)
		var opts []effects.BitCrusherOption
		numOpt(rd, &opts, "bit_depth", effects.WithBitCrusherBitDepth)
		intOpt(rd, &opts, "downsample", effects.WithBitCrusherDownsample)
		numOpt(rd, &opts, "mix", effects.WithBitCrusherMix)
		return applyWith(rd, effects.ApplyBitCrusher, opts)
	})

	r.MustRegister("short_reverb", func(p Params) (Effect, error) {
		rd := newParamReader("short_reverb", p)
		var opts []reverb.ShortOption
		numOpt(rd, &opts, "decay", reverb.WithShortDecay)
		numOpt(rd, &opts, "mix", reverb.WithShortMix)
		return applyWith(rd, reverb.ApplyShort, opts)
	})

	r.MustRegister("long_reverb", func(p Params) (Effect, error) {
		rd := newParamReader("long_reverb", p)
		var opts []reverb.LongOption
		numOpt(rd, &opts, "decay", reverb.WithLongDecay)
		numOpt(rd, &opts, "mix", reverb.WithLongMix)
		numOpt(rd, &opts, "diffusion", reverb.WithLongDiffusion)
		if seed, ok := rd.integer("seed"); ok {
			opts = append(opts, reverb.WithLongSeed(int64(seed)))
		}
		return applyWith(rd, reverb.ApplyLong, opts)
	})

	r.MustRegister("mfn", newMFNEffect)
	r.MustRegister("master", newMasterEffect)

	r.MustRegister("trim", func(p Params) (Effect, error) {
		rd := newParamReader("trim", p)
		topDB := rd.numOr("top_db", buffer.DefaultTrimTopDB)
		if err := rd.done(); err != nil {
			return nil, err
		}
		return EffectFunc(func(a *buffer.Audio) (*buffer.Audio, error) {
			return buffer.TrimSilence(a, topDB)
		}), nil
	})

	return r
}

func registerDelays(r *Registry) {
	for name, apply := range map[string]func(*buffer.Audio, ...effects.DelayOption) (*buffer.Audio, error){
		"delay":    effects.ApplyDelay,
		"echo":     effects.ApplyEcho,
		"dub_echo": effects.ApplyDubEcho,
	} {
		r.MustRegister(name, func(p Params) (Effect, error) {
			rd := newParamReader(name, p)
			var opts []effects.DelayOption
			numOpt(rd, &opts, "time", effects.WithDelayTime)
			numOpt(rd, &opts, "feedback", effects.WithDelayFeedback)
			numOpt(rd, &opts, "mix", effects.WithDelayMix)
			numOpt(rd, &opts, "damping", effects.WithDelayDamping)
			return applyWith(rd, apply, opts)
		})
	}
}

func registerDistortion(r *Registry) {
	r.MustRegister("distortion", func(p Params) (Effect, error) {
		rd := newParamReader("distortion", p)
		var opts []effects.DistortionOption
		numOpt(rd, &opts, "drive", effects.WithDistortionDrive)
		numOpt(rd, &opts, "mix", effects.WithDistortionMix)
		return applyWith(rd, effects.ApplyDistortion, opts)
	})

	r.MustRegister("overdrive", func(p Params) (Effect, error) {
		rd := newParamReader("overdrive", p)
		var opts []effects.OverdriveOption
		numOpt(rd, &opts, "drive", effects.WithOverdriveDrive)
		numOpt(rd, &opts, "tone", effects.WithOverdriveTone)
		numOpt(rd, &opts, "mix", effects.WithOverdriveMix)
		return applyWith(rd, effects.ApplyOverdrive, opts)
	})

	r.MustRegister("fuzz", func(p Params) (Effect, error) {
		rd := newParamReader("fuzz", p)
		var opts []effects.FuzzOption
		numOpt(rd, &opts, "amount", effects.WithFuzzAmount)
		numOpt(rd, &opts, "gain_db", effects.WithFuzzGainDB)
		numOpt(rd, &opts, "mix", effects.WithFuzzMix)
		return applyWith(rd, effects.ApplyFuzz, opts)
	})
}

func registerModulation(r *Registry) {
	r.MustRegister("chorus", func(p Params) (Effect, error) {
		rd := newParamReader("chorus", p)
		var opts []modulation.ChorusOption
		numOpt(rd, &opts, "rate_hz", modulation.WithChorusRate)
		numOpt(rd, &opts, "depth_ms", modulation.WithChorusDepth)
		numOpt(rd, &opts, "mix", modulation.WithChorusMix)
		numOpt(rd, &opts, "feedback", modulation.WithChorusFeedback)
		numOpt(rd, &opts, "spread_ms", modulation.WithChorusSpread)
		return applyWith(rd, modulation.ApplyChorus, opts)
	})

	r.MustRegister("flanger", func(p Params) (Effect, error) {
		rd := newParamReader("flanger", p)
		var opts []modulation.FlangerOption
		numOpt(rd, &opts, "rate_hz", modulation.WithFlangerRate)
		numOpt(rd, &opts, "depth_ms", modulation.WithFlangerDepth)
		numOpt(rd, &opts, "mix", modulation.WithFlangerMix)
		numOpt(rd, &opts, "feedback", modulation.WithFlangerFeedback)
		numOpt(rd, &opts, "spread_ms", modulation.WithFlangerSpread)
		return applyWith(rd, modulation.ApplyFlanger, opts)
	})

	r.MustRegister("vibrato", func(p Params) (Effect, error) {
		rd := newParamReader("vibrato", p)
		var opts []modulation.VibratoOption
		numOpt(rd, &opts, "rate_hz", modulation.WithVibratoRate)
		numOpt(rd, &opts, "depth_ms", modulation.WithVibratoDepth)
		numOpt(rd, &opts, "stereo_phase", modulation.WithVibratoStereoPhase)
		return applyWith(rd, modulation.ApplyVibrato, opts)
	})

	r.MustRegister("phaser", func(p Params) (Effect, error) {
		rd := newParamReader("phaser", p)
		var opts []modulation.PhaserOption
		numOpt(rd, &opts, "rate_hz", modulation.WithPhaserRate)
		numOpt(rd, &opts, "depth", modulation.WithPhaserDepth)
		intOpt(rd, &opts, "stages", modulation.WithPhaserStages)
		numOpt(rd, &opts, "feedback", modulation.WithPhaserFeedback)
		numOpt(rd, &opts, "mix", modulation.WithPhaserMix)
		numOpt(rd, &opts, "stereo_spread", modulation.WithPhaserStereoSpread)
		return applyWith(rd, modulation.ApplyPhaser, opts)
	})

	r.MustRegister("tremolo", func(p Params) (Effect, error) {
		rd := newParamReader("tremolo", p)
		var opts []modulation.TremoloOption
		numOpt(rd, &opts, "rate_hz", modulation.WithTremoloRate)
		numOpt(rd, &opts, "depth", modulation.WithTremoloDepth)
		numOpt(rd, &opts, "stereo_phase", modulation.WithTremoloStereoPhase)
		if shape, ok := rd.str("shape"); ok {
			if _, err := lfo.ParseShape(shape); err != nil {
				return nil, err
			}
			opts = append(opts, modulation.WithTremoloShape(shape))
		}
		return applyWith(rd, modulation.ApplyTremolo, opts)
	})

	r.MustRegister("auto_wah", func(p Params) (Effect, error) {
		rd := newParamReader("auto_wah", p)
		var opts []modulation.AutoWahOption
		numOpt(rd, &opts, "mix", modulation.WithAutoWahMix)
		numOpt(rd, &opts, "sensitivity", modulation.WithAutoWahSensitivity)
		numOpt(rd, &opts, "q", modulation.WithAutoWahQ)
		if rd.has("attack_ms") || rd.has("release_ms") {
			opts = append(opts, modulation.WithAutoWahEnvelope(
				rd.numOr("attack_ms", defaultAutoWahAttackMs),
				rd.numOr("release_ms", defaultAutoWahReleaseMs)))
		}
		if rd.has("base_hz") || rd.has("sweep_hz") {
			opts = append(opts, modulation.WithAutoWahSweep(
				rd.numOr("base_hz", defaultAutoWahBaseHz),
				rd.numOr("sweep_hz", defaultAutoWahSweepHz)))
		}
		if rd.has("lfo_rate") || rd.has("lfo_depth") {
			opts = append(opts, modulation.WithAutoWahLFO(rd.numOr("lfo_rate", 0), rd.numOr("lfo_depth", 0)))
		}
		return applyWith(rd, modulation.ApplyAutoWah, opts)
	})
}

func registerDynamics(r *Registry) {
	r.MustRegister("compressor", func(p Params) (Effect, error) {
		rd := newParamReader("compressor", p)
		var opts []dynamics.CompressorOption
		numOpt(rd, &opts, "threshold_db", dynamics.WithCompressorThreshold)
		numOpt(rd, &opts, "ratio", dynamics.WithCompressorRatio)
		numOpt(rd, &opts, "attack_ms", dynamics.WithCompressorAttack)
		numOpt(rd, &opts, "release_ms", dynamics.WithCompressorRelease)
		numOpt(rd, &opts, "makeup_db", dynamics.WithCompressorMakeup)
		numOpt(rd, &opts, "knee_db", dynamics.WithCompressorKnee)
		if mode, ok, err := linkParam(rd); err != nil {
			return nil, err
		} else if ok {
			opts = append(opts, dynamics.WithCompressorLink(mode))
		}
		return applyWith(rd, dynamics.ApplyCompressor, opts)
	})

	r.MustRegister("noise_gate", func(p Params) (Effect, error) {
		rd := newParamReader("noise_gate", p)
		var opts []dynamics.GateOption
		numOpt(rd, &opts, "threshold_db", dynamics.WithGateThreshold)
		numOpt(rd, &opts, "attenuation_db", dynamics.WithGateAttenuation)
		if rd.has("attack_ms") || rd.has("hold_ms") || rd.has("release_ms") {
			opts = append(opts, dynamics.WithGateTimes(
				rd.numOr("attack_ms", defaultGateAttackMs),
				rd.numOr("hold_ms", defaultGateHoldMs),
				rd.numOr("release_ms", defaultGateReleaseMs)))
		}
		if mode, ok, err := linkParam(rd); err != nil {
			return nil, err
		} else if ok {
			opts = append(opts, dynamics.WithGateLink(mode))
		}
		return applyWith(rd, dynamics.ApplyNoiseGate, opts)
	})
}

func linkParam(rd *paramReader) (buffer.LinkMode, bool, error) {
	name, ok := rd.str("link")
	if !ok {
		return 0, false, nil
	}
	switch normalizeEffectName(name) {
	case "linked":
		return buffer.Linked, true, nil
	case "unlinked":
		return buffer.Unlinked, true, nil
	default:
		return 0, false, fmt.Errorf("effectchain: link must be \"linked\" or \"unlinked\": %q", name)
	}
}

func newMFNEffect(p Params) (Effect, error) {
	rd := newParamReader("mfn", p)
	raw, ok := rd.raw("graph")
	if !ok {
		if err := rd.done(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("effectchain: mfn param %q is required", "graph")
	}
	g, err := mfn.ParseGraph(raw)
	if err != nil {
		return nil, err
	}

	var opts []mfn.Option
	intOpt(rd, &opts, "block_size", mfn.WithBlockSize)
	numOpt(rd, &opts, "watchdog_limit", mfn.WithWatchdogLimit)
	numOpt(rd, &opts, "watchdog_max_reduction_db", mfn.WithWatchdogMaxReduction)
	if kernel, ok := rd.str("kernel"); ok {
		opts = append(opts, mfn.WithKernel(kernel))
	}
	if on, ok := rd.flag("watchdog"); ok {
		opts = append(opts, mfn.WithWatchdog(on))
	}
	if err := rd.done(); err != nil {
		return nil, err
	}

	return EffectFunc(func(a *buffer.Audio) (*buffer.Audio, error) {
		return mfn.Apply(a, g, opts...)
	}), nil
}

func newMasterEffect(p Params) (Effect, error) {
	rd := newParamReader("master", p)
	var opts []master.Option
	numOpt(rd, &opts, "drive_db", master.WithDrive)
	numOpt(rd, &opts, "ceiling", master.WithCeiling)
	intOpt(rd, &opts, "filter_order", master.WithFilterOrder)
	if on, ok := rd.flag("zero_phase"); ok {
		opts = append(opts, master.WithZeroPhase(on))
	}

	var crossovers []float64
	var bands []master.Band
	hasCross := rd.decode("crossovers", &crossovers)
	hasBands := rd.decode("bands", &bands)
	if hasCross || hasBands {
		if !hasCross {
			crossovers = master.DefaultCrossovers()
		}
		if !hasBands {
			bands = master.DefaultBands()
		}
		opts = append(opts, master.WithMultiband(crossovers, bands))
	}

	return applyWith(rd, master.Apply, opts)
}

// applyWith finishes parameter reading and binds opts to apply.
func applyWith[O any](rd *paramReader, apply func(*buffer.Audio, ...O) (*buffer.Audio, error), opts []O) (Effect, error) {
	if err := rd.done(); err != nil {
		return nil, err
	}
	return EffectFunc(func(a *buffer.Audio) (*buffer.Audio, error) {
		return apply(a, opts...)
	}), nil
}
