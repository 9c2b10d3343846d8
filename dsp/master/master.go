package master

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/effects/dynamics"
	"github.com/cwbudde/algo-sfx/dsp/filter/crossover"
	"github.com/sirupsen/logrus"
)

// Apply masters a and returns mono audio whose peak equals the ceiling.
// Silent input returns silence.
func Apply(a *buffer.Audio, opts ...Option) (*buffer.Audio, error) {
	cfg := defaultConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}

	sr := a.SampleRate()
	splitter, err := crossover.NewMultiBand(cfg.crossovers, cfg.filterOrder, sr)
	if err != nil {
		return nil, fmt.Errorf("master: %w", err)
	}
	compressors := make([]*dynamics.BandCompressor, len(cfg.bands))
	for i, b := range cfg.bands {
		c, err := dynamics.NewBandCompressor(sr, b.ThresholdDB, b.Ratio, b.AttackMs, b.ReleaseMs)
		if err != nil {
			return nil, fmt.Errorf("master band %d: %w", i, err)
		}
		compressors[i] = c
	}

	log := cfg.logger.WithFields(logrus.Fields{
		"channels": a.Channels(),
		"frames":   a.Frames(),
		"rate":     sr,
	})

	out := a.Mono()
	peak := out.Peak()
	if peak == 0 {
		log.Debug("silent input, mastering skipped")
		return out, nil
	}

	log.WithField("peak", peak).Debug("normalizing")
	out.NormalizeInPlace(1)
	x := out.Channel(0)

	drive := core.DBToLinear(cfg.driveDB)
	log.WithField("drive_db", cfg.driveDB).Debug("saturating")
	for i, v := range x {
		x[i] = math.Tanh(v * drive)
	}

	log.WithField("crossovers", cfg.crossovers).Debug("multiband compression")
	var bands [][]float64
	if cfg.zeroPhase {
		bands = splitter.ProcessZeroPhase(x)
	} else {
		bands = splitter.ProcessBlock(x)
	}
	clear(x)
	for i, band := range bands {
		compressors[i].ProcessInPlace(band)
		for j, v := range band {
			x[j] += v
		}
	}

	log.WithField("ceiling", cfg.ceiling).Debug("limiting")
	out.ClipInPlace(cfg.ceiling)
	out.NormalizeInPlace(cfg.ceiling)

	log.WithField("peak", out.Peak()).Info("mastered")
	return out, nil
}
