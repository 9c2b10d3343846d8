package master

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/sirupsen/logrus"
)

const (
	defaultDriveDB     = 6.0
	defaultCeiling     = 0.98
	defaultFilterOrder = 4
)

// Band holds the compressor settings of one band.
type Band struct {
	ThresholdDB float64 `json:"threshold_db"`
	Ratio       float64 `json:"ratio"`
	AttackMs    float64 `json:"attack_ms"`
	ReleaseMs   float64 `json:"release_ms"`
}

// DefaultCrossovers returns the band edges in Hz.
func DefaultCrossovers() []float64 { return []float64{150, 800, 4000} }

// DefaultBands returns the compressor settings from the lowest to the
// highest band.
func DefaultBands() []Band {
	return []Band{
		{ThresholdDB: -24, Ratio: 2, AttackMs: 10, ReleaseMs: 150},
		{ThresholdDB: -20, Ratio: 2.5, AttackMs: 8, ReleaseMs: 120},
		{ThresholdDB: -18, Ratio: 3, AttackMs: 5, ReleaseMs: 100},
		{ThresholdDB: -15, Ratio: 3.5, AttackMs: 3, ReleaseMs: 80},
	}
}

// Option configures the mastering chain.
type Option func(*config) error

type config struct {
	driveDB     float64
	ceiling     float64
	crossovers  []float64
	bands       []Band
	filterOrder int
	zeroPhase   bool
	logger      logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		driveDB:     defaultDriveDB,
		ceiling:     defaultCeiling,
		crossovers:  DefaultCrossovers(),
		bands:       DefaultBands(),
		filterOrder: defaultFilterOrder,
		logger:      discardLogger(),
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithDrive sets the saturation drive in dB (>= 0).
func WithDrive(dB float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(dB) || dB < 0 {
			return fmt.Errorf("master drive must be >= 0: %f", dB)
		}
		cfg.driveDB = dB
		return nil
	}
}

// WithCeiling sets the limiter ceiling and the final peak, in (0, 1].
func WithCeiling(ceiling float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(ceiling) || ceiling <= 0 || ceiling > 1 {
			return fmt.Errorf("master ceiling must be in (0, 1]: %f", ceiling)
		}
		cfg.ceiling = ceiling
		return nil
	}
}

// WithMultiband replaces the crossover edges and band settings. There must
// be exactly one more band than edges.
func WithMultiband(crossovers []float64, bands []Band) Option {
	return func(cfg *config) error {
		if len(crossovers) == 0 {
			return fmt.Errorf("master needs at least one crossover")
		}
		if len(bands) != len(crossovers)+1 {
			return fmt.Errorf("master band count must be %d: %d", len(crossovers)+1, len(bands))
		}
		cfg.crossovers = append([]float64(nil), crossovers...)
		cfg.bands = append([]Band(nil), bands...)
		return nil
	}
}

// WithFilterOrder sets the Butterworth order of the band filters (> 0).
func WithFilterOrder(order int) Option {
	return func(cfg *config) error {
		if order <= 0 {
			return fmt.Errorf("master filter order must be > 0: %d", order)
		}
		cfg.filterOrder = order
		return nil
	}
}

// WithZeroPhase runs the band filters forward and backward.
func WithZeroPhase(enabled bool) Option {
	return func(cfg *config) error {
		cfg.zeroPhase = enabled
		return nil
	}
}

// WithLogger sets the logger for progress messages. The default discards
// everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return fmt.Errorf("master logger must not be nil")
		}
		cfg.logger = logger
		return nil
	}
}
