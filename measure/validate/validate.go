package validate

import (
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-sfx/audiofile"
	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/spectrum"
	stats "github.com/cwbudde/algo-sfx/stats/time"
	"github.com/sirupsen/logrus"
)

// Option configures Validate.
type Option func(*config) error

type config struct {
	logger logrus.FieldLogger
}

// WithLogger sets the logger that receives the verdict.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if l == nil {
			return fmt.Errorf("validate logger must not be nil")
		}
		cfg.logger = l
		return nil
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Validate checks the WAV file at path against spec. It returns nil when
// every check passes, a *FailureError listing all failed checks, or an
// error wrapping ErrFileUnreadable.
func Validate(path string, spec Spec, opts ...Option) error {
	cfg := config{logger: discardLogger()}
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return err
	}
	if err := spec.Check(); err != nil {
		return err
	}

	log := cfg.logger.WithField("path", path)

	a, info, err := audiofile.ReadWAV(path)
	if err != nil {
		log.WithError(err).Error("cannot read file")
		return fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}

	reasons := Inspect(a, info, spec)
	if len(reasons) > 0 {
		failure := &FailureError{Path: path, Reasons: reasons}
		log.WithField("checks", failure.Checks()).Warn(failure.Error())
		return failure
	}

	log.WithFields(logrus.Fields{
		"rate":     info.SampleRate,
		"duration": info.Seconds(),
		"channels": info.Channels,
	}).Info("file passed all checks")
	return nil
}

// Inspect runs every check on decoded audio and returns the failures in
// check order.
func Inspect(a *buffer.Audio, info audiofile.WAVInfo, spec Spec) []Reason {
	var reasons []Reason

	if info.SampleRate != spec.SampleRate {
		reasons = append(reasons, newReason(CheckSampleRate,
			fmt.Sprint(spec.SampleRate), fmt.Sprint(info.SampleRate),
			"Sample rate mismatch: expected %d, got %d.", spec.SampleRate, info.SampleRate))
	}

	lo, hi := spec.Duration-spec.Tolerance, spec.Duration+spec.Tolerance
	if d := info.Seconds(); d < lo || d > hi {
		reasons = append(reasons, newReason(CheckDuration,
			fmt.Sprintf("%.2fs", spec.Duration), fmt.Sprintf("%.2fs", d),
			"Duration out of tolerance: expected %.2fs (±%.2fs, range [%.2fs - %.2fs]), got %.2fs.",
			spec.Duration, spec.Tolerance, lo, hi, d))
	}

	if sub := Subtype(info); sub != spec.Subtype {
		reasons = append(reasons, newReason(CheckSubtype, spec.Subtype, sub,
			"Bit depth/subtype mismatch: expected '%s', got '%s'.", spec.Subtype, sub))
	}

	if info.Channels != spec.Channels {
		reasons = append(reasons, newReason(CheckChannels,
			fmt.Sprint(spec.Channels), fmt.Sprint(info.Channels),
			"Channel count mismatch: expected %d, got %d.", spec.Channels, info.Channels))
	}

	peakDB := stats.Measure(a).PeakDBFS
	if peakDB > spec.PeakCeilingDBFS {
		reasons = append(reasons, newReason(CheckPeak,
			fmt.Sprintf("<= %.2f dBFS", spec.PeakCeilingDBFS), fmt.Sprintf("%.2f dBFS", peakDB),
			"Peak level too high: got %.2f dBFS, expected <= %.2f dBFS.", peakDB, spec.PeakCeilingDBFS))
	}

	if r, silent := silence(a, spec); silent {
		reasons = append(reasons, r)
	}

	return reasons
}

// Subtype names the sample encoding of info.
func Subtype(info audiofile.WAVInfo) string {
	switch {
	case info.IsFloat32():
		return SubtypeFloat
	case info.Format == audiofile.FormatPCM:
		return fmt.Sprintf("PCM_%d", info.BitsPerSample)
	default:
		return fmt.Sprintf("%s_%d", info.Format, info.BitsPerSample)
	}
}

// silence band-limits the mono mix to the audible band before measuring
// its peak, so DC offset or sub-sonic rumble cannot mask a silent render.
func silence(a *buffer.Audio, spec Spec) (Reason, bool) {
	low, high := spec.BandLowHz, spec.BandHighHz
	if nyquist := a.SampleRate() / 2; high > nyquist {
		high = nyquist
	}

	peakDB := math.Inf(-1)
	if low < high {
		filtered, err := spectrum.BandLimit(a.Mono().Channel(0), a.SampleRate(), low, high)
		if err == nil {
			peakDB = stats.PeakDBFS(filtered)
		}
	}
	if peakDB >= spec.SilenceDBFS {
		return Reason{}, false
	}

	return newReason(CheckSilence,
		fmt.Sprintf(">= %.2f dBFS", spec.SilenceDBFS), fmt.Sprintf("%.2f dBFS", peakDB),
		"Audio is effectively silent: peak in %.0f-%.0f Hz is %.2f dBFS, below the %.2f dBFS floor.",
		low, high, peakDB, spec.SilenceDBFS), true
}

func newReason(check Check, expected, actual, format string, args ...any) Reason {
	return Reason{
		Check:    check,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf(format, args...),
	}
}
