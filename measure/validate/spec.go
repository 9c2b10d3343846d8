package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/core"
)

// Subtype names as reported for WAV files.
const (
	SubtypeFloat = "FLOAT"
	SubtypePCM16 = "PCM_16"
	SubtypePCM24 = "PCM_24"
	SubtypePCM32 = "PCM_32"
)

const (
	defaultSampleRate  = core.DefaultSampleRate
	defaultDuration    = 1.0
	defaultTolerance   = 2.0
	defaultCeilingDBFS = -1.0
	defaultChannels    = 1
	defaultSilenceDBFS = -100.0
	defaultBandLowHz   = 20.0
	defaultBandHighHz  = 20000.0
)

// Spec is the delivery target a file is validated against.
type Spec struct {
	SampleRate      int     `json:"sample_rate"`
	Duration        float64 `json:"duration"`
	Tolerance       float64 `json:"duration_tolerance"`
	PeakCeilingDBFS float64 `json:"peak_ceiling_dbfs"`
	Subtype         string  `json:"subtype"`
	Channels        int     `json:"channels"`
	SilenceDBFS     float64 `json:"silence_dbfs"`
	BandLowHz       float64 `json:"band_low_hz"`
	BandHighHz      float64 `json:"band_high_hz"`
}

// DefaultSpec returns the standard delivery target: 48 kHz mono 32-bit
// float, one second +-2 s, peak at or below -1 dBFS.
func DefaultSpec() Spec {
	return Spec{
		SampleRate:      defaultSampleRate,
		Duration:        defaultDuration,
		Tolerance:       defaultTolerance,
		PeakCeilingDBFS: defaultCeilingDBFS,
		Subtype:         SubtypeFloat,
		Channels:        defaultChannels,
		SilenceDBFS:     defaultSilenceDBFS,
		BandLowHz:       defaultBandLowHz,
		BandHighHz:      defaultBandHighHz,
	}
}

// ParseSpec decodes a JSON target on top of DefaultSpec. Unknown fields
// are rejected.
func ParseSpec(data []byte) (Spec, error) {
	s := DefaultSpec()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Spec{}, fmt.Errorf("validate: parse spec: %w", err)
	}
	if err := s.Check(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// Check reports whether the target itself is usable.
func (s Spec) Check() error {
	switch {
	case s.SampleRate <= 0:
		return fmt.Errorf("validate spec sample rate must be > 0: %d", s.SampleRate)
	case !core.IsFinite(s.Duration) || s.Duration <= 0:
		return fmt.Errorf("validate spec duration must be > 0: %f", s.Duration)
	case !core.IsFinite(s.Tolerance) || s.Tolerance < 0:
		return fmt.Errorf("validate spec tolerance must be >= 0: %f", s.Tolerance)
	case !core.IsFinite(s.PeakCeilingDBFS):
		return fmt.Errorf("validate spec peak ceiling must be finite: %f", s.PeakCeilingDBFS)
	case s.Subtype == "":
		return fmt.Errorf("validate spec subtype must not be empty")
	case s.Channels <= 0:
		return fmt.Errorf("validate spec channels must be > 0: %d", s.Channels)
	case !core.IsFinite(s.SilenceDBFS):
		return fmt.Errorf("validate spec silence floor must be finite: %f", s.SilenceDBFS)
	case !core.IsFinite(s.BandLowHz) || !core.IsFinite(s.BandHighHz) ||
		s.BandLowHz < 0 || s.BandHighHz <= s.BandLowHz:
		return fmt.Errorf("validate spec band must satisfy 0 <= low < high: [%f, %f]", s.BandLowHz, s.BandHighHz)
	}
	return nil
}
