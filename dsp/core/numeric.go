package core

import (
	"fmt"
	"math"
)

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClipInPlace hard-clips every sample of buf to [-bound, bound].
func ClipInPlace(buf []float64, bound float64) {
	for i, v := range buf {
		if v > bound {
			buf[i] = bound
		} else if v < -bound {
			buf[i] = -bound
		}
	}
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// MsToSamples converts a duration in milliseconds to (fractional) samples.
func MsToSamples(ms, sampleRate float64) float64 {
	return ms * 0.001 * sampleRate
}

// SmoothingCoeff returns the one-pole coefficient exp(-1/n) for a time
// constant of ms milliseconds, with n floored at one sample.
func SmoothingCoeff(ms, sampleRate float64) float64 {
	n := MsToSamples(ms, sampleRate)
	if n < 1 {
		n = 1
	}

	return math.Exp(-1 / n)
}

// ValidateSampleRate rejects non-positive and non-finite sample rates.
func ValidateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return fmt.Errorf("sample rate must be > 0 and finite: %f", sampleRate)
	}

	return nil
}

// ValidateRange returns an error unless v is finite and lo <= v <= hi.
// name prefixes the message, e.g. "chorus mix".
func ValidateRange(name string, v, lo, hi float64) error {
	if !IsFinite(v) || v < lo || v > hi {
		return fmt.Errorf("%s must be in [%g, %g]: %f", name, lo, hi, v)
	}

	return nil
}

// ValidateFeedback checks the half-open stability range [0, 1).
func ValidateFeedback(name string, v float64) error {
	if !IsFinite(v) || v < 0 || v >= 1 {
		return fmt.Errorf("%s must be in [0, 1): %f", name, v)
	}

	return nil
}
