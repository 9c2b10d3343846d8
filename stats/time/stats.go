// Package time provides time-domain level measurements.
package time

import (
	"math"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// FullScale is the magnitude treated as clipping.
const FullScale = 1.0

// Peak returns the largest absolute sample value, 0 for an empty signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return vecmath.MaxAbs(signal)
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(signal, signal) / float64(len(signal)))
}

// DC returns the mean of the signal.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return vecmath.Sum(signal) / float64(len(signal))
}

// PeakDBFS returns the peak in dB relative to full scale; silence is -Inf.
func PeakDBFS(signal []float64) float64 {
	return core.LinearToDB(Peak(signal))
}

// RMSDBFS returns the RMS in dB relative to full scale; silence is -Inf.
func RMSDBFS(signal []float64) float64 {
	return core.LinearToDB(RMS(signal))
}

// Levels summarizes the amplitude of a multi-channel buffer. Peak is taken
// over all channels; RMS and DC pool every sample.
type Levels struct {
	Peak           float64
	PeakDBFS       float64
	RMS            float64
	RMSDBFS        float64
	DC             float64
	CrestFactor    float64 // peak / RMS, 0 for silence
	ClippedSamples int     // samples at or beyond full scale
}

// Measure computes Levels for a.
func Measure(a *buffer.Audio) Levels {
	var (
		peak, energy, sum float64
		clipped, n        int
	)
	for ch := 0; ch < a.Channels(); ch++ {
		x := a.Channel(ch)
		peak = math.Max(peak, Peak(x))
		energy += vecmath.DotProduct(x, x)
		sum += vecmath.Sum(x)
		n += len(x)
		for _, v := range x {
			if math.Abs(v) >= FullScale {
				clipped++
			}
		}
	}

	l := Levels{
		Peak:           peak,
		PeakDBFS:       core.LinearToDB(peak),
		RMSDBFS:        math.Inf(-1),
		ClippedSamples: clipped,
	}
	if n == 0 {
		return l
	}
	l.RMS = math.Sqrt(energy / float64(n))
	l.RMSDBFS = core.LinearToDB(l.RMS)
	l.DC = sum / float64(n)
	if l.RMS > 0 {
		l.CrestFactor = peak / l.RMS
	}
	return l
}
