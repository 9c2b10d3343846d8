package spectrum

import (
	"fmt"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// BandLimit returns x band-passed to [lowHz, highHz] with zero phase shift.
// The signal is zero-padded to the next power of two, bins outside the band
// are cleared on both halves of the spectrum and the inverse transform is
// cropped back to len(x).
func BandLimit(x []float64, sampleRate, lowHz, highHz float64) ([]float64, error) {
	bins, n, err := forward(x, sampleRate, lowHz, highHz)
	if err != nil {
		return nil, err
	}
	if bins == nil {
		return []float64{}, nil
	}

	binHz := sampleRate / float64(n)
	for k := 0; k <= n/2; k++ {
		f := float64(k) * binHz
		if f >= lowHz && f <= highHz {
			continue
		}
		bins[k] = 0
		if k > 0 && k < n-k {
			bins[n-k] = 0
		}
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: plan: %w", err)
	}
	if err := plan.Inverse(bins, bins); err != nil {
		return nil, fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}

	out := make([]float64, len(x))
	for i := range out {
		out[i] = real(bins[i])
	}
	return out, nil
}

// BandEnergy returns the mean-square energy of x inside [lowHz, highHz].
// By Parseval it equals mean(x^2) when the band covers the whole spectrum
// and the length is a power of two.
func BandEnergy(x []float64, sampleRate, lowHz, highHz float64) (float64, error) {
	bins, n, err := forward(x, sampleRate, lowHz, highHz)
	if err != nil || bins == nil {
		return 0, err
	}

	pow := Power(bins)
	mask := make([]float64, n)
	binHz := sampleRate / float64(n)
	for k := 0; k < n; k++ {
		m := k
		if k > n/2 {
			m = n - k
		}
		if f := float64(m) * binHz; f >= lowHz && f <= highHz {
			mask[k] = 1
		}
	}

	return vecmath.DotProduct(pow, mask) / (float64(n) * float64(n)), nil
}

func forward(x []float64, sampleRate, lowHz, highHz float64) ([]complex128, int, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, 0, fmt.Errorf("spectrum: %w", err)
	}
	if !core.IsFinite(lowHz) || !core.IsFinite(highHz) || lowHz < 0 || highHz <= lowHz {
		return nil, 0, fmt.Errorf("spectrum band must satisfy 0 <= low < high: [%f, %f]", lowHz, highHz)
	}
	if len(x) == 0 {
		return nil, 0, nil
	}

	n := nextPowerOfTwo(len(x))
	bins := make([]complex128, n)
	for i, v := range x {
		bins[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, 0, fmt.Errorf("spectrum: plan: %w", err)
	}
	if err := plan.Forward(bins, bins); err != nil {
		return nil, 0, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	return bins, n, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 2 {
		return 2
	}
	return 1 << bits.Len(uint(n-1))
}
