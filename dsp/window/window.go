// Package window provides the analysis window used to shape grains.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Hann returns the symmetric Hann window of the given size,
// w[n] = 0.5 - 0.5*cos(2*pi*n/(size-1)). A size of one yields [1].
func Hann(size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", size)
	}

	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w, nil
	}

	den := float64(size - 1)
	for n := range w {
		w[n] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(n)/den)
	}

	return w, nil
}

// Apply multiplies dst by w element-wise.
func Apply(dst, w []float64) error {
	if len(dst) != len(w) {
		return fmt.Errorf("window length %d does not match buffer length %d", len(w), len(dst))
	}
	if len(dst) == 0 {
		return nil
	}

	vecmath.MulBlockInPlace(dst, w)
	return nil
}
