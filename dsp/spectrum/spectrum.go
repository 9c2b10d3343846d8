package spectrum

import "github.com/cwbudde/algo-vecmath"

// Power returns |X[k]|^2 for each bin.
func Power(bins []complex128) []float64 {
	if len(bins) == 0 {
		return nil
	}

	re := make([]float64, len(bins))
	im := make([]float64, len(bins))
	for k, c := range bins {
		re[k], im[k] = real(c), imag(c)
	}

	out := make([]float64, len(bins))
	vecmath.Power(out, re, im)
	return out
}
