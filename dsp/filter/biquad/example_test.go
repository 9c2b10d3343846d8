package biquad_test

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/filter/biquad"
)

func ExampleChain() {
	avg := biquad.Coefficients{B0: 0.5, B1: 0.5}
	ch := biquad.NewChain([]biquad.Coefficients{avg, avg})

	for _, x := range []float64{1, 0, 0, 0} {
		fmt.Printf("%.2f ", ch.ProcessSample(x))
	}
	fmt.Println()
	// Output: 0.25 0.50 0.25 0.00
}
