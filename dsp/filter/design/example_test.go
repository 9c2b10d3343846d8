package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/filter/biquad"
	"github.com/cwbudde/algo-sfx/dsp/filter/design"
)

func ExampleButterworthBP() {
	// Second-order high-pass at 500 Hz followed by a second-order low-pass
	// at 4 kHz.
	coeffs := design.ButterworthBP(500, 4000, 2, 48000)
	band := biquad.NewChain(coeffs)

	fmt.Println("sections:", band.NumSections())
	fmt.Printf("1 kHz: %.1f dB\n", band.MagnitudeDB(1000, 48000))
	fmt.Println("10 Hz below -60 dB:", band.MagnitudeDB(10, 48000) < -60)
	// Output:
	// sections: 2
	// 1 kHz: -0.3 dB
	// 10 Hz below -60 dB: true
}
