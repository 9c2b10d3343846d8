package crossover_test

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/filter/crossover"
)

func ExampleNewMultiBand() {
	m, _ := crossover.NewMultiBand([]float64{150, 800, 4000}, 4, 48000)

	fmt.Printf("bands=%d\n", m.NumBands())
	fmt.Printf("low band at 150 Hz:   %.2f dB\n", m.Band(0).MagnitudeDB(150, 48000))
	fmt.Printf("high band at 4000 Hz: %.2f dB\n", m.Band(3).MagnitudeDB(4000, 48000))
	// Output:
	// bands=4
	// low band at 150 Hz:   -3.01 dB
	// high band at 4000 Hz: -3.01 dB
}
