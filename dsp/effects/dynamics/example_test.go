package dynamics_test

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/effects/dynamics"
)

func ExampleNewCompressor() {
	c, err := dynamics.NewCompressor(1000,
		dynamics.WithCompressorThreshold(-20),
		dynamics.WithCompressorRatio(4),
		dynamics.WithCompressorAttack(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	for i := 0; i < 200; i++ {
		c.ProcessSample(1)
	}
	fmt.Printf("%.2f dB\n", c.GainReductionDB())
	// Output: -15.00 dB
}

func ExampleNewGate_invalid() {
	_, err := dynamics.NewGate(48000, dynamics.WithGateAttenuation(6))
	fmt.Println(err)
	// Output: gate attenuation must be <= 0: 6.000000
}
