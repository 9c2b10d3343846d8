package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/effects"
)

func ExampleApplyDelay() {
	in := make([]float64, 8)
	in[0] = 1
	a, _ := buffer.FromMono(in, 1000)

	out, err := effects.ApplyDelay(a,
		effects.WithDelayTime(0.003),
		effects.WithDelayFeedback(0.5),
		effects.WithDelayMix(0.5),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out.Channel(0))
	// Output: [0.5 0 0 0.5 0 0 0.25 0]
}

func ExampleNewDistortion() {
	d, _ := effects.NewDistortion(effects.WithDistortionDrive(1))
	fmt.Printf("%.2f %.2f\n", d.ProcessSample(0.05), d.ProcessSample(0.5))
	// Output: 0.50 0.80
}

func ExampleApplyDelay_invalid() {
	a, _ := buffer.FromMono([]float64{0}, 48000)
	_, err := effects.ApplyDelay(a, effects.WithDelayFeedback(1))
	fmt.Println(err)
	// Output: delay feedback must be in [0, 1): 1.000000
}
