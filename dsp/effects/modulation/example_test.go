package modulation_test

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/effects/modulation"
)

func ExampleApplyTremolo() {
	a, err := buffer.FromMono([]float64{1, 1, 1, 1, 1, 1, 1, 1}, 8)
	if err != nil {
		fmt.Println(err)
		return
	}

	out, err := modulation.ApplyTremolo(a,
		modulation.WithTremoloRate(1),
		modulation.WithTremoloDepth(0.5),
		modulation.WithTremoloShape("square"),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(out.Channel(0))
	// Output:
	// [1 1 1 1 0.5 0.5 0.5 0.5]
}

func ExampleNewPhaser_invalid() {
	_, err := modulation.NewPhaser(48000, modulation.WithPhaserStages(16))
	fmt.Println(err)
	// Output:
	// phaser stages must be in [1, 12]: 16
}
