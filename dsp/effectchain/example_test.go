package effectchain_test

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/effectchain"
)

func ExampleNew() {
	recipe, err := effectchain.ParseRecipe([]byte(`{"steps": [
		{"effect": "Echo", "params": {"time": 0.002, "feedback": 0.5, "mix": 1}},
		{"effect": "bitcrusher", "params": {"bit_depth": 8}}
	]}`))
	if err != nil {
		fmt.Println(err)
		return
	}

	chain, err := effectchain.New(recipe, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(chain.Effects())

	in, _ := buffer.FromMono(make([]float64, 480), 48000)
	out, err := chain.Process(in)
	fmt.Println(out.Frames(), err)
	// Output:
	// [echo bitcrusher]
	// 480 <nil>
}

func ExampleNew_unknownParam() {
	recipe := effectchain.Recipe{Steps: []effectchain.Step{{
		Effect: "phaser",
		Params: effectchain.Params{Num: map[string]float64{"rate_hz": 0.5, "speed": 2}},
	}}}
	_, err := effectchain.New(recipe, nil)
	fmt.Println(err)
	// Output:
	// effectchain: step 0 (phaser): effectchain: unknown parameter for phaser: speed
}
