// Package effectchain builds effect pipelines from named parameter sets.
//
// A Recipe is JSON:
//
//	{"steps": [
//	  {"effect": "chorus", "params": {"rate_hz": 0.8, "mix": 0.4}},
//	  {"effect": "long_reverb", "params": {"decay": 3, "seed": 7}},
//	  {"effect": "master"}
//	]}
//
// Effect names are matched case-insensitively with '-' and '_' treated
// alike. Parameters are checked when the chain is built: a key the effect
// does not read is ErrUnknownParam, an unregistered effect ErrUnknownEffect.
// Value ranges are checked by the effect itself when the step runs.
package effectchain
