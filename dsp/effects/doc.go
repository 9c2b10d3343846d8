// Package effects provides the offline sound-design effects that do not
// belong to a more specific subpackage.
//
// Subpackages:
//   - github.com/cwbudde/algo-sfx/dsp/effects/dynamics
//   - github.com/cwbudde/algo-sfx/dsp/effects/modulation
//   - github.com/cwbudde/algo-sfx/dsp/effects/reverb
//
// Effects in this package:
//   - Delay, echo and dub echo: feedback delay with optional damped feedback.
//   - Distortion, Overdrive and fuzz: clipping and saturation stages.
//   - Rainbow machine: iterative pitch-shifted feedback shimmer.
//   - Particle: seeded granular resynthesis.
//   - BitCrusher: peak-relative quantization with sample-and-hold.
//
// Every effect validates its parameters before touching audio. The Apply*
// functions take a mono or stereo [buffer.Audio], run each channel from
// fresh state and hard-clip the result to [-1, 1].
package effects
