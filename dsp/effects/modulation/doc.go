// Package modulation provides LFO- and envelope-driven effects.
//
// Included processors:
//   - Chorus: single-voice modulated delay with feedback.
//   - Flanger: short modulated delay with high feedback.
//   - Vibrato: fully wet modulated delay.
//   - Phaser: modulated first-order allpass cascade with feedback.
//   - Tremolo: LFO amplitude modulation.
//   - AutoWah: envelope- and LFO-swept band-pass.
//
// Every processor has a streaming type for one channel and an Apply
// function over buffer.Audio that builds fresh per-channel state, offsets the
// right channel's LFO for stereo width and clips the result to [-1, 1].
package modulation
