// Package buffer provides the Audio value type threaded through every effect
// in this module, together with the channel-processing helpers that let an
// effect describe its per-sample work once and run it on mono or stereo input.
//
// An Audio holds planar float64 channels and the sample rate they were
// recorded at. Effects receive an *Audio, never modify it, and return a new
// *Audio of the same shape.
//
// Two processing shapes cover the effect library:
//
//   - ProcessEach runs an independent SampleProcessor per channel
//     (delays, chorus, phaser, tremolo, ...). The builder receives the
//     channel index so stereo variants can offset their LFO phase.
//   - ProcessLinked runs a FrameProcessor whose detector sees one level per
//     frame. In Linked mode the level is the maximum magnitude across
//     channels, so gain changes never shift the stereo image. In Unlinked
//     mode every channel gets its own processor and detector.
package buffer
