// Package dynamics provides envelope-driven gain processors.
//
// Included processors:
//   - Compressor: feed-forward compressor with optional soft knee and
//     linked or unlinked stereo detection.
//   - Gate: noise gate driven by an explicit attack/hold/release state
//     machine.
//   - BandCompressor: hard-knee compressor used per band by the mastering
//     chain.
//
// Level and gain conversions use algo-approx when built with the fastmath
// tag.
package dynamics
