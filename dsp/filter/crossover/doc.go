// Package crossover splits a signal into adjacent frequency bands for
// multiband processing.
//
// [MultiBand] runs the bands in parallel from the same input: a Butterworth
// low-pass below the first edge, Butterworth band-passes (high-pass then
// low-pass) between consecutive edges and a Butterworth high-pass above the
// last edge. The bands are not allpass-complementary; their sum has ripple
// and a phase shift around each edge, which the zero-phase mode removes at
// the cost of a squared magnitude response.
package crossover
