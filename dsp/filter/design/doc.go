// Package design produces biquad coefficients for dsp/filter/biquad.
//
// RBJ sections ([Lowpass], [Highpass], [Bandpass]) drive single-section
// uses; the Butterworth cascades feed the envelope-controlled band-pass and
// the mastering crossover. Designers return zero coefficients or nil on
// invalid input instead of an error.
package design
