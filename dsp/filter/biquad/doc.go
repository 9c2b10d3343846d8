// Package biquad provides second-order IIR sections and cascades.
//
// A [Section] runs Direct Form II Transposed. A [Chain] cascades sections
// for the higher-order Butterworth responses used by the band-pass envelope
// filter and the mastering crossover. Coefficient design lives in
// dsp/filter/design.
package biquad
