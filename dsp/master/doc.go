// Package master implements the final mastering chain for a rendered sound:
// peak normalization, tanh saturation, four-band compression and a ceiling
// limiter.
//
// Mastering is mono. Stereo input is down-mixed before processing.
package master
