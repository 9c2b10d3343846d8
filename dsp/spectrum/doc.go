// Package spectrum provides FFT-domain helpers built on algo-fft: zero-phase
// band limiting and band energy measurement.
package spectrum
