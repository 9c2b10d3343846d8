//go:build !fastmath

package dynamics

import "math"

// levelToDB converts a linear level to dB.
func levelToDB(x float64) float64 {
	return 20 * math.Log10(x)
}

// dbToGain converts dB to a linear gain.
func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
