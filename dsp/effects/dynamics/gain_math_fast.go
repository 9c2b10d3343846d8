//go:build fastmath

package dynamics

import (
	"github.com/meko-christian/algo-approx"
)

// ln10 is the natural logarithm of 10.
const ln10 = 2.302585092994045684017991454684

// levelToDB converts a linear level to dB using a fast logarithm.
func levelToDB(x float64) float64 {
	return 20 * approx.FastLog(x) / ln10
}

// dbToGain converts dB to a linear gain using a fast exponential.
func dbToGain(db float64) float64 {
	return approx.FastExp(db * ln10 / 20)
}
