package dynamics

// silenceFloor is the envelope level below which no gain reduction is
// computed.
const silenceFloor = 1e-9

// gainComputer maps a detector level in dB to a gain change in dB (<= 0).
type gainComputer struct {
	thresholdDB float64
	ratio       float64
	kneeDB      float64
}

// reductionDB returns the gain change for levelDB. Inside a soft knee of
// width k the curve is the quadratic that meets the unity line at thr-k/2
// and the ratio line at thr+k/2 with matching slopes:
//
//	GR = (1/ratio - 1) * (L - thr + k/2)^2 / (2k)
//
// The static curve is therefore continuous and monotonic.
func (g gainComputer) reductionDB(levelDB float64) float64 {
	slope := 1/g.ratio - 1
	half := g.kneeDB / 2

	switch {
	case g.kneeDB > 0 && levelDB > g.thresholdDB-half && levelDB < g.thresholdDB+half:
		d := levelDB - g.thresholdDB + half
		return slope * d * d / (2 * g.kneeDB)
	case levelDB <= g.thresholdDB:
		return 0
	default:
		return (levelDB - g.thresholdDB) * slope
	}
}

// gainFor returns the linear gain for a linear envelope level.
func (g gainComputer) gainFor(envelope float64) float64 {
	if envelope < silenceFloor || g.ratio == 1 {
		return 1
	}
	gr := g.reductionDB(levelToDB(envelope))
	if gr == 0 {
		return 1
	}
	return dbToGain(gr)
}
