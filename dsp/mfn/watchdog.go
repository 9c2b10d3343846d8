package mfn

import (
	"github.com/cwbudde/algo-sfx/dsp/core"
)

const (
	defaultWatchdogLimit          = 0.85
	defaultWatchdogMaxReductionDB = -18.0
	watchdogAttack                = 0.05
	watchdogRelease               = 0.005
	watchdogEpsilon               = 1e-9
)

// watchdog tracks a smoothed block RMS and returns a gain that pulls it back
// toward the limit.
type watchdog struct {
	limit   float64
	floor   float64
	average float64
}

func newWatchdog(limit, maxReductionDB float64) *watchdog {
	return &watchdog{limit: limit, floor: core.DBToLinear(maxReductionDB)}
}

// update folds in one block RMS and returns the gain for that block.
func (w *watchdog) update(rms float64) float64 {
	coeff := watchdogRelease
	if rms > w.average {
		coeff = watchdogAttack
	}
	w.average += (rms - w.average) * coeff

	if w.average <= w.limit {
		return 1
	}
	return core.Clamp(w.limit/(w.average+watchdogEpsilon), w.floor, 1)
}

func (w *watchdog) reset() { w.average = 0 }
