// Package envelope provides amplitude followers used by dynamics and
// envelope-driven modulation.
package envelope

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/core"
)

// Follower is a peak envelope follower with separate attack and release
// time constants. Feed it rectified samples.
type Follower struct {
	sampleRate   float64
	attackMs     float64
	releaseMs    float64
	attackCoeff  float64
	releaseCoeff float64
	level        float64
}

// NewFollower returns a follower with the given attack and release times.
// Times must be >= 0. Time constants shorter than one sample are treated as
// one sample.
func NewFollower(sampleRate, attackMs, releaseMs float64) (*Follower, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("envelope follower: %w", err)
	}

	f := &Follower{sampleRate: sampleRate}
	if err := f.SetAttack(attackMs); err != nil {
		return nil, err
	}
	if err := f.SetRelease(releaseMs); err != nil {
		return nil, err
	}

	return f, nil
}

// SetAttack updates the rise time in milliseconds.
func (f *Follower) SetAttack(ms float64) error {
	if ms < 0 || !core.IsFinite(ms) {
		return fmt.Errorf("envelope attack must be >= 0 and finite: %f", ms)
	}
	f.attackMs = ms
	f.attackCoeff = core.SmoothingCoeff(ms, f.sampleRate)
	return nil
}

// SetRelease updates the fall time in milliseconds.
func (f *Follower) SetRelease(ms float64) error {
	if ms < 0 || !core.IsFinite(ms) {
		return fmt.Errorf("envelope release must be >= 0 and finite: %f", ms)
	}
	f.releaseMs = ms
	f.releaseCoeff = core.SmoothingCoeff(ms, f.sampleRate)
	return nil
}

// Process advances the follower with one rectified input and returns the new
// level.
func (f *Follower) Process(x float64) float64 {
	a := f.releaseCoeff
	if x > f.level {
		a = f.attackCoeff
	}
	f.level = a*f.level + (1-a)*x
	return f.level
}

// Level returns the current envelope without advancing it.
func (f *Follower) Level() float64 { return f.level }

// AttackMs returns the attack time.
func (f *Follower) AttackMs() float64 { return f.attackMs }

// ReleaseMs returns the release time.
func (f *Follower) ReleaseMs() float64 { return f.releaseMs }

// Reset clears the envelope.
func (f *Follower) Reset() { f.level = 0 }
