package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/envelope"
)

// BandCompressor is the hard-knee compressor applied to each band of the
// mastering chain. A ratio of 1 passes the band through untouched.
type BandCompressor struct {
	env      *envelope.Follower
	computer gainComputer
}

// NewBandCompressor creates a band compressor. ratio must be >= 1 and the
// attack and release times >= 0.
func NewBandCompressor(sampleRate, thresholdDB, ratio, attackMs, releaseMs float64) (*BandCompressor, error) {
	if !core.IsFinite(thresholdDB) {
		return nil, fmt.Errorf("band compressor threshold must be finite: %f", thresholdDB)
	}
	if !core.IsFinite(ratio) || ratio < minCompressorRatio {
		return nil, fmt.Errorf("band compressor ratio must be >= %g: %f", minCompressorRatio, ratio)
	}
	env, err := envelope.NewFollower(sampleRate, attackMs, releaseMs)
	if err != nil {
		return nil, fmt.Errorf("band compressor: %w", err)
	}
	return &BandCompressor{
		env:      env,
		computer: gainComputer{thresholdDB: thresholdDB, ratio: ratio},
	}, nil
}

// ProcessSample compresses one sample.
func (b *BandCompressor) ProcessSample(x float64) float64 {
	level := b.env.Process(math.Abs(x))
	return x * b.computer.gainFor(level)
}

// ProcessInPlace compresses buf in place.
func (b *BandCompressor) ProcessInPlace(buf []float64) {
	if b.computer.ratio == 1 {
		return
	}
	for i, x := range buf {
		buf[i] = b.ProcessSample(x)
	}
}

// Reset clears the detector.
func (b *BandCompressor) Reset() { b.env.Reset() }
