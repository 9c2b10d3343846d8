package buffer

import (
	"fmt"
	"math"
)

const (
	trimFrameLength = 2048
	trimHopLength   = 512

	// DefaultTrimTopDB is the level below the loudest frame treated as silence.
	DefaultTrimTopDB = 40.0
)

// TrimSilence removes leading and trailing frames whose RMS lies more than
// topDB below the loudest frame. Fully silent input yields zero frames.
func TrimSilence(a *Audio, topDB float64) (*Audio, error) {
	if topDB <= 0 || math.IsNaN(topDB) || math.IsInf(topDB, 0) {
		return nil, fmt.Errorf("buffer: trim threshold must be > 0 dB: %f", topDB)
	}

	mono := a.Mono().data[0]
	n := len(mono)
	if n == 0 {
		return a.Clone(), nil
	}

	numFrames := 1
	if n > trimFrameLength {
		numFrames = 1 + (n-trimFrameLength+trimHopLength-1)/trimHopLength
	}

	rms := make([]float64, numFrames)
	ref := 0.0
	for f := range rms {
		start := f * trimHopLength
		end := min(start+trimFrameLength, n)
		sum := 0.0
		for _, v := range mono[start:end] {
			sum += v * v
		}
		rms[f] = math.Sqrt(sum / float64(end-start))
		ref = math.Max(ref, rms[f])
	}

	if ref == 0 {
		return trimmed(a, 0, 0), nil
	}

	floor := ref * math.Pow(10, -topDB/20)
	first, last := -1, -1
	for f, v := range rms {
		if v > floor {
			if first < 0 {
				first = f
			}
			last = f
		}
	}

	start := first * trimHopLength
	end := min(last*trimHopLength+trimFrameLength, n)

	return trimmed(a, start, end), nil
}

func trimmed(a *Audio, start, end int) *Audio {
	data := make([][]float64, a.Channels())
	for ch, src := range a.data {
		data[ch] = append([]float64(nil), src[start:end]...)
	}
	return &Audio{data: data, sampleRate: a.sampleRate}
}
