package buffer

import (
	"fmt"
	"math"
)

func pcmBounds(bits int) (lo, hi int, err error) {
	if bits < 8 || bits > 32 || bits%8 != 0 {
		return 0, 0, fmt.Errorf("buffer: PCM bit depth must be 8, 16, 24 or 32: %d", bits)
	}
	full := 1 << (bits - 1)
	return -full, full - 1, nil
}

// ToPCM converts a to interleaved signed integers of the given bit depth.
// Samples are scaled by 2^(bits-1) and clipped to the exact integer bounds.
func (a *Audio) ToPCM(bits int) ([]int, error) {
	lo, hi, err := pcmBounds(bits)
	if err != nil {
		return nil, err
	}

	scale := float64(hi + 1)
	channels := a.Channels()
	out := make([]int, a.Frames()*channels)
	for ch, src := range a.data {
		for i, v := range src {
			s := math.Round(v * scale)
			switch {
			case s > float64(hi):
				s = float64(hi)
			case s < float64(lo):
				s = float64(lo)
			}
			out[i*channels+ch] = int(s)
		}
	}

	return out, nil
}

// FromPCM builds Audio from interleaved signed integers.
func FromPCM(samples []int, channels, bits int, sampleRate float64) (*Audio, error) {
	_, hi, err := pcmBounds(bits)
	if err != nil {
		return nil, err
	}

	scale := 1 / float64(hi+1)
	floats := make([]float64, len(samples))
	for i, s := range samples {
		floats[i] = float64(s) * scale
	}

	return FromInterleaved(floats, channels, sampleRate)
}
