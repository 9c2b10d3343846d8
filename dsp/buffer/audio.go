package buffer

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sfx/dsp/core"
)

// ErrChannelMismatch reports an unsupported channel layout or channels of
// unequal length.
var ErrChannelMismatch = errors.New("buffer: channel mismatch")

// MaxEffectChannels is the widest layout the effect library accepts.
const MaxEffectChannels = 2

// Audio is planar multi-channel audio at a fixed sample rate.
type Audio struct {
	data       [][]float64
	sampleRate float64
}

// New returns silent audio with the given shape.
func New(channels, frames int, sampleRate float64) (*Audio, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count must be > 0: %d", ErrChannelMismatch, channels)
	}
	if frames < 0 {
		return nil, fmt.Errorf("buffer: frame count must be >= 0: %d", frames)
	}
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("buffer: %w", err)
	}

	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, frames)
	}

	return &Audio{data: data, sampleRate: sampleRate}, nil
}

// FromMono copies samples into a single-channel Audio.
func FromMono(samples []float64, sampleRate float64) (*Audio, error) {
	return FromChannels([][]float64{samples}, sampleRate)
}

// FromChannels copies planar channel data into a new Audio. All channels
// must have the same length.
func FromChannels(channels [][]float64, sampleRate float64) (*Audio, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrChannelMismatch)
	}

	a, err := New(len(channels), len(channels[0]), sampleRate)
	if err != nil {
		return nil, err
	}

	for ch, src := range channels {
		if len(src) != len(channels[0]) {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d",
				ErrChannelMismatch, ch, len(src), len(channels[0]))
		}
		copy(a.data[ch], src)
	}

	return a, nil
}

// FromInterleaved de-interleaves frame-ordered samples.
func FromInterleaved(samples []float64, channels int, sampleRate float64) (*Audio, error) {
	if channels <= 0 || len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not divide into %d channels",
			ErrChannelMismatch, len(samples), channels)
	}

	frames := len(samples) / channels
	a, err := New(channels, frames, sampleRate)
	if err != nil {
		return nil, err
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			a.data[ch][i] = samples[i*channels+ch]
		}
	}

	return a, nil
}

// Channels returns the channel count.
func (a *Audio) Channels() int { return len(a.data) }

// Frames returns the number of samples per channel.
func (a *Audio) Frames() int {
	if len(a.data) == 0 {
		return 0
	}
	return len(a.data[0])
}

// SampleRate returns the sample rate in Hz.
func (a *Audio) SampleRate() float64 { return a.sampleRate }

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	return float64(a.Frames()) / a.sampleRate
}

// Channel returns the samples of channel ch. The slice aliases the Audio.
func (a *Audio) Channel(ch int) []float64 { return a.data[ch] }

// Clone returns a deep copy.
func (a *Audio) Clone() *Audio {
	data := make([][]float64, len(a.data))
	for ch, src := range a.data {
		data[ch] = append([]float64(nil), src...)
	}
	return &Audio{data: data, sampleRate: a.sampleRate}
}

// NewLike returns silent audio with the same shape and rate as a.
func (a *Audio) NewLike() *Audio {
	data := make([][]float64, len(a.data))
	for ch := range data {
		data[ch] = make([]float64, a.Frames())
	}
	return &Audio{data: data, sampleRate: a.sampleRate}
}

// Interleaved returns frame-ordered samples.
func (a *Audio) Interleaved() []float64 {
	channels := a.Channels()
	out := make([]float64, a.Frames()*channels)
	for ch, src := range a.data {
		for i, v := range src {
			out[i*channels+ch] = v
		}
	}
	return out
}

// Mono returns the mean of all channels as a single-channel Audio.
func (a *Audio) Mono() *Audio {
	if a.Channels() == 1 {
		return a.Clone()
	}

	out := make([]float64, a.Frames())
	scale := 1 / float64(a.Channels())
	for _, src := range a.data {
		for i, v := range src {
			out[i] += v * scale
		}
	}

	return &Audio{data: [][]float64{out}, sampleRate: a.sampleRate}
}

// Peak returns the largest absolute sample value across all channels.
func (a *Audio) Peak() float64 {
	peak := 0.0
	for _, src := range a.data {
		for _, v := range src {
			if abs := math.Abs(v); abs > peak {
				peak = abs
			}
		}
	}
	return peak
}

// Scale multiplies every sample by gain.
func (a *Audio) Scale(gain float64) {
	for _, src := range a.data {
		for i := range src {
			src[i] *= gain
		}
	}
}

// ClipInPlace hard-clips every channel to [-bound, bound].
func (a *Audio) ClipInPlace(bound float64) {
	for _, src := range a.data {
		core.ClipInPlace(src, bound)
	}
}

// NormalizeInPlace scales a so its peak equals target. Silent audio is left
// untouched.
func (a *Audio) NormalizeInPlace(target float64) {
	peak := a.Peak()
	if peak == 0 {
		return
	}
	a.Scale(target / peak)
}

// CheckEffectLayout reports whether a is mono or stereo.
func (a *Audio) CheckEffectLayout() error {
	if a == nil {
		return fmt.Errorf("%w: nil audio", ErrChannelMismatch)
	}
	if n := a.Channels(); n < 1 || n > MaxEffectChannels {
		return fmt.Errorf("%w: effects accept 1 or 2 channels, got %d", ErrChannelMismatch, n)
	}
	return nil
}
