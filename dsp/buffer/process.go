package buffer

import (
	"fmt"
	"math"
)

// SampleProcessor is a stateful single-channel processor.
type SampleProcessor interface {
	ProcessSample(x float64) float64
}

// SampleProcessorFunc adapts a function to SampleProcessor.
type SampleProcessorFunc func(x float64) float64

// ProcessSample calls f(x).
func (f SampleProcessorFunc) ProcessSample(x float64) float64 { return f(x) }

// FrameProcessor is a detector-driven processor. Detect advances the shared
// detector with one rectified level; Apply then processes the sample of
// channel ch using the detector state.
type FrameProcessor interface {
	Detect(level float64)
	Apply(ch int, x float64) float64
}

// LinkMode selects how multi-channel detection is shared.
type LinkMode int

const (
	// Linked drives one detector with the per-frame channel maximum.
	Linked LinkMode = iota
	// Unlinked gives every channel its own detector.
	Unlinked
)

// String returns the mode name.
func (m LinkMode) String() string {
	switch m {
	case Linked:
		return "linked"
	case Unlinked:
		return "unlinked"
	default:
		return fmt.Sprintf("LinkMode(%d)", int(m))
	}
}

// ProcessEach runs an independent processor over every channel of a and
// returns the result as new audio. build is called once per channel before
// any sample is processed, so parameter errors surface before work begins.
func ProcessEach(a *Audio, build func(ch int) (SampleProcessor, error)) (*Audio, error) {
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}

	procs := make([]SampleProcessor, a.Channels())
	for ch := range procs {
		p, err := build(ch)
		if err != nil {
			return nil, err
		}
		procs[ch] = p
	}

	out := a.NewLike()
	for ch, p := range procs {
		src := a.data[ch]
		dst := out.data[ch]
		for i, x := range src {
			dst[i] = p.ProcessSample(x)
		}
	}

	return out, nil
}

// ProcessLinked runs detector-driven processing over a. In Linked mode build
// is called once with the channel count; in Unlinked mode it is called once
// per channel with a count of one and the processor sees channel index 0.
func ProcessLinked(a *Audio, mode LinkMode, build func(channels int) (FrameProcessor, error)) (*Audio, error) {
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}

	out := a.NewLike()
	frames := a.Frames()

	switch mode {
	case Linked:
		p, err := build(a.Channels())
		if err != nil {
			return nil, err
		}
		for i := 0; i < frames; i++ {
			level := 0.0
			for _, src := range a.data {
				if v := math.Abs(src[i]); v > level {
					level = v
				}
			}
			p.Detect(level)
			for ch, src := range a.data {
				out.data[ch][i] = p.Apply(ch, src[i])
			}
		}
	case Unlinked:
		procs := make([]FrameProcessor, a.Channels())
		for ch := range procs {
			p, err := build(1)
			if err != nil {
				return nil, err
			}
			procs[ch] = p
		}
		for ch, p := range procs {
			src := a.data[ch]
			dst := out.data[ch]
			for i, x := range src {
				p.Detect(math.Abs(x))
				dst[i] = p.Apply(0, x)
			}
		}
	default:
		return nil, fmt.Errorf("buffer: unknown link mode %d", int(mode))
	}

	return out, nil
}
