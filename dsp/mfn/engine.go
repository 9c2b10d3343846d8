package mfn

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/cwbudde/algo-sfx/dsp/core"
)

var blockPool = buffer.NewPool()

// Option configures an Engine.
type Option func(*config) error

type config struct {
	blockSize      int
	kernel         string
	watchdog       bool
	watchdogLimit  float64
	maxReductionDB float64
}

func defaultConfig() config {
	return config{
		blockSize:      core.DefaultBlockSize,
		watchdog:       true,
		watchdogLimit:  defaultWatchdogLimit,
		maxReductionDB: defaultWatchdogMaxReductionDB,
	}
}

// WithBlockSize sets the processing block length (> 0).
func WithBlockSize(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("mfn block size must be > 0: %d", n)
		}
		cfg.blockSize = n
		return nil
	}
}

// WithKernel forces a kernel by name instead of selecting one from the CPU
// features.
func WithKernel(name string) Option {
	return func(cfg *config) error {
		if _, err := lookupKernel(name); err != nil || name == "" {
			return fmt.Errorf("%w: %q", ErrUnknownKernel, name)
		}
		cfg.kernel = name
		return nil
	}
}

// WithWatchdog enables or disables the RMS watchdog.
func WithWatchdog(enabled bool) Option {
	return func(cfg *config) error {
		cfg.watchdog = enabled
		return nil
	}
}

// WithWatchdogLimit sets the average RMS above which blocks are scaled down,
// in (0, 1].
func WithWatchdogLimit(rms float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(rms) || rms <= 0 || rms > 1 {
			return fmt.Errorf("mfn watchdog limit must be in (0, 1]: %f", rms)
		}
		cfg.watchdogLimit = rms
		return nil
	}
}

// WithWatchdogMaxReduction sets the largest watchdog attenuation in dB (<= 0).
func WithWatchdogMaxReduction(dB float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(dB) || dB > 0 {
			return fmt.Errorf("mfn watchdog max reduction must be <= 0: %f", dB)
		}
		cfg.maxReductionDB = dB
		return nil
	}
}

// Engine runs one channel through a graph. It is not safe for concurrent
// use.
type Engine struct {
	net        *network
	kernel     Kernel
	kernelName string
	block      int
	watchdog   *watchdog

	in, out []float64
}

// NewEngine prepares the runtime state for g at sampleRate.
func NewEngine(g *Graph, sampleRate float64, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidGraph)
	}
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("mfn: %w", err)
	}

	cfg := defaultConfig()
	if err := core.ApplyOptions(&cfg, opts); err != nil {
		return nil, err
	}

	entry, err := lookupKernel(cfg.kernel)
	if err != nil {
		return nil, err
	}

	net := newNetwork(g, sampleRate, cfg.blockSize)
	e := &Engine{
		net:        net,
		kernel:     entry.build(net),
		kernelName: entry.name,
		block:      cfg.blockSize,
		in:         blockPool.Get(cfg.blockSize),
		out:        blockPool.Get(cfg.blockSize),
	}
	if cfg.watchdog {
		e.watchdog = newWatchdog(cfg.watchdogLimit, cfg.maxReductionDB)
	}

	return e, nil
}

// KernelName returns the name of the kernel in use.
func (e *Engine) KernelName() string { return e.kernelName }

// BlockSize returns the processing block length.
func (e *Engine) BlockSize() int { return e.block }

// Process runs src through the network into dst. A graph without nodes
// copies src. A short final block is zero-padded and truncated.
func (e *Engine) Process(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("mfn: dst length %d does not match src length %d", len(dst), len(src))
	}
	if len(e.net.nodes) == 0 {
		copy(dst, src)
		return nil
	}

	for start := 0; start < len(src); start += e.block {
		end := min(start+e.block, len(src))
		n := copy(e.in, src[start:end])
		clear(e.in[n:])

		rms := e.kernel.RunBlock(e.in, e.out)
		if e.watchdog != nil {
			if gain := e.watchdog.update(rms); gain != 1 {
				for i := range e.out {
					e.out[i] *= gain
				}
				core.ClipInPlace(e.out, 1)
			}
		}

		copy(dst[start:end], e.out)
	}
	return nil
}

// Release hands the scratch blocks back for reuse. The engine must not be
// used afterwards.
func (e *Engine) Release() {
	blockPool.Put(e.in)
	blockPool.Put(e.out)
	e.in, e.out = nil, nil
}

// Reset clears every ring buffer and the watchdog.
func (e *Engine) Reset() {
	e.net.reset()
	if e.watchdog != nil {
		e.watchdog.reset()
	}
}

// Apply runs every channel of a through g with its own engine state.
func Apply(a *buffer.Audio, g *Graph, opts ...Option) (*buffer.Audio, error) {
	if err := a.CheckEffectLayout(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidGraph)
	}
	if len(g.nodes) == 0 {
		return a.Clone(), nil
	}

	engines := make([]*Engine, a.Channels())
	for ch := range engines {
		e, err := NewEngine(g, a.SampleRate(), opts...)
		if err != nil {
			return nil, err
		}
		defer e.Release()
		engines[ch] = e
	}

	out := a.NewLike()
	for ch, e := range engines {
		if err := e.Process(out.Channel(ch), a.Channel(ch)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
