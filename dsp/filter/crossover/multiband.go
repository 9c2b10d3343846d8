package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-sfx/dsp/filter/biquad"
	"github.com/cwbudde/algo-sfx/dsp/filter/design"
)

// MultiBand is a parallel Butterworth band splitter with N edges and N+1
// bands ordered from lowest to highest.
type MultiBand struct {
	edges []float64
	order int
	sr    float64
	bands []*biquad.Chain
}

// NewMultiBand designs the bands for the given edge frequencies. Edges must
// be strictly ascending inside (0, sampleRate/2) and order must be > 0.
func NewMultiBand(edges []float64, order int, sampleRate float64) (*MultiBand, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("crossover: %w", err)
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("crossover: at least one edge frequency is required")
	}
	if order <= 0 {
		return nil, fmt.Errorf("crossover: order must be > 0: %d", order)
	}
	nyquist := sampleRate / 2
	for i, f := range edges {
		if !core.IsFinite(f) || f <= 0 || f >= nyquist {
			return nil, fmt.Errorf("crossover: edge must be in (0, %g): %g", nyquist, f)
		}
		if i > 0 && f <= edges[i-1] {
			return nil, fmt.Errorf("crossover: edges must be strictly ascending, got %g after %g", f, edges[i-1])
		}
	}

	m := &MultiBand{
		edges: append([]float64(nil), edges...),
		order: order,
		sr:    sampleRate,
		bands: make([]*biquad.Chain, len(edges)+1),
	}

	last := len(edges)
	for b := range m.bands {
		var coeffs []biquad.Coefficients
		switch {
		case b == 0:
			coeffs = design.ButterworthLP(edges[0], order, sampleRate)
		case b == last:
			coeffs = design.ButterworthHP(edges[last-1], order, sampleRate)
		default:
			coeffs = design.ButterworthBP(edges[b-1], edges[b], order, sampleRate)
		}
		if coeffs == nil {
			return nil, fmt.Errorf("crossover: failed to design band %d", b)
		}
		m.bands[b] = biquad.NewChain(coeffs)
	}

	return m, nil
}

// NumBands returns the number of output bands.
func (m *MultiBand) NumBands() int { return len(m.bands) }

// Edges returns a copy of the edge frequencies.
func (m *MultiBand) Edges() []float64 { return append([]float64(nil), m.edges...) }

// Order returns the Butterworth order of each band edge.
func (m *MultiBand) Order() int { return m.order }

// Band returns the filter chain of band b.
func (m *MultiBand) Band(b int) *biquad.Chain { return m.bands[b] }

// ProcessBlock filters input through every band and returns one output
// block per band. Filter state carries over between calls.
func (m *MultiBand) ProcessBlock(input []float64) [][]float64 {
	out := make([][]float64, len(m.bands))
	for b, chain := range m.bands {
		out[b] = append([]float64(nil), input...)
		chain.ProcessBlock(out[b])
	}
	return out
}

// ProcessZeroPhase filters input forward and backward through every band.
// Each band starts and ends from cleared state.
func (m *MultiBand) ProcessZeroPhase(input []float64) [][]float64 {
	out := make([][]float64, len(m.bands))
	for b, chain := range m.bands {
		out[b] = append([]float64(nil), input...)
		chain.ProcessZeroPhase(out[b])
	}
	return out
}

// Reset clears every band's filter state.
func (m *MultiBand) Reset() {
	for _, chain := range m.bands {
		chain.Reset()
	}
}
