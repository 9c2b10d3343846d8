package mfn

import (
	"math"

	"github.com/cwbudde/algo-sfx/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Kernel advances a network by one block. in and out have the engine's block
// length; the return value is the RMS of out.
type Kernel interface {
	RunBlock(in, out []float64) float64
}

// portableKernel is the scalar reference implementation.
type portableKernel struct {
	net *network
}

func (k *portableKernel) RunBlock(in, out []float64) float64 {
	n := k.net

	for i := range n.nodes {
		acc := n.acc[i]
		for j, x := range in {
			acc[j] = x * n.inputGain
		}
	}

	for _, c := range n.conns {
		src := &n.nodes[c.src]
		acc := n.acc[c.dst]
		size := len(src.buf)
		start := ((src.pos-n.feedbackBack(src))%size + size) % size
		g := src.gain * c.gain
		for j := range acc {
			acc[j] += src.buf[(start+j)%size] * g
		}
	}

	for j := range out {
		out[j] = 0
	}
	for i := range n.nodes {
		node := &n.nodes[i]
		n.saturate(n.acc[i])
		node.write(n.acc[i])

		size := len(node.buf)
		start := ((node.pos-n.tapBack(node))%size + size) % size
		for j := range out {
			out[j] += node.buf[(start+j)%size] * node.gain
		}
	}

	sum := 0.0
	for j, y := range out {
		y = core.Clamp(y*n.outputGain, -1, 1)
		out[j] = y
		sum += y * y
	}
	return math.Sqrt(sum / float64(len(out)))
}

// vectorKernel runs the same step with algo-vecmath block operations, which
// dispatch to the SIMD implementation of the host.
type vectorKernel struct {
	net *network
}

func (k *vectorKernel) RunBlock(in, out []float64) float64 {
	n := k.net
	tmp := n.scratch

	for i := range n.nodes {
		vecmath.ScaleBlock(n.acc[i], in, n.inputGain)
	}

	for _, c := range n.conns {
		src := &n.nodes[c.src]
		src.readInto(tmp, n.feedbackBack(src))
		vecmath.ScaleBlockInPlace(tmp, src.gain*c.gain)
		vecmath.AddBlockInPlace(n.acc[c.dst], tmp)
	}

	clear(out)
	for i := range n.nodes {
		node := &n.nodes[i]
		n.saturate(n.acc[i])
		node.write(n.acc[i])

		node.readInto(tmp, n.tapBack(node))
		vecmath.ScaleBlockInPlace(tmp, node.gain)
		vecmath.AddBlockInPlace(out, tmp)
	}

	vecmath.ScaleBlockInPlace(out, n.outputGain)
	core.ClipInPlace(out, 1)

	return math.Sqrt(vecmath.DotProduct(out, out) / float64(len(out)))
}
