package mfn

import (
	"math"
)

// minRingLength is the shortest ring buffer a node gets, before the extra
// block of headroom.
const minRingLength = 256

// chaosDrive scales the chaos level into the saturation pre-gain.
const chaosDrive = 5.0

type nodeState struct {
	buf   []float64
	pos   int
	delay int
	gain  float64
}

// readInto copies len(dst) samples starting back samples before the write
// position.
func (n *nodeState) readInto(dst []float64, back int) {
	size := len(n.buf)
	start := ((n.pos-back)%size + size) % size
	first := copy(dst, n.buf[start:])
	if first < len(dst) {
		copy(dst[first:], n.buf)
	}
}

func (n *nodeState) write(src []float64) {
	first := copy(n.buf[n.pos:], src)
	if first < len(src) {
		copy(n.buf, src[first:])
	}
	n.pos = (n.pos + len(src)) % len(n.buf)
}

func (n *nodeState) reset() {
	clear(n.buf)
	n.pos = 0
}

type connState struct {
	src, dst int
	gain     float64
}

// network is the per-channel runtime state shared by the kernels.
type network struct {
	block      int
	nodes      []nodeState
	conns      []connState
	inputGain  float64
	outputGain float64
	// saturation is the tanh pre-gain; zero disables saturation.
	saturation float64

	acc     [][]float64
	scratch []float64
}

func newNetwork(g *Graph, sampleRate float64, block int) *network {
	index := make(map[string]int, len(g.nodes))
	n := &network{
		block:      block,
		nodes:      make([]nodeState, len(g.nodes)),
		conns:      make([]connState, len(g.connections)),
		inputGain:  g.inputGain,
		outputGain: g.outputGain,
		acc:        make([][]float64, len(g.nodes)),
		scratch:    make([]float64, block),
	}
	if g.chaos > 0 {
		n.saturation = 1 + g.chaos*chaosDrive
	}

	for i, node := range g.nodes {
		index[node.ID] = i
		size := ringLength(node.MaxDelaySeconds, sampleRate, block)
		n.nodes[i] = nodeState{
			buf:   make([]float64, size),
			delay: min(node.DelaySamples, size-block),
			gain:  node.Gain,
		}
		n.acc[i] = make([]float64, block)
	}
	for i, c := range g.connections {
		n.conns[i] = connState{src: index[c.Source], dst: index[c.Target], gain: c.Gain}
	}

	return n
}

// ringLength is max(ceil(maxDelay*sr), 2*block, 256) plus one block, so a
// tap at the clamped delay never overlaps the block being written.
func ringLength(maxDelaySeconds, sampleRate float64, block int) int {
	capacity := int(math.Ceil(maxDelaySeconds * sampleRate))
	return max(capacity, 2*block, minRingLength) + block
}

// feedbackBack is how far behind the write position a connection reads.
func (n *network) feedbackBack(src *nodeState) int {
	return max(src.delay, n.block)
}

// tapBack is how far behind the write position the output tap reads once
// the current block has been written.
func (n *network) tapBack(node *nodeState) int {
	return n.block + node.delay
}

func (n *network) saturate(buf []float64) {
	f := n.saturation
	if f == 0 {
		return
	}
	for i, x := range buf {
		y := math.Tanh(x*f) / f
		buf[i] = math.Max(-1, math.Min(1, y))
	}
}

func (n *network) reset() {
	for i := range n.nodes {
		n.nodes[i].reset()
	}
}
