package mfn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-sfx/dsp/core"
)

// ErrInvalidGraph reports a graph that cannot be built.
var ErrInvalidGraph = errors.New("mfn: invalid graph")

// DefaultMaxDelaySeconds is the ring buffer capacity of a node when none is
// given.
const DefaultMaxDelaySeconds = 1.0

// Node is a delay line in the network.
type Node struct {
	ID              string
	DelaySamples    int
	Gain            float64
	MaxDelaySeconds float64
}

// Connection routes the delayed output of Source into Target.
//
// DelaySamples is reserved for per-connection delays and must be zero.
type Connection struct {
	Source       string
	Target       string
	Gain         float64
	DelaySamples int
}

// Graph is a validated, immutable network description.
type Graph struct {
	nodes       []Node
	connections []Connection
	inputGain   float64
	outputGain  float64
	chaos       float64
}

// Nodes returns a copy of the nodes in insertion order.
func (g *Graph) Nodes() []Node { return append([]Node(nil), g.nodes...) }

// Connections returns a copy of the connections in insertion order.
func (g *Graph) Connections() []Connection {
	return append([]Connection(nil), g.connections...)
}

// InputGain returns the gain applied to the external input.
func (g *Graph) InputGain() float64 { return g.inputGain }

// OutputGain returns the gain applied to the mixed output.
func (g *Graph) OutputGain() float64 { return g.outputGain }

// Chaos returns the saturation amount in [0, 1].
func (g *Graph) Chaos() float64 { return g.chaos }

// MaxDelaySamples returns the longest node delay in samples.
func (g *Graph) MaxDelaySamples() int {
	longest := 0
	for _, n := range g.nodes {
		longest = max(longest, n.DelaySamples)
	}
	return longest
}

// NodeOption adjusts a node added through the builder.
type NodeOption func(*Node)

// WithMaxDelay sets the ring buffer capacity of the node in seconds.
func WithMaxDelay(seconds float64) NodeOption {
	return func(n *Node) { n.MaxDelaySeconds = seconds }
}

// Builder assembles a Graph. Methods chain; problems are reported by Build.
type Builder struct {
	nodes       []Node
	connections []Connection
	inputGain   float64
	outputGain  float64
	chaos       float64
}

// NewBuilder returns a builder with unity input and output gains.
func NewBuilder() *Builder {
	return &Builder{inputGain: 1, outputGain: 1}
}

// AddNode appends a node.
func (b *Builder) AddNode(id string, delaySamples int, gain float64, opts ...NodeOption) *Builder {
	n := Node{
		ID:              id,
		DelaySamples:    delaySamples,
		Gain:            gain,
		MaxDelaySeconds: DefaultMaxDelaySeconds,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&n)
		}
	}
	b.nodes = append(b.nodes, n)
	return b
}

// AddConnection appends a zero-delay connection from source to target.
func (b *Builder) AddConnection(source, target string, gain float64) *Builder {
	return b.AddDelayedConnection(source, target, gain, 0)
}

// AddDelayedConnection appends a connection with its own delay. Only zero is
// accepted by Build for now.
func (b *Builder) AddDelayedConnection(source, target string, gain float64, delaySamples int) *Builder {
	b.connections = append(b.connections, Connection{
		Source:       source,
		Target:       target,
		Gain:         gain,
		DelaySamples: delaySamples,
	})
	return b
}

// SetInputGain sets the gain applied to the external input of every node.
func (b *Builder) SetInputGain(gain float64) *Builder {
	b.inputGain = gain
	return b
}

// SetOutputGain sets the gain applied to the mixed output.
func (b *Builder) SetOutputGain(gain float64) *Builder {
	b.outputGain = gain
	return b
}

// SetChaos sets the node saturation amount in [0, 1].
func (b *Builder) SetChaos(level float64) *Builder {
	b.chaos = level
	return b
}

// Build validates the description and returns the graph.
func (b *Builder) Build() (*Graph, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &Graph{
		nodes:       append([]Node(nil), b.nodes...),
		connections: append([]Connection(nil), b.connections...),
		inputGain:   b.inputGain,
		outputGain:  b.outputGain,
		chaos:       b.chaos,
	}, nil
}

func (b *Builder) validate() error {
	if !core.IsFinite(b.inputGain) {
		return fmt.Errorf("%w: input gain must be finite: %f", ErrInvalidGraph, b.inputGain)
	}
	if !core.IsFinite(b.outputGain) {
		return fmt.Errorf("%w: output gain must be finite: %f", ErrInvalidGraph, b.outputGain)
	}
	if !core.IsFinite(b.chaos) || b.chaos < 0 || b.chaos > 1 {
		return fmt.Errorf("%w: chaos must be in [0, 1]: %f", ErrInvalidGraph, b.chaos)
	}

	ids := make(map[string]struct{}, len(b.nodes))
	for _, n := range b.nodes {
		switch {
		case strings.TrimSpace(n.ID) == "":
			return fmt.Errorf("%w: node id must not be empty", ErrInvalidGraph)
		case n.DelaySamples < 0:
			return fmt.Errorf("%w: node %q delay must be >= 0: %d", ErrInvalidGraph, n.ID, n.DelaySamples)
		case !core.IsFinite(n.Gain):
			return fmt.Errorf("%w: node %q gain must be finite: %f", ErrInvalidGraph, n.ID, n.Gain)
		case !core.IsFinite(n.MaxDelaySeconds) || n.MaxDelaySeconds <= 0:
			return fmt.Errorf("%w: node %q max delay must be > 0: %f", ErrInvalidGraph, n.ID, n.MaxDelaySeconds)
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidGraph, n.ID)
		}
		ids[n.ID] = struct{}{}
	}

	for _, c := range b.connections {
		if _, ok := ids[c.Source]; !ok {
			return fmt.Errorf("%w: connection source %q not found", ErrInvalidGraph, c.Source)
		}
		if _, ok := ids[c.Target]; !ok {
			return fmt.Errorf("%w: connection target %q not found", ErrInvalidGraph, c.Target)
		}
		if !core.IsFinite(c.Gain) {
			return fmt.Errorf("%w: connection %s->%s gain must be finite: %f", ErrInvalidGraph, c.Source, c.Target, c.Gain)
		}
		if c.DelaySamples != 0 {
			return fmt.Errorf("%w: connection %s->%s delay is not supported: %d",
				ErrInvalidGraph, c.Source, c.Target, c.DelaySamples)
		}
	}

	return nil
}
