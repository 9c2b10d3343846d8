package mfn

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GraphConfig is the serialized form of a Graph. Omitted gains default to
// one and an omitted max delay to DefaultMaxDelaySeconds.
type GraphConfig struct {
	Nodes       []NodeConfig       `json:"nodes"`
	Connections []ConnectionConfig `json:"connections"`
	InputGain   *float64           `json:"input_gain,omitempty"`
	OutputGain  *float64           `json:"output_gain,omitempty"`
	Chaos       float64            `json:"chaos_level"`
}

// NodeConfig is the serialized form of a Node.
type NodeConfig struct {
	ID              string   `json:"id"`
	DelaySamples    int      `json:"delay_samples"`
	Gain            *float64 `json:"gain,omitempty"`
	MaxDelaySeconds float64  `json:"max_delay_s,omitempty"`
}

// ConnectionConfig is the serialized form of a Connection.
type ConnectionConfig struct {
	Source       string   `json:"source_id"`
	Target       string   `json:"target_id"`
	Gain         *float64 `json:"gain,omitempty"`
	DelaySamples int      `json:"delay_samples,omitempty"`
}

// ParseGraph decodes and builds a graph from JSON. Unknown fields are
// rejected; structural problems wrap ErrInvalidGraph.
func ParseGraph(data []byte) (*Graph, error) {
	var cfg GraphConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}
	return cfg.Build()
}

// Build validates the configuration and returns the graph.
func (c GraphConfig) Build() (*Graph, error) {
	b := NewBuilder().
		SetInputGain(orOne(c.InputGain)).
		SetOutputGain(orOne(c.OutputGain)).
		SetChaos(c.Chaos)

	for _, n := range c.Nodes {
		var opts []NodeOption
		if n.MaxDelaySeconds != 0 {
			opts = append(opts, WithMaxDelay(n.MaxDelaySeconds))
		}
		b.AddNode(n.ID, n.DelaySamples, orOne(n.Gain), opts...)
	}
	for _, conn := range c.Connections {
		b.AddDelayedConnection(conn.Source, conn.Target, orOne(conn.Gain), conn.DelaySamples)
	}

	return b.Build()
}

// Config returns the serialized form of g.
func (g *Graph) Config() GraphConfig {
	in, out := g.inputGain, g.outputGain
	cfg := GraphConfig{InputGain: &in, OutputGain: &out, Chaos: g.chaos}
	for _, n := range g.nodes {
		gain := n.Gain
		cfg.Nodes = append(cfg.Nodes, NodeConfig{
			ID:              n.ID,
			DelaySamples:    n.DelaySamples,
			Gain:            &gain,
			MaxDelaySeconds: n.MaxDelaySeconds,
		})
	}
	for _, c := range g.connections {
		gain := c.Gain
		cfg.Connections = append(cfg.Connections, ConnectionConfig{
			Source:       c.Source,
			Target:       c.Target,
			Gain:         &gain,
			DelaySamples: c.DelaySamples,
		})
	}
	return cfg
}

func orOne(v *float64) float64 {
	if v == nil {
		return 1
	}
	return *v
}
