package mfn

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseGraphDefaults(t *testing.T) {
	g, err := ParseGraph([]byte(`{
		"nodes": [{"id": "a", "delay_samples": 100}, {"id": "b", "delay_samples": 50, "gain": 0.5}],
		"connections": [{"source_id": "a", "target_id": "b", "gain": 0.3}],
		"chaos_level": 0.2
	}`))
	if err != nil {
		t.Fatalf("ParseGraph() error = %v", err)
	}

	if g.InputGain() != 1 || g.OutputGain() != 1 || g.Chaos() != 0.2 {
		t.Fatalf("gains = %v %v chaos = %v", g.InputGain(), g.OutputGain(), g.Chaos())
	}
	nodes := g.Nodes()
	if nodes[0].Gain != 1 || nodes[1].Gain != 0.5 || nodes[0].MaxDelaySeconds != DefaultMaxDelaySeconds {
		t.Fatalf("nodes = %+v", nodes)
	}
	if c := g.Connections()[0]; c.Gain != 0.3 {
		t.Fatalf("connection = %+v", c)
	}
}

func TestParseGraphErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":        `{"nodes": [`,
		"unknown field": `{"nodes": [], "feedback": 1}`,
		"dangling":      `{"nodes": [{"id": "a"}], "connections": [{"source_id": "a", "target_id": "z"}]}`,
		"chaos":         `{"nodes": [], "chaos_level": 2}`,
		"conn delay":    `{"nodes": [{"id": "a"}], "connections": [{"source_id": "a", "target_id": "a", "delay_samples": 3}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseGraph([]byte(in)); !errors.Is(err, ErrInvalidGraph) {
				t.Fatalf("ParseGraph() error = %v, want ErrInvalidGraph", err)
			}
		})
	}
}

func TestGraphConfigRoundTrip(t *testing.T) {
	g, err := NewBuilder().
		AddNode("x", 12, 0.7, WithMaxDelay(0.5)).
		AddNode("y", 30, 0.4).
		AddConnection("x", "y", 0.25).
		AddConnection("y", "x", -0.25).
		SetOutputGain(0.8).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	data, err := json.Marshal(g.Config())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	back, err := ParseGraph(data)
	if err != nil {
		t.Fatalf("ParseGraph() error = %v", err)
	}

	if back.OutputGain() != 0.8 || len(back.Nodes()) != 2 || len(back.Connections()) != 2 {
		t.Fatalf("round trip lost data: %s", data)
	}
	if n := back.Nodes()[0]; n != g.Nodes()[0] {
		t.Fatalf("node = %+v, want %+v", n, g.Nodes()[0])
	}
}
