package protocol

import (
	"testing"

	"github.com/protoflo/protoflo/cachestore/file"
	"github.com/protoflo/protoflo/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	reg := component.NewRegistry(store)
	reg.Register(component.Manifest{
		Name:    "test",
		Version: "1",
		Components: map[string]component.Handle{
			"Upper": {Factory: func() component.Instance {
				return component.NewMapComponent("uppercases its input", func(data any) (any, error) { return data, nil })
			}},
		},
	})
	return NewState(reg)
}

func envelopesFor(s *fakeSender, command string) []Envelope {
	var out []Envelope
	for _, e := range s.out {
		if e.Command == command {
			out = append(out, e)
		}
	}
	return out
}

func TestGraphClearCreatesGraphAndRegistersAsSubgraph(t *testing.T) {
	d := NewDispatcher()
	state := newTestState(t)
	RegisterGraph(d, state)
	s := newFakeSender("c1")

	d.Dispatch(Envelope{Protocol: "graph", Command: "clear", Payload: map[string]any{
		"id": "main", "name": "main",
	}}, s)

	require.Len(t, envelopesFor(s, "clear"), 1)
	_, ok := state.getGraph("main")
	require.True(t, ok)

	inst, err := state.Registry.Load("graph/main")
	require.NoError(t, err)
	assert.True(t, inst.Subgraph())
}

func TestGraphClearWithMainSkipsSubgraphRegistration(t *testing.T) {
	d := NewDispatcher()
	state := newTestState(t)
	RegisterGraph(d, state)
	s := newFakeSender("c1")

	d.Dispatch(Envelope{Protocol: "graph", Command: "clear", Payload: map[string]any{
		"id": "main", "main": true,
	}}, s)

	_, err := state.Registry.Load("graph/main")
	assert.Error(t, err)
}

func TestGraphAddNodeRequiresExistingGraph(t *testing.T) {
	d := NewDispatcher()
	state := newTestState(t)
	RegisterGraph(d, state)
	s := newFakeSender("c1")

	d.Dispatch(Envelope{Protocol: "graph", Command: "addnode", Payload: map[string]any{
		"graph": "ghost", "id": "a", "component": "test/Upper",
	}}, s)

	require.Len(t, s.out, 1)
	assert.Equal(t, "error", s.out[0].Command)
}

func TestGraphAddNodeAddEdgeReemitsEvents(t *testing.T) {
	d := NewDispatcher()
	state := newTestState(t)
	RegisterGraph(d, state)
	s := newFakeSender("c1")

	d.Dispatch(Envelope{Protocol: "graph", Command: "clear", Payload: map[string]any{"id": "g", "main": true}}, s)
	d.Dispatch(Envelope{Protocol: "graph", Command: "addnode", Payload: map[string]any{
		"graph": "g", "id": "a", "component": "test/Upper",
	}}, s)
	d.Dispatch(Envelope{Protocol: "graph", Command: "addnode", Payload: map[string]any{
		"graph": "g", "id": "b", "component": "test/Upper",
	}}, s)
	d.Dispatch(Envelope{Protocol: "graph", Command: "addedge", Payload: map[string]any{
		"graph": "g",
		"src":   map[string]any{"node": "a", "port": "out"},
		"tgt":   map[string]any{"node": "b", "port": "in"},
	}}, s)

	addNodeEvents := envelopesFor(s, "addnode")
	require.Len(t, addNodeEvents, 2)
	assert.Equal(t, "g", addNodeEvents[0].Payload.(map[string]any)["graph"])

	addEdgeEvents := envelopesFor(s, "addedge")
	require.Len(t, addEdgeEvents, 1)
	payload := addEdgeEvents[0].Payload.(map[string]any)
	src := payload["src"].(map[string]any)
	assert.Equal(t, "a", src["node"])
	assert.NotContains(t, src, "index")
}

func TestGraphRenameNodeSendsFromTo(t *testing.T) {
	d := NewDispatcher()
	state := newTestState(t)
	RegisterGraph(d, state)
	s := newFakeSender("c1")

	d.Dispatch(Envelope{Protocol: "graph", Command: "clear", Payload: map[string]any{"id": "g", "main": true}}, s)
	d.Dispatch(Envelope{Protocol: "graph", Command: "addnode", Payload: map[string]any{
		"graph": "g", "id": "a", "component": "test/Upper",
	}}, s)
	d.Dispatch(Envelope{Protocol: "graph", Command: "renamenode", Payload: map[string]any{
		"graph": "g", "from": "a", "to": "z",
	}}, s)

	renameEvents := envelopesFor(s, "renamenode")
	require.Len(t, renameEvents, 1)
	payload := renameEvents[0].Payload.(map[string]any)
	assert.Equal(t, "a", payload["from"])
	assert.Equal(t, "z", payload["to"])
}

func TestGraphAddInportEmitsConsolidatedPorts(t *testing.T) {
	d := NewDispatcher()
	state := newTestState(t)
	RegisterGraph(d, state)
	s := newFakeSender("c1")

	d.Dispatch(Envelope{Protocol: "graph", Command: "clear", Payload: map[string]any{"id": "g", "main": true}}, s)
	d.Dispatch(Envelope{Protocol: "graph", Command: "addnode", Payload: map[string]any{
		"graph": "g", "id": "a", "component": "test/Upper",
	}}, s)
	d.Dispatch(Envelope{Protocol: "graph", Command: "addinport", Payload: map[string]any{
		"graph": "g", "public": "in", "node": "a", "port": "in",
	}}, s)

	portsEvents := envelopesFor(s, "ports")
	require.NotEmpty(t, portsEvents)
	last := portsEvents[len(portsEvents)-1].Payload.(map[string]any)
	inPorts := last["inPorts"].([]map[string]any)
	require.Len(t, inPorts, 1)
	assert.Equal(t, "in", inPorts[0]["id"])
}
