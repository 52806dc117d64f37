package network

import (
	"fmt"
	"testing"
	"time"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/graph"
	"github.com/protoflo/protoflo/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upperFn(data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("not a string: %v", data)
	}
	out := ""
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		out += string(r)
	}
	return out, nil
}

func upperRegistry() *component.Registry {
	reg := component.NewRegistry(nil)
	reg.Register(component.Manifest{
		Name:    "test",
		Version: "1",
		Components: map[string]component.Handle{
			"Upper": {Factory: func() component.Instance {
				return component.NewMapComponent("uppercases its input", upperFn)
			}},
		},
	})
	return reg
}

func buildLinearGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New("test")
	g.Nodes.Add("a", "test/Upper", nil)
	g.Nodes.Add("b", "test/Upper", nil)
	g.Edges.Add("a", "out", "b", "in", nil)
	return g
}

func TestNetworkConnectWiresProcessesAndEdges(t *testing.T) {
	g := buildLinearGraph(t)
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())

	assert.Len(t, n.processes, 2)
	assert.Len(t, n.connections, 1)
}

func TestNetworkDeliversInitialThroughToOutport(t *testing.T) {
	g := graph.New("test")
	g.Nodes.Add("a", "test/Upper", nil)
	g.Initials.Add("hello", "a", "in", nil)

	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())

	received := make(chan any, 1)
	proc := n.processes["a"]
	out := proc.Instance.OutPorts()["out"]
	tap := port.NewSocket()
	out.Attach(tap, nil)
	tap.On("data", func(f bus.Fields) { received <- f["data"] })

	require.NoError(t, n.Start())

	select {
	case v := <-received:
		assert.Equal(t, "HELLO", v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for output")
	}
}

func TestNetworkActivityTracksRunningState(t *testing.T) {
	g := graph.New("test")
	g.Nodes.Add("a", "test/Upper", nil)
	g.Initials.Add("x", "a", "in", nil)

	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())
	assert.False(t, n.Running())

	require.NoError(t, n.Start())

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && !n.Running() {
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, n.Running(), "network never observed running")

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) && n.Running() {
		time.Sleep(5 * time.Millisecond)
	}
	assert.False(t, n.Running())
	assert.Equal(t, time.Duration(0), n.Uptime())
}

func TestNetworkStopDisconnectsAndShutsDown(t *testing.T) {
	g := buildLinearGraph(t)
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())
	require.NoError(t, n.Stop())
}
