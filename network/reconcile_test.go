package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestReconcilePicksUpNodeAddedAfterConnect(t *testing.T) {
	g := buildLinearGraph(t)
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())

	g.Nodes.Add("c", "test/Upper", nil)

	waitUntil(t, func() bool {
		n.mu.Lock()
		defer n.mu.Unlock()
		_, ok := n.processes["c"]
		return ok
	})
}

func TestReconcilePicksUpEdgeAndNodeRemoval(t *testing.T) {
	g := buildLinearGraph(t)
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())

	g.Nodes.Remove("b")

	waitUntil(t, func() bool {
		n.mu.Lock()
		defer n.mu.Unlock()
		_, ok := n.processes["b"]
		return !ok && len(n.connections) == 0
	})
}

func TestReconcileSurvivesAJobThatFails(t *testing.T) {
	g := buildLinearGraph(t)
	n, err := Create(g, upperRegistry(), true)
	require.NoError(t, err)
	require.NoError(t, n.Connect())

	// Enqueue a job that always errors, then a normal one right behind it;
	// the failure must not stall the queue.
	n.reconcile.enqueue(func() error { return assertError{} })
	g.Nodes.Add("c", "test/Upper", nil)

	waitUntil(t, func() bool {
		n.mu.Lock()
		defer n.mu.Unlock()
		_, ok := n.processes["c"]
		return ok
	})
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
