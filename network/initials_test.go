package network

import (
	"testing"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/graph"
	"github.com/protoflo/protoflo/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInitialsDrainsPendingQueueOnce(t *testing.T) {
	n := newTestNetwork()

	var got []any
	s1 := port.NewSocket()
	s1.On("data", func(f bus.Fields) { got = append(got, f["data"]) })
	s2 := port.NewSocket()
	s2.On("data", func(f bus.Fields) { got = append(got, f["data"]) })

	n.pending = []*Connection{
		{Socket: s1, Initial: &graph.Initial{Data: "one"}},
		{Socket: s2, Initial: &graph.Initial{Data: "two"}},
	}

	require.NoError(t, n.SendInitials())
	n.Scheduler.(*fakeScheduler).fire()

	assert.ElementsMatch(t, []any{"one", "two"}, got)
	assert.Empty(t, n.pending)
	assert.False(t, s1.Connected())
	assert.False(t, s2.Connected())
}

func TestDrainInitialsIgnoresInitialsQueuedDuringDispatch(t *testing.T) {
	n := newTestNetwork()

	var got []any
	s1 := port.NewSocket()
	s1.On("connect", func(bus.Fields) {
		// simulate a new initial being queued mid-dispatch; it must not be
		// picked up by this drain.
		n.mu.Lock()
		n.pending = append(n.pending, &Connection{Socket: port.NewSocket(), Initial: &graph.Initial{Data: "late"}})
		n.mu.Unlock()
	})
	s1.On("data", func(f bus.Fields) { got = append(got, f["data"]) })

	n.pending = []*Connection{{Socket: s1, Initial: &graph.Initial{Data: "first"}}}
	n.drainInitials()

	assert.Equal(t, []any{"first"}, got)
	assert.Len(t, n.pending, 1)
}
