package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnEmitOrder(t *testing.T) {
	var b Bus
	var order []int

	b.On("tick", func(Fields) { order = append(order, 1) })
	b.On("tick", func(Fields) { order = append(order, 2) })
	b.On("tick", func(Fields) { order = append(order, 3) })

	b.Emit("tick", nil)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestOnceDetachesAfterFirstInvocation(t *testing.T) {
	var b Bus
	calls := 0

	b.Once("ready", func(Fields) { calls++ })

	b.Emit("ready", nil)
	b.Emit("ready", nil)
	b.Emit("ready", nil)

	assert.Equal(t, 1, calls)
	assert.Empty(t, b.Listeners("ready"))
}

func TestEmitNeverPanicsOnMissingListeners(t *testing.T) {
	var b Bus
	assert.NotPanics(t, func() {
		handled := b.Emit("nobodyListening", Fields{"x": 1})
		assert.False(t, handled)
	})
}

func TestOffClearsOneOrAllNames(t *testing.T) {
	var b Bus
	calls := 0
	b.On("a", func(Fields) { calls++ })
	b.On("b", func(Fields) { calls++ })

	b.Off("a")
	b.Emit("a", nil)
	b.Emit("b", nil)
	assert.Equal(t, 1, calls)

	b.Off("")
	b.Emit("b", nil)
	assert.Equal(t, 1, calls)
}

func TestWildcardRelayReceivesNameAndData(t *testing.T) {
	var b Bus
	var gotName string
	var gotData Fields

	b.OnAll(func(name string, data Fields) {
		gotName = name
		gotData = data
	})

	b.Emit("addNode", Fields{"id": "A"})
	require.Equal(t, "addNode", gotName)
	assert.Equal(t, "A", gotData["id"])
}

func TestRemovalDuringEmissionIsSafe(t *testing.T) {
	var b Bus
	calls := 0

	b.Once("x", func(Fields) { calls++ })
	b.On("x", func(Fields) { calls++ })

	assert.NotPanics(t, func() {
		b.Emit("x", nil)
	})
	assert.Equal(t, 2, calls)

	calls = 0
	b.Emit("x", nil)
	assert.Equal(t, 1, calls)
}
