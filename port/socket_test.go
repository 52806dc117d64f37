package port

import (
	"testing"

	"github.com/protoflo/protoflo/bus"
	"github.com/stretchr/testify/assert"
)

func TestSocketConnectIsIdempotent(t *testing.T) {
	s := NewSocket()
	var connects int
	s.On("connect", func(bus.Fields) { connects++ })

	s.Connect()
	s.Connect()
	assert.Equal(t, 1, connects)
	assert.True(t, s.Connected())
}

func TestSocketDisconnectIsIdempotent(t *testing.T) {
	s := NewSocket()
	var disconnects int
	s.On("disconnect", func(bus.Fields) { disconnects++ })

	s.Connect()
	s.Disconnect()
	s.Disconnect()
	assert.Equal(t, 1, disconnects)
	assert.False(t, s.Connected())
}

func TestSocketSendAutoConnects(t *testing.T) {
	s := NewSocket()
	var connected bool
	var gotData any
	s.On("connect", func(bus.Fields) { connected = true })
	s.On("data", func(f bus.Fields) { gotData = f["data"] })

	s.Send("hello")
	assert.True(t, connected)
	assert.Equal(t, "hello", gotData)
}

func TestSocketGroupStackPopsInLIFOOrder(t *testing.T) {
	s := NewSocket()
	var popped []string
	s.On("endgroup", func(f bus.Fields) {
		popped = append(popped, f["group"].(string))
	})

	s.BeginGroup("outer")
	s.BeginGroup("inner")
	s.EndGroup()
	s.EndGroup()
	s.EndGroup() // no-op, stack already empty

	assert.Equal(t, []string{"inner", "outer"}, popped)
}

func TestSocketIDIsDataUntilEndpointsAreSet(t *testing.T) {
	s := NewSocket()
	assert.Equal(t, "DATA -> DATA", s.ID())
}

func TestSocketIDMatchesLiteralEdgeScheme(t *testing.T) {
	s := NewSocket()
	s.SetEndpoints(Endpoint{Node: "Repeat", Port: "out"}, Endpoint{Node: "Display", Port: "in"})
	assert.Equal(t, "Repeat() OUT -> IN Display()", s.ID())
}

func TestSocketIDForInitialHasNoSrc(t *testing.T) {
	s := NewSocket()
	s.SetEndpoints(Endpoint{}, Endpoint{Node: "Display", Port: "in"})
	assert.Equal(t, "DATA -> IN Display()", s.ID())
}
