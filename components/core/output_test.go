package core

import (
	"testing"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPassesDataThroughUnchanged(t *testing.T) {
	o := NewOutput()
	require.NoError(t, o.Initialize(nil))

	inSocket := port.NewSocket()
	o.InPorts()["in"].Attach(inSocket, nil)

	outSocket := port.NewSocket()
	o.OutPorts()["out"].Attach(outSocket, nil)

	var got any
	outSocket.On("data", func(f bus.Fields) { got = f["data"] })

	inSocket.Send("hello")
	assert.Equal(t, "hello", got)
}

func TestOutputTracksGroupStackAcrossPackets(t *testing.T) {
	o := NewOutput().(*outputInstance)
	require.NoError(t, o.Initialize(nil))

	inSocket := port.NewSocket()
	o.InPorts()["in"].Attach(inSocket, nil)

	inSocket.BeginGroup("outer")
	assert.Equal(t, []string{"outer"}, o.groups)

	inSocket.BeginGroup("inner")
	assert.Equal(t, []string{"outer", "inner"}, o.groups)

	inSocket.EndGroup()
	assert.Equal(t, []string{"outer"}, o.groups)

	inSocket.EndGroup()
	assert.Empty(t, o.groups)
}
