package core

import (
	"testing"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKickResendsBufferedPacketOnBang(t *testing.T) {
	k := NewKick()
	require.NoError(t, k.Initialize(nil))

	inSocket := port.NewSocket()
	k.InPorts()["in"].Attach(inSocket, nil)
	bangSocket := port.NewSocket()
	k.InPorts()["bang"].Attach(bangSocket, nil)
	outSocket := port.NewSocket()
	k.OutPorts()["out"].Attach(outSocket, nil)

	var got []any
	outSocket.On("data", func(f bus.Fields) { got = append(got, f["data"]) })

	inSocket.Send("hello")
	assert.Empty(t, got, "sending to in must not itself resend")

	bangSocket.Send(nil)
	bangSocket.Send(nil)
	assert.Equal(t, []any{"hello", "hello"}, got)
}

func TestKickReplaysGroupsAroundResend(t *testing.T) {
	k := NewKick()
	require.NoError(t, k.Initialize(nil))

	inSocket := port.NewSocket()
	k.InPorts()["in"].Attach(inSocket, nil)
	bangSocket := port.NewSocket()
	k.InPorts()["bang"].Attach(bangSocket, nil)
	outSocket := port.NewSocket()
	k.OutPorts()["out"].Attach(outSocket, nil)

	var groups []string
	outSocket.On("begingroup", func(f bus.Fields) { groups = append(groups, f["group"].(string)) })

	inSocket.BeginGroup("batch")
	inSocket.Send("x")
	inSocket.EndGroup()

	bangSocket.Send(nil)
	assert.Equal(t, []string{"batch"}, groups)
}

func TestKickDoesNothingBeforeFirstData(t *testing.T) {
	k := NewKick()
	require.NoError(t, k.Initialize(nil))

	bangSocket := port.NewSocket()
	k.InPorts()["bang"].Attach(bangSocket, nil)
	outSocket := port.NewSocket()
	k.OutPorts()["out"].Attach(outSocket, nil)

	var called bool
	outSocket.On("data", func(bus.Fields) { called = true })

	bangSocket.Send(nil)
	assert.False(t, called)
}
