package component

import (
	"fmt"
	"testing"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapComponentAppliesFnAndForwardsGroups(t *testing.T) {
	m := NewMapComponent("double", func(data any) (any, error) {
		n, _ := data.(int)
		return n * 2, nil
	})
	require.NoError(t, m.Initialize(nil))

	in := m.InPorts()["in"]
	out := m.OutPorts()["out"]

	inSocket := port.NewSocket()
	in.Attach(inSocket, nil)

	outSocket := port.NewSocket()
	out.Attach(outSocket, nil)

	var groups []string
	var gotData any
	outSocket.On("begingroup", func(f bus.Fields) { groups = append(groups, f["group"].(string)) })
	outSocket.On("data", func(f bus.Fields) { gotData = f["data"] })

	inSocket.BeginGroup("batch")
	inSocket.Send(21)
	inSocket.EndGroup()

	assert.Equal(t, []string{"batch"}, groups)
	assert.Equal(t, 42, gotData)
}

func TestMapComponentErrorsRouteToErrorPort(t *testing.T) {
	m := NewMapComponent("fail", func(data any) (any, error) {
		return nil, fmt.Errorf("boom")
	})
	require.NoError(t, m.Initialize(nil))

	errSocket := port.NewSocket()
	m.OutPorts()["error"].Attach(errSocket, nil)

	var gotErr any
	errSocket.On("data", func(f bus.Fields) { gotErr = f["data"] })

	inSocket := port.NewSocket()
	m.InPorts()["in"].Attach(inSocket, nil)
	inSocket.Send(1)

	assert.Error(t, gotErr.(error))
}
