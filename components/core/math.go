package core

import (
	"fmt"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/port"
)

// mathOp combines the running accumulator with an incoming value.
type mathOp func(acc, in float64) float64

// mathComponent accumulates every packet received on "in" into a running
// total via op, starting from identity, and sends the updated total to
// "out" after each one. "clear" resets the accumulator back to identity.
type mathComponent struct {
	*component.Base

	op       mathOp
	identity float64
	acc      float64
}

func newMathComponent(description string, identity float64, op mathOp) component.Instance {
	base := component.NewBase(component.Declaration{
		Description: description,
		InPorts: map[string]port.Descriptor{
			"in":    {ID: "in", Required: true, Datatype: "number"},
			"clear": {ID: "clear"},
		},
		OutPorts: map[string]port.Descriptor{
			"out":   {ID: "out", Datatype: "number"},
			"error": {ID: "error"},
		},
	}, nil, nil)

	m := &mathComponent{Base: base, op: op, identity: identity, acc: identity}
	base.InPorts()["in"].On("data", m.onData)
	base.InPorts()["clear"].On("data", m.onClear)
	return m
}

func (m *mathComponent) onData(data bus.Fields) {
	n, err := toFloat(data["data"])
	if err != nil {
		_ = component.Error(m.OutPorts()["error"], err)
		return
	}
	m.acc = m.op(m.acc, n)
	_ = m.OutPorts()["out"].Send(m.acc, nil)
}

func (m *mathComponent) onClear(bus.Fields) {
	m.acc = m.identity
}

// Initialize only marks mathComponent ready: it needs no other setup
// beyond construction.
func (m *mathComponent) Initialize(map[string]any) error {
	m.SetReady(true)
	return nil
}

// Shutdown is a no-op.
func (m *mathComponent) Shutdown() error { return nil }

func toFloat(data any) (float64, error) {
	switch v := data.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("core: %T is not a number", data)
	}
}

// NewAdd constructs an accumulating addition component.
func NewAdd() component.Instance {
	return newMathComponent("adds each input to a running total", 0, func(acc, in float64) float64 { return acc + in })
}

// NewSubtract constructs an accumulating subtraction component.
func NewSubtract() component.Instance {
	return newMathComponent("subtracts each input from a running total", 0, func(acc, in float64) float64 { return acc - in })
}

// NewMultiply constructs an accumulating multiplication component.
func NewMultiply() component.Instance {
	return newMathComponent("multiplies a running total by each input", 1, func(acc, in float64) float64 { return acc * in })
}

// NewDivide constructs an accumulating division component. Division by
// zero leaves the accumulator unchanged rather than producing Inf/NaN.
func NewDivide() component.Instance {
	return newMathComponent("divides a running total by each input", 1, func(acc, in float64) float64 {
		if in == 0 {
			return acc
		}
		return acc / in
	})
}
