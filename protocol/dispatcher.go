package protocol

import (
	"github.com/protoflo/protoflo/protolog"
)

// Envelope is a single message on the wire: {protocol, command, payload}.
type Envelope struct {
	Protocol string `json:"protocol"`
	Command  string `json:"command"`
	Payload  any    `json:"payload"`
}

// ClientID identifies a connected client for purposes of per-connection
// state (subscribed graphs, the "edges" socket-id allowlist, etc).
type ClientID string

// Sender delivers outbound envelopes to a single connected client.
type Sender interface {
	ClientID() ClientID
	Send(Envelope)
}

// Handler processes one command's payload and may send zero or more
// envelopes back via sender before returning.
type Handler func(payload Payload, sender Sender) error

// Dispatcher routes incoming envelopes to registered handlers by
// protocol/command pair.
type Dispatcher struct {
	handlers map[string]map[string]Handler
}

// NewDispatcher returns an empty Dispatcher ready for Register calls.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]map[string]Handler)}
}

// Register installs handler for protocol/command. A later call for the
// same pair replaces the earlier one.
func (d *Dispatcher) Register(proto, command string, h Handler) {
	m, ok := d.handlers[proto]
	if !ok {
		m = make(map[string]Handler)
		d.handlers[proto] = m
	}
	m[command] = h
}

// Dispatch decodes the envelope's payload into a Payload and invokes the
// matching handler. An unknown protocol/command pair, or a handler
// returning an error, produces an "error" envelope on the same protocol
// sent back through sender rather than being returned to the caller —
// callers of Dispatch are transport loops that should keep reading.
func (d *Dispatcher) Dispatch(env Envelope, sender Sender) {
	m, ok := d.handlers[env.Protocol]
	if !ok {
		d.sendError(env.Protocol, sender, "unknown protocol: "+env.Protocol)
		return
	}
	h, ok := m[env.Command]
	if !ok {
		d.sendError(env.Protocol, sender, "unknown command: "+env.Protocol+":"+env.Command)
		return
	}

	payload, _ := env.Payload.(map[string]any)
	if err := h(Payload(payload), sender); err != nil {
		protolog.Warn("protocol: %s:%s failed: %v", env.Protocol, env.Command, err)
		d.sendError(env.Protocol, sender, err.Error())
	}
}

func (d *Dispatcher) sendError(proto string, sender Sender, message string) {
	sender.Send(Envelope{
		Protocol: proto,
		Command:  "error",
		Payload:  map[string]any{"message": message},
	})
}
