package transport

import "github.com/protoflo/protoflo/protocol"

// Conn is a single client connection: envelopes in, envelopes out. Conn
// implementations are responsible for framing (one envelope per message)
// and for rejecting payloads this runtime does not speak, e.g. binary
// frames on the WebSocket transport.
type Conn interface {
	ReadEnvelope() (protocol.Envelope, error)
	WriteEnvelope(protocol.Envelope) error
	Close() error
}
