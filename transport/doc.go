// Package transport carries protocol.Envelope values between a client and
// this runtime over a duplex connection. The Conn interface is the shim
// protocol.Dispatcher's callers read and write through; WSServer is the
// default implementation, a github.com/gorilla/websocket listener speaking
// the "noflo" subprotocol on ws://localhost:3569.
package transport
