package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/protoflo/protoflo/protocol"
	"github.com/protoflo/protoflo/protolog"
)

// Subprotocol is the WebSocket subprotocol label this runtime's transport
// negotiates, matching the reference runtime.
const Subprotocol = "noflo"

// DefaultAddr is the address WSServer listens on unless overridden.
const DefaultAddr = "localhost:3569"

var upgrader = websocket.Upgrader{
	Subprotocols:    []string{Subprotocol},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsConn adapts a *websocket.Conn to Conn, rejecting binary frames.
type wsConn struct {
	ws *websocket.Conn
}

func (c *wsConn) ReadEnvelope() (protocol.Envelope, error) {
	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			return protocol.Envelope{}, err
		}
		if messageType == websocket.BinaryMessage {
			return protocol.Envelope{}, errors.New("transport: binary frames are not accepted")
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return protocol.Envelope{}, err
		}
		return env, nil
	}
}

func (c *wsConn) WriteEnvelope(env protocol.Envelope) error {
	return c.ws.WriteJSON(env)
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}

// wsSender implements protocol.Sender over a wsConn, serializing writes
// since a gorilla/websocket connection supports at most one concurrent
// writer.
type wsSender struct {
	id   protocol.ClientID
	conn *wsConn
	out  chan protocol.Envelope
}

func newWSSender(conn *wsConn) *wsSender {
	s := &wsSender{id: protocol.ClientID(uuid.NewString()), conn: conn, out: make(chan protocol.Envelope, 64)}
	go s.writeLoop()
	return s
}

func (s *wsSender) ClientID() protocol.ClientID { return s.id }

func (s *wsSender) Send(env protocol.Envelope) {
	select {
	case s.out <- env:
	default:
		protolog.Warn("transport: dropping envelope to client %s, send buffer full", s.id)
	}
}

func (s *wsSender) writeLoop() {
	for env := range s.out {
		if err := s.conn.WriteEnvelope(env); err != nil {
			protolog.Warn("transport: write to client %s failed: %v", s.id, err)
			return
		}
	}
}

func (s *wsSender) close() { close(s.out) }

// WSServer accepts WebSocket connections speaking the noflo subprotocol
// and dispatches each client's envelopes through a shared Dispatcher.
type WSServer struct {
	Addr       string
	Dispatcher *protocol.Dispatcher

	server *http.Server
}

// NewWSServer constructs a server listening on addr ("" selects
// DefaultAddr) and routing every connection's envelopes through d.
func NewWSServer(addr string, d *protocol.Dispatcher) *WSServer {
	if addr == "" {
		addr = DefaultAddr
	}
	return &WSServer{Addr: addr, Dispatcher: d}
}

// ListenAndServe blocks, accepting connections until the context is
// cancelled or the listener errors.
func (s *WSServer) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	s.server = &http.Server{Addr: s.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *WSServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		protolog.Warn("transport: upgrade failed: %v", err)
		return
	}
	c := &wsConn{ws: conn}
	sender := newWSSender(c)
	defer sender.close()
	defer c.Close()

	protolog.Info("transport: client %s connected", sender.ClientID())
	if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
		protolog.Warn("transport: initial ping to client %s failed: %v", sender.ClientID(), err)
	}

	for {
		env, err := c.ReadEnvelope()
		if err != nil {
			if !isNormalClose(err) {
				protolog.Warn("transport: client %s read failed: %v", sender.ClientID(), err)
			}
			return
		}
		s.Dispatcher.Dispatch(env, sender)
	}
}

func isNormalClose(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return false
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, net.ErrClosed)
}
