package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a coder/websocket.Conn to the jrpc2 Channel interface.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

// Send writes a JSON-RPC message to the WebSocket connection.
func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

// Recv reads a JSON-RPC message from the WebSocket connection.
func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

// Close shuts down the WebSocket connection with a normal closure status.
func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// handleWS serves one JSON-RPC session per WebSocket connection. The
// session can call every method and receives push notifications until the
// client disconnects.
func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		s.l.Warning("websocket accept: %v", err)
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	srv := jrpc2.NewServer(s.rpc.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(&wsChannel{conn: conn, ctx: ctx})
	s.notifier.Register(srv)
	defer s.notifier.Unregister(srv)

	if err := srv.Wait(); err != nil && ctx.Err() == nil {
		s.l.Info("websocket session ended: %v", err)
	}
}
