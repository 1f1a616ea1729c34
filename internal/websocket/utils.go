package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write. A client that cannot drain a
	// leaderboard snapshot within this window is dropped.
	writeWait = 10 * time.Second

	// readWait is renewed on every inbound frame. Clients ping to keep an
	// idle connection alive; silence for this long means the peer is gone.
	readWait = 5 * time.Minute
)

// WriteTyped sends one typed event frame. The connection allows a single
// writer, so callers must funnel every frame through one goroutine.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// ReadJSON decodes the next client frame, renewing the read deadline.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readWait))
	return conn.ReadJSON(v)
}
