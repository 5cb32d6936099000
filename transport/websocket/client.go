package websocket

import (
	"log/slog"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// client is one WebSocket connection. Only writePump writes to conn.
type client struct {
	id     string
	conn   *gorilla.Conn
	logger *slog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
	roomID string
}

func newClient(id string, conn *gorilla.Conn, logger *slog.Logger) *client {
	return &client{
		id:     id,
		conn:   conn,
		logger: logger.With("playerID", id),
		send:   make(chan []byte, sendBuffer),
	}
}

// enqueue never blocks. A client that cannot keep up is disconnected.
func (that *client) enqueue(frame []byte) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return false
	}

	select {
	case that.send <- frame:
		return true
	default:
		that.logger.Warn("send buffer is full, dropping connection")
		that.closeLocked()
		return false
	}
}

// close stops accepting frames; writePump flushes what is queued and hangs up.
func (that *client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closeLocked()
}

func (that *client) closeLocked() {
	if !that.closed {
		that.closed = true
		close(that.send)
	}
}

func (that *client) room() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.roomID
}

func (that *client) setRoom(roomID string) {
	that.mu.Lock()
	that.roomID = roomID
	that.mu.Unlock()
}

// readPump delivers inbound frames to handle until the connection fails.
func (that *client) readPump(handle func(data []byte)) {
	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure) {
				that.logger.Info("connection closed unexpectedly", "error", err)
			}
			return
		}

		handle(data)
	}
}

func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""))
				return
			}

			if err := that.conn.WriteMessage(gorilla.TextMessage, frame); err != nil {
				that.logger.Info("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(gorilla.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
