package web

import (
	"errors"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

var (
	ErrConnectionClosed = errors.New("web: connection closed")
	ErrBufferFull       = errors.New("web: send buffer full")
)

// connection owns one WebSocket. Writes go through a buffered channel
// drained by writePump; a client too slow to keep up is disconnected.
type connection struct {
	conn      *ws.Conn
	send      chan []byte
	closeOnce sync.Once
	closed    chan struct{}

	finishOnce sync.Once
	finishing  chan struct{}
}

func newConnection(conn *ws.Conn) *connection {
	return &connection{
		conn:   conn,
		send:      make(chan []byte, sendBuffer),
		closed:    make(chan struct{}),
		finishing: make(chan struct{}),
	}
}

// Close tears down the socket. Safe to call more than once.
func (c *connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close()
	})
}

// Finish asks writePump to flush queued frames, send a normal close frame
// and tear down the socket.
func (c *connection) Finish() {
	c.finishOnce.Do(func() {
		close(c.finishing)
	})
}

// Closed is closed once the connection is torn down.
func (c *connection) Closed() <-chan struct{} {
	return c.closed
}

// Send queues a text frame without blocking.
func (c *connection) Send(data []byte) error {
	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.Close()
		return ErrBufferFull
	}
}

// readPump delivers client frames to handle until the socket fails.
func (c *connection) readPump(handle func([]byte)) error {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
				return err
			}
			return nil
		}
		handle(message)
	}
}

// writePump flushes queued frames and keeps the connection alive with pings.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.TextMessage, message); err != nil {
				return
			}
		case <-c.finishing:
			c.flush()
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes every queued frame followed by a close frame.
func (c *connection) flush() {
	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.TextMessage, message); err != nil {
				return
			}
		default:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, "run over"))
			return
		}
	}
}
