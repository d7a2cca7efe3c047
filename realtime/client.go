// realtime/client.go - One connected websocket peer
package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second // time allowed to write one message
	pingPeriod = 15 * time.Second // ping cadence to keep the peer alive

	sendBufferSize = 256
)

// Client wraps a websocket connection with a buffered outbound queue.
// Sends never block: a peer that cannot drain its queue is closed and
// dropped rather than stalling a room broadcast.
type Client struct {
	ID       string
	UserID   uint // 0 for unauthenticated spectators
	Username string

	conn      *websocket.Conn
	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(id string, userID uint, username string, conn *websocket.Conn) *Client {
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		conn:     conn,
		send:     make(chan Event, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// enqueue queues an event for delivery. Returns false if the client is
// closed or its buffer is full; the caller treats both as a dead peer.
func (c *Client) enqueue(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	default:
		log.Printf("⚠️ Dropping slow websocket client %s", c.ID)
		c.Close()
		return false
	}
}

// Close shuts the client down once. The write pump notices and closes
// the underlying connection, which also unblocks the read loop.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// WritePump drains the send queue onto the wire and keeps the
// connection alive with pings. Runs in its own goroutine per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
