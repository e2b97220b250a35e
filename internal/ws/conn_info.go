package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	maxFrameBytes = 64 << 10

	// CloseSessionReplaced is sent to a channel displaced by a newer one for the same user.
	CloseSessionReplaced = 4001
)

type ConnInfo struct {
	ConnID      string
	UserID      int
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// Channel is a live, bidirectional connection to one user.
type Channel interface {
	Info() ConnInfo
	Send(v any) error
	Close(code int, reason string)
}

// Client is a Channel backed by a websocket connection.
type Client struct {
	conn   *websocket.Conn
	info   ConnInfo
	mu     sync.Mutex
	once   sync.Once
	closed atomic.Bool
}

var _ Channel = (*Client)(nil)

func NewClient(conn *websocket.Conn, info ConnInfo) *Client {
	conn.SetReadLimit(maxFrameBytes)
	return &Client{conn: conn, info: info}
}

func (c *Client) Info() ConnInfo {
	return c.info
}

// Send writes v as a JSON text frame. Writes are serialised.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Close sends a close frame with code and reason, then closes the connection.
// Only the first call has an effect.
func (c *Client) Close(code int, reason string) {
	c.once.Do(func() {
		c.closed.Store(true)
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		c.mu.Unlock()
		_ = c.conn.Close()
	})
}

// ClosedByServer reports whether Close was called on this side.
func (c *Client) ClosedByServer() bool {
	return c.closed.Load()
}
