package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// wsConnection serializes writes to a gorilla connection, which allows only
// one concurrent writer.
type wsConnection struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu sync.Mutex
}

func newWSConnection(conn *websocket.Conn, writeTimeout time.Duration) *wsConnection {
	return &wsConnection{
		id:           uuid.New().String(),
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

func (c *wsConnection) ID() string {
	return c.id
}

func (c *wsConnection) Send(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// closeWith sends a close frame with the given code and reason, then closes
// the socket.
func (c *wsConnection) closeWith(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeTimeout))
	return c.conn.Close()
}

func (c *wsConnection) Close() error {
	return c.closeWith(websocket.CloseGoingAway, "server shutting down")
}
