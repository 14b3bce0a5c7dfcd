package remote

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gogpu/paint"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// loads carry whole documents as data URLs
	maxMessageSize = 64 << 20

	sendQueue = 256
)

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// devices with an open stroke, owned by the hub goroutine
	devices map[string]struct{}
}

// device scopes a client's device name so that two clients never share a
// stroke.
func (c *client) device(name string) string {
	return c.id + "/" + name
}

// ServeHTTP upgrades the request to a websocket connection and serves it
// until either side closes it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		paint.Logger().Warn("remote: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := &client{
		id:      uuid.NewString(),
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendQueue),
		devices: make(map[string]struct{}),
	}
	select {
	case h.join <- c:
	case <-h.quit:
		conn.Close()
		return
	}
	go c.writeLoop()
	c.readLoop()
}

func (c *client) readLoop() {
	defer func() {
		select {
		case c.hub.leave <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, b, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				paint.Logger().Debug("remote: read failed", "client", c.id, "err", err)
			}
			return
		}
		cmd := command{from: c}
		cmd.err = json.Unmarshal(b, &cmd.Command)
		select {
		case c.hub.commands <- cmd:
		case <-c.hub.quit:
			return
		}
	}
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case b, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
