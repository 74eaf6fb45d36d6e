package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 1 << 16
	sendBuffer     = 32
)

// Client es una conexión autenticada; userID sale del access token.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	userID    int64
	rooms     map[string]struct{}
	closed    bool // protegido por hub.mu
	closeOnce sync.Once
	log       *zap.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, userID int64, log *zap.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
		rooms:  make(map[string]struct{}),
		log:    log,
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// enqueue devuelve false si el buffer está lleno.
func (c *Client) enqueue(payload []byte) (ok bool) {
	defer func() {
		// send ya cerrado: el cliente se está desconectando
		if recover() != nil {
			ok = true
		}
	}()
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) emit(event string, data interface{}) {
	payload, err := encode(event, data)
	if err != nil {
		c.log.Error("ws marshal error", zap.String("event", event), zap.Error(err))
		return
	}
	if !c.enqueue(payload) {
		c.log.Warn("ws send buffer full", zap.Int64("user_id", c.userID))
		go c.hub.detach(c)
	}
}

func (c *Client) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("ws write error", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.log.Warn("ws ping error", zap.Error(err))
				return
			}
		}
	}
}

// readPump bloquea hasta que el cliente se va; cada frame pasa por dispatch.
func (c *Client) readPump(ctx context.Context, dispatch func(ctx context.Context, c *Client, f Frame)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detach(c)

	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("ws read error", zap.Int64("user_id", c.userID), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		dispatch(ctx, c, f)
	}
}
