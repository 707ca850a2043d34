package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/matchengine-go/internal/engine"
	"github.com/mcoot/matchengine-go/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Envelope frames every event on the wire in both directions
type Envelope struct {
	Type model.EventType `json:"type"`
	Data json.RawMessage `json:"data"`
}

// outbound is an envelope whose data is still a Go value
type outbound struct {
	Type model.EventType `json:"type"`
	Data any             `json:"data"`
}

// Client is one websocket connection. It decodes inbound envelopes into
// engine events and relays the engine's notifications back out. The two
// pumps own the underlying connection; the engine only ever touches the
// buffered send channel.
type Client struct {
	conn   *websocket.Conn
	engine *engine.Engine
	logger *slog.Logger

	send      chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

var _ engine.Conn = (*Client)(nil)

func newClient(conn *websocket.Conn, eng *engine.Engine, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		engine: eng,
		logger: logger,
		send:   make(chan outbound, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Send queues an event for delivery. It never blocks: a client that
// cannot drain its buffer is disconnected rather than stalling the
// engine loop.
func (c *Client) Send(event model.EventType, payload any) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- outbound{Type: event, Data: payload}:
	default:
		c.logger.Warn("send buffer full, dropping client")
		c.shutdown()
	}
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readPump decodes inbound envelopes until the connection drops, then
// reports the disconnect to the engine.
func (c *Client) readPump() {
	defer func() {
		c.engine.Disconnect(c)
		c.shutdown()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}
		c.dispatch(raw)
	}
}

// dispatch routes one inbound envelope to the engine
func (c *Client) dispatch(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.Send(model.EventError, model.ErrorPayload{Message: "malformed event"})
		return
	}

	switch env.Type {
	case model.EventRegister:
		var payload model.RegisterPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			c.Send(model.EventError, model.ErrorPayload{Message: "malformed event"})
			return
		}
		c.engine.Register(c, payload)
	case model.EventJoinQueue:
		var payload model.JoinQueuePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			c.Send(model.EventError, model.ErrorPayload{Message: "malformed event"})
			return
		}
		c.engine.JoinQueue(c, payload)
	case model.EventMakeMove:
		var payload model.MakeMovePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			c.Send(model.EventError, model.ErrorPayload{Message: "malformed event"})
			return
		}
		c.engine.MakeMove(c, payload)
	case model.EventResignMatch:
		var payload model.ResignMatchPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			c.Send(model.EventError, model.ErrorPayload{Message: "malformed event"})
			return
		}
		c.engine.Resign(c, payload)
	default:
		c.Send(model.EventError, model.ErrorPayload{Message: "unknown event type"})
	}
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case out := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(out); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
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
