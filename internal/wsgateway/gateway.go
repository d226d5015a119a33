// Package wsgateway exposes a runtime.Runtime's RuntimeEvent stream to
// external UI-binding clients over a websocket, so a frontend can render
// NewState/CoreEvent updates without linking against the core directly.
// Built around a hub/client pair: the priority (lifecycle-then-broadcast)
// select loop and ping/pong keepalive follow the usual gorilla/websocket
// hub shape, with message types narrowed to the two RuntimeEvent kinds
// corectl actually emits.
package wsgateway

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/catalogcore/pkg/runtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Message is the wire envelope broadcast to every connected client.
type Message struct {
	Kind      string `json:"kind"`
	EventName string `json:"event_name,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The upgrader accepts every origin; cross-origin policy is applied
	// by the go-chi/cors middleware in server.go, configured from
	// ws_gateway.cors_allowed_origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

var clientIDCounter atomic.Uint64

// Gateway bridges one runtime.Runtime to any number of websocket clients.
type Gateway struct {
	rt         *runtime.Runtime
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan Message
	logger     zerolog.Logger
}

// New builds a Gateway subscribed to rt's RuntimeEvent stream.
func New(rt *runtime.Runtime, logger zerolog.Logger) *Gateway {
	g := &Gateway{
		rt:         rt,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Message, 256),
		logger:     logger,
	}
	return g
}

// Handler returns an http.Handler that upgrades requests to websocket
// connections and registers them with the gateway.
func (g *Gateway) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			g.logger.Error().Err(err).Msg("wsgateway: upgrade failed")
			return
		}
		c := &client{id: clientIDCounter.Add(1), gateway: g, conn: conn, send: make(chan Message, 256)}
		g.register <- c
		go c.writePump()
		go c.readPump()
	})
}

// Serve implements suture.Service: it drains rt's RuntimeEvent channel
// onto connected clients and runs the registration loop until ctx is
// canceled.
func (g *Gateway) Serve(ctx context.Context) error {
	events, unsub := g.rt.Subscribe(256)
	defer unsub()

	for {
		select {
		case c := <-g.register:
			g.clients[c] = true
			g.logger.Info().Int("total_clients", len(g.clients)).Msg("wsgateway: client connected")
		case c := <-g.unregister:
			if _, ok := g.clients[c]; ok {
				delete(g.clients, c)
				close(c.send)
			}
			g.logger.Info().Int("total_clients", len(g.clients)).Msg("wsgateway: client disconnected")
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			g.broadcastEvent(ev)
		case <-ctx.Done():
			for c := range g.clients {
				close(c.send)
				delete(g.clients, c)
			}
			return nil
		}
	}
}

// String implements fmt.Stringer for suture's lifecycle logging.
func (g *Gateway) String() string { return "wsgateway.Gateway" }

func (g *Gateway) broadcastEvent(ev runtime.RuntimeEvent) {
	msg := Message{EventName: ev.EventName, Payload: ev.Payload}
	switch ev.Kind {
	case runtime.NewState:
		msg.Kind = "new_state"
	case runtime.CoreEvent:
		msg.Kind = "core_event"
	}
	for c := range g.clients {
		select {
		case c.send <- msg:
		default:
			// Slow client: drop rather than block the broadcast loop for
			// everyone else.
		}
	}
}

type client struct {
	id      uint64
	gateway *Gateway
	conn    *websocket.Conn
	send    chan Message
}

func (c *client) readPump() {
	defer func() {
		c.gateway.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
