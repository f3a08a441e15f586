package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/riftlab/matchd/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// feedEvent is one mirrored outbound message with its bus topic.
type feedEvent struct {
	Topic   string    `json:"topic"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// FeedHub mirrors every outbound bus message to connected websocket
// observers. It implements bus.Publisher so it can sit in the engine's
// publisher fanout; publishing never blocks, slow consumers are
// disconnected.
type FeedHub struct {
	log        zerolog.Logger
	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan feedEvent
	clients    map[*feedClient]bool
	upgrader   websocket.Upgrader
}

func NewFeedHub(log zerolog.Logger) *FeedHub {
	return &FeedHub{
		log:        log.With().Str("component", "feed").Logger(),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan feedEvent, 512),
		clients:    make(map[*feedClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is an internal ops surface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Publish implements bus.Publisher.
func (h *FeedHub) Publish(topic string, payload any) {
	select {
	case h.broadcast <- feedEvent{Topic: topic, Payload: payload, At: time.Now().UTC()}:
	default:
		metrics.OutboundDroppedTotal.Inc()
	}
}

// Run owns the client set until ctx is cancelled.
func (h *FeedHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
			}
			h.clients = make(map[*feedClient]bool)
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if h.clients[client] {
				delete(h.clients, client)
				client.close()
			}
		case ev := <-h.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.Error().Err(err).Str("topic", ev.Topic).Msg("feed event marshal failed")
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer: drop the connection, not the engine.
					delete(h.clients, client)
					client.close()
				}
			}
		}
	}
}

// ServeWS upgrades an observer connection and attaches it to the hub.
func (h *FeedHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("feed upgrade failed")
		return
	}
	client := &feedClient{hub: h, conn: conn, send: make(chan []byte, 256)}
	h.register <- client
	go client.writePump()
	go client.readPump()
}

type feedClient struct {
	hub  *FeedHub
	conn *websocket.Conn
	send chan []byte
}

func (c *feedClient) close() {
	close(c.send)
}

// readPump discards inbound frames; the feed is one-way. It exists to
// notice disconnects and answer pings.
func (c *feedClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
