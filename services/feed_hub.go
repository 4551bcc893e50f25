package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"todokAPI/internal/types/feed"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send control frames.
	maxMessageSize = 512
)

type FeedLister interface {
	List(ctx context.Context) ([]feed.Item, error)
}

type FeedSnapshot struct {
	Action string      `json:"action"`
	Items  []feed.Item `json:"items"`
}

// FeedHub pushes feed snapshots to websocket subscribers whenever the feed
// changes and on a fixed refresh interval.
type FeedHub struct {
	lister     FeedLister
	interval   time.Duration
	clients    map[*FeedClient]bool
	register   chan *FeedClient
	unregister chan *FeedClient
	notify     chan struct{}
	stopChan   chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger
}

func NewFeedHub(lister FeedLister, interval time.Duration, logger *zap.Logger) *FeedHub {
	return &FeedHub{
		lister:     lister,
		interval:   interval,
		clients:    make(map[*FeedClient]bool),
		register:   make(chan *FeedClient),
		unregister: make(chan *FeedClient),
		notify:     make(chan struct{}, 1),
		stopChan:   make(chan struct{}),
		logger:     logger,
	}
}

// Notify schedules a broadcast; calls made while one is pending coalesce.
func (h *FeedHub) Notify() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

func (h *FeedHub) snapshot() []byte {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := h.lister.List(ctx)
	if err != nil {
		h.logger.Warn("feed hub: failed to load feed", zap.Error(err))
		return nil
	}
	data, err := json.Marshal(FeedSnapshot{Action: "feed", Items: items})
	if err != nil {
		h.logger.Warn("feed hub: failed to encode feed", zap.Error(err))
		return nil
	}
	return data
}

func (h *FeedHub) send(client *FeedClient, data []byte) {
	select {
	case client.Send <- data:
	default:
		close(client.Send)
		delete(h.clients, client)
	}
}

func (h *FeedHub) broadcast() {
	if len(h.clients) == 0 {
		return
	}
	data := h.snapshot()
	if data == nil {
		return
	}
	for client := range h.clients {
		h.send(client, data)
	}
}

func (h *FeedHub) Run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("feed subscriber connected", zap.Int("subscribers", len(h.clients)))
			if data := h.snapshot(); data != nil {
				h.send(client, data)
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}

		case <-h.notify:
			h.broadcast()

		case <-ticker.C:
			h.broadcast()

		case <-h.stopChan:
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		}
	}
}

func (h *FeedHub) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// Subscribe registers conn and starts its pumps.
func (h *FeedHub) Subscribe(conn *websocket.Conn) {
	client := &FeedClient{Hub: h, Conn: conn, Send: make(chan []byte, 16)}
	select {
	case h.register <- client:
	case <-h.stopChan:
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}

// FeedClient sits between one websocket connection and the hub.
type FeedClient struct {
	Hub  *FeedHub
	Conn *websocket.Conn
	Send chan []byte
}

// ReadPump drains control frames until the peer goes away.
func (c *FeedClient) ReadPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.stopChan:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump handles messages going to the subscriber.
func (c *FeedClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
