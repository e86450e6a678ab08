// Package realtime maintains the hub's bidirectional event connection.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Handler is a callback for incoming events. It runs on the read
// goroutine; handlers must not block.
type Handler func(Event)

// Conn is one realtime connection. It exists iff the session is
// authenticated: the engine opens it on connect and closes it on logout.
// Writes are serialized by a mutex; reads happen on a single goroutine.
type Conn struct {
	ws        *websocket.Conn
	writeMu   sync.Mutex
	handler   Handler
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the hub's socket endpoint derived from the backend
// base URL and identifies itself with the user's id and username.
func Dial(ctx context.Context, baseURL string, identity Identity) (*Conn, error) {
	wsURL, err := socketURL(baseURL)
	if err != nil {
		return nil, err
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime: dial %s: %w", wsURL, err)
	}

	c := &Conn{
		ws:   ws,
		done: make(chan struct{}),
	}

	if err := c.Send(EventIdentify, identity); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("realtime: identify: %w", err)
	}

	return c, nil
}

// socketURL converts an http(s) base URL into the ws(s) endpoint.
func socketURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("realtime: parse base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("realtime: unsupported scheme %q", u.Scheme)
	}
	u.Path = u.Path + "/ws"
	return u.String(), nil
}

// SetEventHandler sets the callback for incoming events. Call before
// Start.
func (c *Conn) SetEventHandler(h Handler) {
	c.handler = h
}

// Start launches the read and ping loops.
func (c *Conn) Start() {
	go c.readLoop()
	go c.pingLoop()
}

// Send marshals data into the event envelope and writes it. Safe for
// concurrent use.
func (c *Conn) Send(name string, data any) error {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("realtime: marshal %s: %w", name, err)
		}
		raw = b
	}
	payload, err := json.Marshal(Event{Name: name, Data: raw})
	if err != nil {
		return fmt.Errorf("realtime: marshal envelope: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("realtime: write %s: %w", name, err)
	}
	return nil
}

func (c *Conn) readLoop() {
	defer c.markDone()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				slog.Debug("realtime read error", "err", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			slog.Debug("realtime: dropping malformed event", "err", err)
			continue
		}
		if c.handler != nil {
			c.handler(ev)
		}
	}
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close closes the connection. Safe to call more than once.
func (c *Conn) Close() error {
	err := c.ws.Close()
	c.markDone()
	return err
}

// Done returns a channel closed once the connection is gone.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) markDone() {
	c.closeOnce.Do(func() { close(c.done) })
}
