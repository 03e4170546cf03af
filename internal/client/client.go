// Package client invokes commands on a running input bridge over WebSocket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"automator/internal/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Invoke after Close or a lost connection
var ErrClosed = errors.New("client closed")

// Client holds one WebSocket connection and matches results to invokes by ID
type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan protocol.Result
	closed  bool
	done    chan struct{}
}

// Dial connects to the bridge at addr (host:port)
func Dial(ctx context.Context, addr, token string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	log.Printf("WS Client: Connecting to %s", u.String())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", u.String(), err)
	}

	c := &Client{
		conn:    conn,
		pending: make(map[string]chan protocol.Result),
		done:    make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

func (c *Client) readPump() {
	defer c.shutdown()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WS Client: Read error: %v", err)
			}
			return
		}

		var res protocol.Result
		if err := json.Unmarshal(data, &res); err != nil {
			log.Printf("WS Client: Invalid message: %v", err)
			continue
		}
		if res.Type != protocol.TypeResult {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[res.ID]
		delete(c.pending, res.ID)
		c.mu.Unlock()
		if ok {
			ch <- res
		}
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

// Invoke runs command with payload and waits for its result. The payload
// is marshaled to JSON; pass nil for commands without arguments.
func (c *Client) Invoke(ctx context.Context, command string, payload any) (protocol.Result, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return protocol.Result{}, fmt.Errorf("marshal %s payload: %w", command, err)
		}
		raw = data
	}

	id := uuid.NewString()
	ch := make(chan protocol.Result, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return protocol.Result{}, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	err := c.write(protocol.Message{Type: protocol.TypeInvoke, ID: id, Command: command, Payload: raw})
	if err != nil {
		c.forget(id)
		return protocol.Result{}, fmt.Errorf("send %s: %w", command, err)
	}

	select {
	case res := <-ch:
		return res, nil
	case <-c.done:
		c.forget(id)
		return protocol.Result{}, ErrClosed
	case <-ctx.Done():
		c.forget(id)
		return protocol.Result{}, ctx.Err()
	}
}

func (c *Client) write(msg protocol.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(msg)
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Close stops the client
func (c *Client) Close() error {
	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	c.shutdown()
	return c.conn.Close()
}
