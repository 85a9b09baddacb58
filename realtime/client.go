package realtime

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// WaiterRequest is one entry in the ephemeral staff queue. The ID is
// derived from the table and timestamp so the same event delivered twice
// collapses to one entry.
type WaiterRequest struct {
	ID          string `json:"id"`
	TableNumber int    `json:"tableNumber"`
	TableID     uint   `json:"tableId"`
	TableName   string `json:"tableName"`
	Timestamp   string `json:"timestamp"`
}

func waiterRequestID(tableID uint, timestamp string) string {
	return fmt.Sprintf("%d-%s", tableID, timestamp)
}

// Client is the staff-side realtime session: a live socket bound to a
// bearer token, a merged notification list and an ephemeral waiter-request
// queue. Constructed at the composition root and injected where needed; the
// socket is re-established whenever the token changes and torn down when
// the token becomes absent.
type Client struct {
	socketURL string
	sounder   Sounder
	onAlert   func(NotificationEvent)

	mu            sync.Mutex
	conn          *websocket.Conn
	connected     bool
	waiters       []WaiterRequest
	notifications []NotificationEvent
}

func NewClient(socketURL string, sounder Sounder) *Client {
	if sounder == nil {
		sounder = NopSounder{}
	}
	return &Client{socketURL: socketURL, sounder: sounder}
}

// OnNotification registers the transient-alert callback fired for each
// inbound notification event, in addition to the list merge.
func (c *Client) OnNotification(fn func(NotificationEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAlert = fn
}

// SetToken rebinds the socket to a new token. The previous connection is
// torn down first; an empty token leaves the client disconnected.
func (c *Client) SetToken(token string) error {
	c.teardown()
	if token == "" {
		return nil
	}
	return c.connect(token)
}

// Close tears the socket down and detaches event delivery.
func (c *Client) Close() {
	c.teardown()
}

func (c *Client) connect(token string) error {
	conn, _, err := websocket.DefaultDialer.Dial(c.socketURL+"?token="+url.QueryEscape(token), nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.waiters = nil // the queue is per-connection
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// teardown disconnects synchronously; the read loop notices the closed
// connection and stops delivering events.
func (c *Client) teardown() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.waiters = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
				c.connected = false
				c.waiters = nil
			}
			c.mu.Unlock()
			return
		}
		c.dispatch(conn, data)
	}
}

func (c *Client) dispatch(conn *websocket.Conn, data []byte) {
	var msg struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	c.mu.Lock()
	stale := c.conn != conn
	alert := c.onAlert
	c.mu.Unlock()
	if stale {
		return
	}

	switch msg.Event {
	case EventNotification:
		var event NotificationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		c.mergeNotification(event)
		if alert != nil {
			alert(event)
		}
	case EventOrderNew:
		c.sounder.OrderAlert()
	case EventWaiterRequest:
		var event WaiterRequestEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		c.appendWaiterRequest(event)
		c.sounder.WaiterAlert()
	}
}

func (c *Client) mergeNotification(event NotificationEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range c.notifications {
		if event.ID != 0 && n.ID == event.ID {
			return
		}
	}
	// inbound events are newest, keep them in front
	c.notifications = append([]NotificationEvent{event}, c.notifications...)
}

func (c *Client) appendWaiterRequest(event WaiterRequestEvent) {
	req := WaiterRequest{
		ID:          waiterRequestID(event.TableID, event.Timestamp),
		TableNumber: event.TableNumber,
		TableID:     event.TableID,
		TableName:   event.TableName,
		Timestamp:   event.Timestamp,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, w := range c.waiters {
		if w.ID == req.ID {
			return
		}
	}
	c.waiters = append(c.waiters, req)
}

// MergeFetched folds a REST-fetched notification page into the local list,
// skipping entries already delivered over the socket.
func (c *Client) MergeFetched(page []NotificationEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range page {
		seen := false
		for _, existing := range c.notifications {
			if n.ID != 0 && existing.ID == n.ID {
				seen = true
				break
			}
		}
		if !seen {
			c.notifications = append(c.notifications, n)
		}
	}
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) Notifications() []NotificationEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]NotificationEvent, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// WaiterRequests returns the queue in arrival order. Entries never expire
// on their own; they last until dismissed, cleared or disconnected.
func (c *Client) WaiterRequests() []WaiterRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]WaiterRequest, len(c.waiters))
	copy(out, c.waiters)
	return out
}

// Dismiss drops a single waiter request by ID.
func (c *Client) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, w := range c.waiters {
		if w.ID == id {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

// ClearAll empties the waiter-request queue.
func (c *Client) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiters = nil
}
