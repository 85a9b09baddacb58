package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types delivered over the staff socket
const (
	EventNotification  = "notification"
	EventOrderNew      = "order:new"
	EventWaiterRequest = "waiter:request"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// NotificationEvent is the payload of a "notification" event.
type NotificationEvent struct {
	ID    uint   `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Type  string `json:"type,omitempty"`
}

// WaiterRequestEvent is the payload of a "waiter:request" event.
type WaiterRequestEvent struct {
	TableNumber int    `json:"tableNumber"`
	TableID     uint   `json:"tableId"`
	TableName   string `json:"tableName"`
	Timestamp   string `json:"timestamp"`
}

// Hub holds every connected staff client and broadcasts loyalty events to
// all of them. Constructed once at the composition root and injected into
// the controllers that emit events.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// RegisterClient adds a connection to the set with its role
func (h *Hub) RegisterClient(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// UnregisterClient releases a connection
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// BroadcastNotification pushes a persisted notification to every client
func (h *Hub) BroadcastNotification(event NotificationEvent) {
	h.broadcast(Message{Event: EventNotification, Data: event})
}

// BroadcastOrderNew signals a freshly submitted order
func (h *Hub) BroadcastOrderNew(data interface{}) {
	h.broadcast(Message{Event: EventOrderNew, Data: data})
}

// BroadcastWaiterRequest pushes a per-table service call to staff
func (h *Hub) BroadcastWaiterRequest(event WaiterRequestEvent) {
	h.broadcast(Message{Event: EventWaiterRequest, Data: event})
}

func (h *Hub) broadcast(msg Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s event to %s client: %v", msg.Event, role, err)
		}
	}
}
