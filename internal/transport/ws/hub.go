package ws

import (
	"campuspolls/internal/model"
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgStatsUpdate MessageType = "stats_update"
	MsgError       MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for prompt watchers
type Hub struct {
	// Prompt -> connections
	watchers map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one watcher of a prompt
type Connection struct {
	PromptID string
	UserID   string
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message to all watchers of a prompt
type BroadcastMessage struct {
	PromptID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.PromptID] == nil {
				h.watchers[conn.PromptID] = make(map[*Connection]struct{})
			}
			h.watchers[conn.PromptID][conn] = struct{}{}
			h.mu.Unlock()
			log.Printf("Watcher connected to prompt %s", conn.PromptID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.PromptID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.watchers, conn.PromptID)
					}
					log.Printf("Watcher disconnected from prompt %s", conn.PromptID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.watchers[msg.PromptID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastStats pushes fresh aggregation results to all watchers of a
// prompt (implements service.Broadcaster)
func (h *Hub) BroadcastStats(promptID string, stats *model.PromptStats) {
	data, _ := json.Marshal(stats)
	h.broadcast <- &BroadcastMessage{
		PromptID: promptID,
		Message: &Message{
			Type:    MsgStatsUpdate,
			Payload: data,
		},
	}
}
