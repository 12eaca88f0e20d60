package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Dashboard message types
const (
	MsgIntakeStarted   MessageType = "intake_started"
	MsgIntakeProgress  MessageType = "intake_progress"
	MsgIntakeDegraded  MessageType = "intake_degraded"
	MsgIntakeCompleted MessageType = "intake_completed"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages dashboard WebSocket connections, keyed by clinic code. A
// clinic can have several clinicians watching at once.
type Hub struct {
	clinicConns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one dashboard WebSocket connection
type Connection struct {
	ClinicCode  string
	ClinicianID string
	Send        chan []byte
	Hub         *Hub
}

// BroadcastMessage is a message for every dashboard of one clinic
type BroadcastMessage struct {
	ClinicCode string
	Message    *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		clinicConns: make(map[string]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.clinicConns[conn.ClinicCode] == nil {
				h.clinicConns[conn.ClinicCode] = make(map[*Connection]bool)
			}
			h.clinicConns[conn.ClinicCode][conn] = true
			log.Printf("Clinician %s connected to clinic %s", conn.ClinicianID, conn.ClinicCode)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clinicConns[conn.ClinicCode]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					log.Printf("Clinician %s disconnected from clinic %s", conn.ClinicianID, conn.ClinicCode)
				}
				if len(conns) == 0 {
					delete(h.clinicConns, conn.ClinicCode)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.clinicConns[msg.ClinicCode] {
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

// BroadcastToClinic sends a message to every dashboard watching a clinic
// (implements service.Broadcaster)
func (h *Hub) BroadcastToClinic(clinicCode string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ClinicCode: clinicCode,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
