package server

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Message types sent to clients
const (
	TypeContent  = "content"
	TypeError    = "error"
	TypeLanguage = "language"
)

// Message sent to clients
type Message struct {
	Type     string `json:"type"`
	Filename string `json:"filename,omitempty"`
	HTML     string `json:"html,omitempty"`
	Error    string `json:"error,omitempty"`
	Language string `json:"language,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub manages WebSocket clients and broadcasting
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	mu      sync.RWMutex
	current Message
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			// Send current content to new client
			h.mu.RLock()
			if h.current.Type != "" {
				if data, err := json.Marshal(h.current); err == nil {
					client.send <- data
				}
			}
			h.mu.RUnlock()

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Current returns the last content or error message.
func (h *Hub) Current() Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *Hub) SetContent(filename, html string) {
	h.setCurrent(Message{Type: TypeContent, Filename: filename, HTML: html})
}

func (h *Hub) SetError(errMsg string) {
	h.setCurrent(Message{Type: TypeError, Error: errMsg})
}

// SetLanguage tells clients to refresh their translated strings.
func (h *Hub) SetLanguage(lang string) {
	h.send(Message{Type: TypeLanguage, Language: lang})
}

func (h *Hub) setCurrent(m Message) {
	h.mu.Lock()
	h.current = m
	h.mu.Unlock()
	h.send(m)
}

func (h *Hub) send(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}
