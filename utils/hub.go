package utils

import (
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

type Message struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

// Hub routes notification messages to the connected client of each user.
// It is constructed in main and injected; there is no package-level hub.
type Hub struct {
	Clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Message
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Message, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.UserID]; ok && current == client {
				delete(h.Clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
		case message := <-h.Broadcast:
			h.mu.Lock()
			client, ok := h.Clients[message.UserID]
			if ok {
				select {
				case client.Send <- []byte(message.Content):
				default:
					close(client.Send)
					delete(h.Clients, message.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify is a non-blocking push; users without an open socket miss nothing,
// the durable copy lives in the notifications table.
func (h *Hub) Notify(userID, content string) {
	select {
	case h.Broadcast <- Message{UserID: userID, Content: content}:
	default:
	}
}
