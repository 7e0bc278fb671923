package ws

// The hub owns every websocket client of the cabinet. It:
//   - keeps the set of connected clients, keyed by the user they watch
//   - receives booking events from the API
//   - forwards each event only to the clients of that user

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/labstack/gommon/log"

	"github.com/c14220110/clinic-appointments/internal/common/events"
)

// Client is one websocket connection following a user's appointments.
type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte
}

type message struct {
	userID  int64
	payload []byte
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			log.Debugf("ws client registered for user %d", client.UserID)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Debugf("ws client unregistered for user %d", client.UserID)
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if client.UserID != msg.userID {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					// slow consumer
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.count.Add(-1)
}

// Clients reports how many connections are registered.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

func (h *Hub) Register(ctx context.Context, client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish implements events.Publisher.
func (h *Hub) Publish(ctx context.Context, evt events.AppointmentCreated) error {
	evt.Type = events.RoutingKeyAppointmentCreated
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- message{userID: evt.UserID, payload: payload}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
