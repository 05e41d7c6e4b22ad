package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// The hub streams workflow events (new applications, document uploads,
// payout requests) to connected admin dashboards.

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type Event struct {
	Type     string    `json:"type"`
	Message  string    `json:"message"`
	EntityID string    `json:"entity_id"`
	At       time.Time `json:"at"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan Event, 16)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Admin client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Admin client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			stale := []uuid.UUID{}
			for adminID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending event to admin %s: %v", adminID, err)
					conn.Close()
					stale = append(stale, adminID)
				}
			}
			clientsMu.RUnlock()

			if len(stale) > 0 {
				clientsMu.Lock()
				for _, adminID := range stale {
					delete(clients, adminID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// PublishEvent is the fire-and-forget entry point used by handlers; it never
// blocks the request path even if no admin is connected.
func PublishEvent(eventType, message, entityID string) {
	event := Event{
		Type:     eventType,
		Message:  message,
		EntityID: entityID,
		At:       time.Now(),
	}
	select {
	case Broadcast <- event:
	default:
		log.Println("Event channel full, dropping admin event:", eventType)
	}
}
