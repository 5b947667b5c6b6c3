// file: internal/realtime/events.go
// version: 2.0.0
// guid: 1b2c3d4e-5f6a-7b8c-9d0e-1f2a3b4c5d6e

package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/metrics"
)

// EventType defines the type of real-time event
type EventType string

const (
	EventCatalogChanged   EventType = "catalog.changed"
	EventRawFolderChanged EventType = "rawfolder.changed"
	EventSystemStatus     EventType = "system.status"
)

// Event represents a real-time event to send to clients
type Event struct {
	Type      EventType              `json:"type"`
	Entity    string                 `json:"entity,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID       string
	Channel  chan *Event
	Entities map[string]bool // Entities this client is interested in
	mu       sync.RWMutex
}

// NewClient creates a new SSE client
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Channel:  make(chan *Event, 100),
		Entities: make(map[string]bool),
	}
}

// Subscribe limits the client to events about one entity kind
func (c *Client) Subscribe(entity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entities[entity] = true
}

// IsSubscribed checks if client wants events about an entity kind
func (c *Client) IsSubscribed(entity string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Entities[entity]
}

// EventHub manages SSE connections and event distribution
type EventHub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[string]*Client),
	}
}

// RegisterClient registers a new client
func (h *EventHub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	metrics.SetSSEClients(len(h.clients))
	log.Printf("[INFO] SSE client %s registered, total clients: %d", client.ID, len(h.clients))
}

// UnregisterClient removes a client
func (h *EventHub) UnregisterClient(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.clients[clientID]; exists {
		close(client.Channel)
		delete(h.clients, clientID)
		metrics.SetSSEClients(len(h.clients))
		log.Printf("[INFO] SSE client %s unregistered, remaining clients: %d", clientID, len(h.clients))
	}
}

// Broadcast sends an event to all interested clients. A client with no
// subscriptions receives everything; events without an entity go to everyone.
func (h *EventHub) Broadcast(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if event.Entity == "" || len(client.Entities) == 0 || client.IsSubscribed(event.Entity) {
			select {
			case client.Channel <- event:
			default:
				log.Printf("[WARN] SSE client %s channel full, dropping event", client.ID)
			}
		}
	}
}

// SendCatalogChanged announces a create, update or inactivate on an entity
func (h *EventHub) SendCatalogChanged(entity, action string, id int64) {
	h.Broadcast(&Event{
		Type:      EventCatalogChanged,
		Entity:    entity,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"entity": entity,
			"action": action,
			"id":     id,
		},
	})
}

// SendRawFolderChanged announces that the unimported file listing is stale
func (h *EventHub) SendRawFolderChanged(path string) {
	h.Broadcast(&Event{
		Type:      EventRawFolderChanged,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"path": path,
		},
	})
}

// SendSystemStatus sends a system status event
func (h *EventHub) SendSystemStatus(data map[string]interface{}) {
	h.Broadcast(&Event{
		Type:      EventSystemStatus,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// GetClientCount returns the number of connected clients
func (h *EventHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleSSE handles Server-Sent Events connection
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("X-Accel-Buffering", "no")

	clientID := fmt.Sprintf("client-%d", time.Now().UnixNano())
	client := NewClient(clientID)

	if entity := c.Query("entity"); entity != "" {
		client.Subscribe(entity)
	}

	h.RegisterClient(client)
	defer h.UnregisterClient(clientID)

	initialEvent := &Event{
		Type:      "connection.established",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"clientId": clientID,
		},
	}
	if data, err := json.Marshal(initialEvent); err == nil {
		_, _ = c.Writer.Write([]byte(fmt.Sprintf("data: %s\n\n", data)))
		c.Writer.Flush()
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event := <-client.Channel:
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("[ERROR] Failed to marshal event: %v", err)
				continue
			}
			if _, err := c.Writer.Write([]byte(fmt.Sprintf("data: %s\n\n", data))); err != nil {
				return
			}
			c.Writer.Flush()
		case <-ticker.C:
			heartbeat := map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now(),
			}
			if data, err := json.Marshal(heartbeat); err == nil {
				_, _ = c.Writer.Write([]byte(fmt.Sprintf("data: %s\n\n", data)))
				c.Writer.Flush()
			}
		}
	}
}

// Global event hub instance
var GlobalHub *EventHub

// InitializeEventHub initializes the global event hub
func InitializeEventHub() {
	if GlobalHub != nil {
		return
	}
	GlobalHub = NewEventHub()
}
