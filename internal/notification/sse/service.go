// Package sse provides Server-Sent Events support for real-time notifications.
package sse

import (
	"encoding/json"
	"log/slog"
	"sync"

	"roofing_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventPipelineAlert     EventType = "pipeline_alert"
	EventFollowUpScheduled EventType = "follow_up_scheduled"
)

// Event represents an SSE event payload
type Event struct {
	Type    EventType   `json:"type"`
	LeadID  string      `json:"leadId,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// client represents a connected SSE client
type client struct {
	id     uuid.UUID
	events chan Event
}

// Service manages SSE connections and event broadcasting
type Service struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	log     *logger.Logger
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[uuid.UUID]*client),
		log:     log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)
	close(c.events)
}

// Subscribe registers a listener and returns its event channel plus a
// function that unregisters it.
func (s *Service) Subscribe() (<-chan Event, func()) {
	cl := &client{id: uuid.New(), events: make(chan Event, 32)}
	s.addClient(cl)
	return cl.events, func() { s.removeClient(cl) }
}

// ClientCount returns the number of connected dashboards.
func (s *Service) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends an event to every connected client. Clients whose buffer
// is full miss the event.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, c := range s.clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse buffer full", slog.String("client_id", id.String()), slog.String("event", string(event.Type)))
		}
	}
}

// Handler returns a Gin handler for SSE connections
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{id: uuid.New(), events: make(chan Event, 32)}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"clientId": cl.id})
		c.Writer.Flush()
		s.log.Debug("sse client connected", slog.String("client_id", cl.id.String()))

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Debug("sse client disconnected", slog.String("client_id", cl.id.String()))
				return
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					s.log.Error("sse event encode failed",
						slog.String("event", string(event.Type)),
						slog.String("error", err.Error()),
					)
					continue
				}
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects every client.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.clients {
		close(c.events)
		delete(s.clients, id)
	}
}
