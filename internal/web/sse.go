package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/courtside/scorekeeper/internal/coordinator"
)

// SSEClient represents a connected SSE client.
type SSEClient struct {
	ID      string
	Channel chan sseMessage
}

type sseMessage struct {
	Event string
	Data  []byte
}

// SSEHub manages SSE connections and broadcasts coordinator events.
type SSEHub struct {
	clients     map[*SSEClient]bool
	mu          sync.RWMutex
	coordinator *coordinator.Coordinator
	log         logrus.FieldLogger
}

// NewSSEHub creates a new SSE hub.
func NewSSEHub(coord *coordinator.Coordinator, log logrus.FieldLogger) *SSEHub {
	return &SSEHub{
		clients:     make(map[*SSEClient]bool),
		coordinator: coord,
		log:         log,
	}
}

// Run starts the SSE hub, processing events from the coordinator.
func (h *SSEHub) Run(events <-chan coordinator.Event) {
	h.log.Info("SSE hub started")
	for event := range events {
		msg, ok := h.render(event)
		if !ok {
			continue
		}
		h.broadcast(msg)
	}
}

// render turns an event into the message sent to views. Events views do not
// need are skipped.
func (h *SSEHub) render(event coordinator.Event) (sseMessage, bool) {
	var name string
	var payload any

	switch e := event.(type) {
	case coordinator.StateChanged:
		name, payload = "state", e.Snapshot
	case coordinator.ActionUndone:
		name, payload = "undo", map[string]string{"name": e.Name, "kind": e.Kind}
	case coordinator.GameSaved:
		name, payload = "saved", map[string]any{"id": e.Entry.ID, "teamScore": e.Entry.TeamScore}
	default:
		return sseMessage{}, false
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("event", name).Error("Failed to encode SSE event")
		return sseMessage{}, false
	}
	return sseMessage{Event: name, Data: data}, true
}

func (h *SSEHub) broadcast(msg sseMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Channel <- msg:
		default:
			// Client too slow, skip
			h.log.WithField("client", client.ID).Warn("Dropping message for slow client")
		}
	}
}

// Clients returns the number of connected clients.
func (h *SSEHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleConnection handles a new SSE connection.
func (h *SSEHub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := &SSEClient{
		ID:      uuid.New().String(),
		Channel: make(chan sseMessage, 10),
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	h.log.WithField("client", client.ID).Info("SSE client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, client)
		h.mu.Unlock()
		h.log.WithField("client", client.ID).Info("SSE client disconnected")
	}()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	// Send initial state sync
	if initial, ok := h.render(coordinator.StateChanged{Snapshot: h.coordinator.GetSnapshot()}); ok {
		writeSSE(w, initial)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-client.Channel:
			writeSSE(w, msg)
			flusher.Flush()
		}
	}
}

// writeSSE writes one message; each data line must be prefixed with "data: ".
func writeSSE(w http.ResponseWriter, msg sseMessage) {
	fmt.Fprintf(w, "event: %s\n", msg.Event)
	for _, line := range strings.Split(string(msg.Data), "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprintf(w, "\n")
}
