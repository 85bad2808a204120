// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types pushed on the training stream
const (
	MessageTypeTrainingProgress  = "training_progress"
	MessageTypeTrainingCompleted = "training_completed"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err(). It is designed for suture supervision.
//
// Shutdown is checked first, then client lifecycle events, then
// broadcasts, so client state is consistent before a message fans out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.WSConnections.Dec()
		logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// logGracefulShutdown closes all clients and logs the shutdown. The context
// error is not logged as an error since cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// broadcastToClients sends a message to every client in ID order. Clients
// whose send buffer is full are dropped.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sortedClients()
	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
		metrics.WSMessagesDropped.Inc()
	}
}

// closeAllClients closes every client in ID order.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
	}
}

// sortedClients must be called with mu held.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// BroadcastJSON sends a JSON message to all connected clients
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping JSON message")
	}
}

// TrainingProgressData is sent with training_progress messages, one per
// pipeline stage transition.
type TrainingProgressData struct {
	RunID     string `json:"run_id"`
	Stage     string `json:"stage"`
	Status    string `json:"status"` // started, completed, failed
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Records   int    `json:"records,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// BroadcastTrainingProgress notifies all clients of a pipeline stage transition
func (h *Hub) BroadcastTrainingProgress(data *TrainingProgressData) {
	if data.Timestamp == "" {
		data.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	select {
	case h.broadcast <- Message{Type: MessageTypeTrainingProgress, Data: data}:
		logging.Debug().
			Int("clients", h.GetClientCount()).
			Str("stage", data.Stage).
			Str("status", data.Status).
			Msg("broadcast training_progress")
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Msg("broadcast channel full, dropping training_progress message")
	}
}

// TrainingCompletedData is sent once a retrain has finished.
type TrainingCompletedData struct {
	Outcome    string `json:"outcome"`
	Message    string `json:"message"`
	DurationMS int64  `json:"duration_ms"`
	Generation int64  `json:"generation"`
	Timestamp  string `json:"timestamp"`
}

// BroadcastTrainingCompleted notifies all clients that a retrain finished
func (h *Hub) BroadcastTrainingCompleted(outcome, message string, durationMS, generation int64) {
	data := TrainingCompletedData{
		Outcome:    outcome,
		Message:    message,
		DurationMS: durationMS,
		Generation: generation,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	select {
	case h.broadcast <- Message{Type: MessageTypeTrainingCompleted, Data: data}:
		logging.Info().Int("clients", h.GetClientCount()).Str("outcome", outcome).Msg("broadcast training_completed")
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Msg("broadcast channel full, dropping training_completed message")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
