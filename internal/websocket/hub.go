package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-filesearch-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// redisChannel relays hub frames between instances. Every instance
// subscribes and forwards to the sessions it holds locally.
const redisChannel = "cluster_events"

// Hub fans turn events out to websocket subscribers, keyed by chat
// session. One session can have several subscribers (multiple tabs).
// With Redis configured, frames travel through the relay channel so every
// instance, this one included, delivers exactly once to its local
// subscribers.
type Hub struct {
	// Registered clients map: SessionID -> list of clients
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fanout, may be nil
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session has no subscribers left", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// frame serializes one typed payload for the wire.
func frame(frameType string, data interface{}) []byte {
	out, _ := json.Marshal(map[string]interface{}{
		"type": frameType,
		"data": data,
	})
	return out
}

// Send delivers a frame to every subscriber of one session. With Redis
// available the frame goes through the relay; otherwise straight to the
// local subscribers.
func (h *Hub) Send(sessionId string, frameType string, data interface{}) {
	payload := frame(frameType, data)

	if h.rdb != nil {
		h.relay(sessionId, payload)
		return
	}
	h.deliverSession(sessionId, payload)
}

// Broadcast delivers a frame to every subscriber of every session.
func (h *Hub) Broadcast(frameType string, data interface{}) {
	payload := frame(frameType, data)

	if h.rdb != nil {
		h.relay("*", payload)
		return
	}
	h.deliverAll(payload)
}

func (h *Hub) relay(target string, payload []byte) {
	relayJson, _ := json.Marshal(map[string]interface{}{
		"target_session_id": target,
		"message":           json.RawMessage(payload),
	})
	if err := h.rdb.Publish(context.Background(), redisChannel, relayJson).Err(); err != nil {
		h.logger.Warn("Hub", "Redis relay failed, delivering locally only", map[string]interface{}{"error": err.Error()})
		if target == "*" {
			h.deliverAll(payload)
		} else {
			h.deliverSession(target, payload)
		}
	}
}

// deliverSession pushes a frame to one session's subscribers. Holding the
// read lock keeps Run from closing a Send channel mid-delivery; slow
// subscribers are dropped through Run, which owns the single close.
func (h *Hub) deliverSession(sessionId string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionId] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping subscriber", map[string]interface{}{"session_id": sessionId})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) deliverAll(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- payload:
			default:
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// subscribeToRedis forwards relayed frames to locally held sessions.
// Frames for sessions this instance does not hold are ignored.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetSessionID == "*" {
			h.deliverAll(payload.Message)
			continue
		}
		h.deliverSession(payload.TargetSessionID, payload.Message)
	}
}
