package handler

import (
	"time"

	"ai-filesearch-be/internal/pkg/logger"
	internalWS "ai-filesearch-be/internal/websocket"
	"ai-filesearch-be/pkg/events"
	pktNats "ai-filesearch-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventHandler owns the websocket upgrade endpoint and a debug trigger
// for exercising the event fanout without running a chat turn.
type EventHandler struct {
	hub       *internalWS.Hub
	publisher *pktNats.Publisher // may be nil
	logger    logger.ILogger
}

func NewEventHandler(hub *internalWS.Hub, pub *pktNats.Publisher, log logger.ILogger) *EventHandler {
	return &EventHandler{
		hub:       hub,
		publisher: pub,
		logger:    log,
	}
}

// ServeWs subscribes the peer to one session's turn-event stream.
func (h *EventHandler) ServeWs(c *fiber.Ctx) error {
	sessionId := c.Params("session_id")
	if sessionId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("EventHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionId})
			internalWS.ServeWs(h.hub, conn, sessionId)
			h.logger.Info("EventHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// DebugTriggerEvent publishes an arbitrary event to NATS to test the flow.
func (h *EventHandler) DebugTriggerEvent(c *fiber.Ctx) error {
	type Request struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Type == "" {
		req.Type = "TEST_EVENT"
	}
	if req.Payload == nil {
		req.Payload = make(map[string]interface{})
	}

	evt := events.BaseEvent{
		Type:       req.Type,
		Data:       req.Payload,
		OccurredAt: time.Now(),
	}

	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Event publisher not configured"})
	}

	if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "Event Published", "event": evt})
}

// RegisterRoutes registers the websocket and debug routes.
func (h *EventHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat/:session_id", h.ServeWs)

	debug := router.Group("/debug")
	debug.Post("/trigger-event", h.DebugTriggerEvent)
}
