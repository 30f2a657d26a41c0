package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs subscribes a websocket connection to a chat session's event
// stream. Blocks until the peer disconnects.
func ServeWs(hub *Hub, c *websocket.Conn, sessionId string) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionId, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // runs in the handler goroutine
}
