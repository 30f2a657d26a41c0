package constant

// Frame labels shared by the bus consumer and the websocket fanout.
// Event types live in pkg/events; bus topic names come from config.
const (
	// WsTypeTurn labels turn frames pushed to websocket subscribers.
	WsTypeTurn = "turn"
)
