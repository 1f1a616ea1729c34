package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestPayload is the single client → server message shape. Clients only
// ping; all game mutations go through the HTTP API.
type RequestPayload struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventChange  Event = "change"
	EventRefresh Event = "refresh"
	EventPong    Event = "pong"
)

// ChangeResponse wraps a change-feed entry for delivery to a client.
type ChangeResponse struct {
	Event  Event       `json:"event"`
	Change interface{} `json:"change"`
}

// RefreshResponse carries a periodic full leaderboard snapshot so clients
// that missed a change push converge within one refresh interval.
type RefreshResponse struct {
	Event       Event       `json:"event"`
	Leaderboard interface{} `json:"leaderboard"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
