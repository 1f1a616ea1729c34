package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/service"
	ws "github.com/gamenight/trivia-backend/internal/websocket"
)

// refreshInterval paces the full leaderboard snapshots pushed to every
// connected client. A client that missed a pub/sub change converges within
// one interval.
const refreshInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the game change feed to clients.
type WSHandler struct {
	broadcaster        *events.Broadcaster
	leaderboardService *service.LeaderboardService
	log                zerolog.Logger
	upgrader           websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(broadcaster *events.Broadcaster, leaderboardService *service.LeaderboardService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		broadcaster:        broadcaster,
		leaderboardService: leaderboardService,
		log:                log.With().Str("component", "ws_handler").Logger(),
		upgrader:           buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/stream
// Upgrades to WebSocket and forwards change events as they happen, plus a
// periodic leaderboard refresh. Clients treat changes as dirty notifications
// and re-fetch through the HTTP API.
func (h *WSHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	// The connection outlives the upgrade request.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.broadcaster.Subscribe(ctx)
	defer pubsub.Close()

	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	// The connection allows a single writer, so the reader never writes.
	// Its replies are forwarded over this channel and sent by the select
	// loop below alongside the change and refresh frames.
	replies := make(chan interface{}, 8)

	// Reader: pings keep the read deadline moving; anything else is an error.
	go func() {
		defer cancel()
		for {
			var msg ws.RequestPayload
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn().Err(err).Msg("unexpected close")
				}
				return
			}

			var reply interface{}
			switch msg.Action {
			case ws.ActionPing:
				reply = ws.PongResponse{Event: ws.EventPong}
			default:
				reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
			}

			select {
			case replies <- reply:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Msg("client disconnected")
			return

		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}

		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var change events.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				h.log.Warn().Err(err).Msg("malformed change event")
				continue
			}
			if err := ws.WriteTyped(conn, ws.ChangeResponse{Event: ws.EventChange, Change: change}); err != nil {
				return
			}

		case <-ticker.C:
			lb, err := h.leaderboardService.Get(ctx)
			if err != nil {
				h.log.Warn().Err(err).Msg("refresh snapshot failed")
				continue
			}
			if err := ws.WriteTyped(conn, ws.RefreshResponse{Event: ws.EventRefresh, Leaderboard: lb}); err != nil {
				return
			}
		}
	}
}
