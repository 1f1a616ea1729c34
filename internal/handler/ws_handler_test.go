package handler_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/handler"
	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/service"
	ws "github.com/gamenight/trivia-backend/internal/websocket"
)

type stubPlayers struct{ service.PlayerStore }

func (stubPlayers) List(ctx context.Context) ([]model.Player, error) { return nil, nil }

type stubQuestions struct{ service.QuestionStore }

func (stubQuestions) ListRevealed(ctx context.Context) ([]model.Question, error) { return nil, nil }

func newStreamServer(t *testing.T) (*httptest.Server, *events.Broadcaster) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	broadcaster := events.NewBroadcaster(client, zerolog.Nop())
	leaderboard := service.NewLeaderboardService(stubPlayers{}, stubQuestions{}, client, time.Minute, zerolog.Nop())
	h := handler.NewWSHandler(broadcaster, leaderboard, zerolog.Nop(), nil)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ws/v1/stream", h.Stream)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv, broadcaster
}

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var frame struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("malformed frame %q: %v", data, err)
	}
	return frame.Event
}

// Pong replies and change events are written by different goroutines on the
// server side; both must arrive intact when they collide.
func TestStreamInterleavesPingsAndChanges(t *testing.T) {
	srv, broadcaster := newStreamServer(t)
	conn := dialStream(t, srv)
	ctx := context.Background()

	// A first ping round trip proves the stream is up and the pub/sub
	// subscription is established before anything is published.
	if err := conn.WriteJSON(ws.RequestPayload{Action: ws.ActionPing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if event := readEvent(t, conn); event != string(ws.EventPong) {
		t.Fatalf("expected pong, got %q", event)
	}

	const frames = 50
	go func() {
		for i := 0; i < frames; i++ {
			if err := conn.WriteJSON(ws.RequestPayload{Action: ws.ActionPing}); err != nil {
				return
			}
		}
	}()
	for i := 0; i < frames; i++ {
		broadcaster.Publish(ctx, events.Change{
			Table:    events.TableAnswers,
			Action:   events.ActionUpdated,
			EntityID: "a-1",
		})
	}

	pongs, changes := 0, 0
	for pongs < frames || changes < frames {
		switch event := readEvent(t, conn); event {
		case string(ws.EventPong):
			pongs++
		case string(ws.EventChange):
			changes++
		default:
			t.Fatalf("unexpected event %q after %d pongs, %d changes", event, pongs, changes)
		}
	}
}

func TestStreamRejectsUnknownActions(t *testing.T) {
	srv, _ := newStreamServer(t)
	conn := dialStream(t, srv)

	if err := conn.WriteJSON(ws.RequestPayload{Action: ws.Action("subscribe")}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if event := readEvent(t, conn); event != string(ws.EventError) {
		t.Fatalf("expected error frame, got %q", event)
	}

	// The connection stays usable after a bad request.
	if err := conn.WriteJSON(ws.RequestPayload{Action: ws.ActionPing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if event := readEvent(t, conn); event != string(ws.EventPong) {
		t.Fatalf("expected pong, got %q", event)
	}
}
