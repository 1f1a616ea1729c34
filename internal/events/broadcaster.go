package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/config"
)

// Tables that emit change events.
const (
	TableQuestions = "questions"
	TablePlayers   = "players"
	TableAnswers   = "answers"

	// TableGame marks whole-game events such as a reset.
	TableGame = "game"
)

// Actions describing what happened to a row (or the whole game).
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionRevealed = "revealed"
	ActionScored   = "scored"
	ActionReset    = "reset"
	ActionRefresh  = "refresh"
)

// Change is one entry on the game change feed. Clients treat it as a dirty
// notification: re-fetch the named table rather than patching local state.
// Delivery is at-least-once only in combination with the periodic refresh;
// a missed pub/sub message is repaired by the next refresh event.
type Change struct {
	Table      string    `json:"table"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Broadcaster fans game change events out through Redis PubSub so every
// server instance's WebSocket clients see them.
type Broadcaster struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewBroadcaster(rdb *redis.Client, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		rdb: rdb,
		log: log.With().Str("component", "broadcaster").Logger(),
	}
}

// Publish emits a change event. Failures are logged, not returned: the feed
// is advisory and the periodic refresh covers losses, so mutating operations
// must not fail because the notification did.
func (b *Broadcaster) Publish(ctx context.Context, change Change) {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(change)
	if err != nil {
		b.log.Error().Err(err).Msg("marshal change event")
		return
	}

	if err := b.rdb.Publish(ctx, config.CacheKey.GameChangesChannel(), payload).Err(); err != nil {
		b.log.Warn().Err(err).
			Str("table", change.Table).
			Str("action", change.Action).
			Msg("publish change event failed")
	}
}

// Subscribe attaches to the change feed. The caller owns the returned PubSub
// and must Close it.
func (b *Broadcaster) Subscribe(ctx context.Context) *redis.PubSub {
	return b.rdb.Subscribe(ctx, config.CacheKey.GameChangesChannel())
}
