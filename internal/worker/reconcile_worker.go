package worker

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/service"
)

// ReconcileWorker periodically recomputes each player's total_score from
// their correct answers and repairs any drift. The stored total is a derived
// column kept in sync transactionally by the scoring path; this loop is the
// safety net for crashes between reveal and grading, cascade deletes and
// manual database surgery.
type ReconcileWorker struct {
	pool        *pgxpool.Pool
	publisher   service.Publisher
	leaderboard service.Invalidator
	interval    time.Duration
	log         zerolog.Logger
}

// NewReconcileWorker creates a new ReconcileWorker.
func NewReconcileWorker(pool *pgxpool.Pool, publisher service.Publisher, leaderboard service.Invalidator, interval time.Duration, log zerolog.Logger) *ReconcileWorker {
	return &ReconcileWorker{
		pool:        pool,
		publisher:   publisher,
		leaderboard: leaderboard,
		interval:    interval,
		log:         log.With().Str("component", "reconcile_worker").Logger(),
	}
}

// Start begins the reconcile loop. Call in a goroutine.
func (w *ReconcileWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *ReconcileWorker) reconcile(ctx context.Context) {
	tag, err := w.pool.Exec(ctx,
		`UPDATE players p
		 SET total_score = s.score
		 FROM (
			SELECT pl.id,
			       COALESCE(SUM(a.points_earned) FILTER (WHERE a.is_correct), 0) AS score
			FROM players pl
			LEFT JOIN answers a ON a.player_id = pl.id
			GROUP BY pl.id
		 ) s
		 WHERE p.id = s.id AND p.total_score <> s.score`)
	if err != nil {
		w.log.Error().Err(err).Msg("score reconcile failed")
		return
	}

	if repaired := tag.RowsAffected(); repaired > 0 {
		w.log.Warn().Int64("players", repaired).Msg("repaired score drift")
		w.leaderboard.Invalidate(ctx)
		w.publisher.Publish(ctx, events.Change{
			Table:  events.TablePlayers,
			Action: events.ActionRefresh,
		})
	}
}
