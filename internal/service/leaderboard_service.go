package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/config"
	"github.com/gamenight/trivia-backend/internal/model"
)

// LeaderboardService builds the public standings view. Snapshots are cached
// in Redis for a few seconds to absorb the refresh stampede after a reveal;
// the cache is advisory and every failure falls through to the database.
type LeaderboardService struct {
	players   PlayerStore
	questions QuestionStore
	rdb       *redis.Client
	ttl       time.Duration
	log       zerolog.Logger
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(players PlayerStore, questions QuestionStore, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		players:   players,
		questions: questions,
		rdb:       rdb,
		ttl:       ttl,
		log:       log.With().Str("component", "leaderboard").Logger(),
	}
}

// Get returns the current standings, from cache when a fresh snapshot exists.
func (s *LeaderboardService) Get(ctx context.Context) (*model.Leaderboard, error) {
	key := config.CacheKey.LeaderboardSnapshotKey()

	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		lb := &model.Leaderboard{}
		if err := json.Unmarshal(cached, lb); err == nil {
			return lb, nil
		}
		s.log.Warn().Msg("discarding malformed leaderboard snapshot")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("leaderboard cache read failed")
	}

	lb, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(lb); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache write failed")
		}
	}
	return lb, nil
}

// Invalidate drops the cached snapshot so the next read sees fresh scores.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.LeaderboardSnapshotKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("leaderboard cache invalidation failed")
	}
}

func (s *LeaderboardService) build(ctx context.Context) (*model.Leaderboard, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}
	revealed, err := s.questions.ListRevealed(ctx)
	if err != nil {
		return nil, err
	}
	if revealed == nil {
		revealed = []model.Question{}
	}

	// Players arrive already sorted by score. Equal scores share a rank.
	entries := make([]model.LeaderboardEntry, 0, len(players))
	rank := 0
	prevScore := 0
	for i, p := range players {
		if i == 0 || p.TotalScore != prevScore {
			rank = i + 1
			prevScore = p.TotalScore
		}
		entries = append(entries, model.LeaderboardEntry{
			Rank:       rank,
			PlayerID:   p.ID,
			Name:       p.Name,
			TotalScore: p.TotalScore,
		})
	}

	return &model.Leaderboard{
		Entries:     entries,
		Revealed:    revealed,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
