package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/repository"
)

const (
	joinCodeSuffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	joinCodeAttempts    = 5
)

// PlayerService handles player join, rejoin and removal.
type PlayerService struct {
	players   PlayerStore
	publisher Publisher
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(players PlayerStore, publisher Publisher) *PlayerService {
	return &PlayerService{players: players, publisher: publisher}
}

// joinCodePrefix derives the code prefix from a display name: the first four
// characters upper-cased, with anything outside A-Z replaced by X. Short
// names are padded with X.
func joinCodePrefix(name string) string {
	prefix := [4]byte{'X', 'X', 'X', 'X'}
	upper := strings.ToUpper(name)
	for i := 0; i < 4 && i < len(upper); i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			prefix[i] = upper[i]
		}
	}
	return string(prefix[:])
}

func randomJoinCodeSuffix() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = joinCodeSuffixChars[int(b)%len(joinCodeSuffixChars)]
	}
	return string(buf), nil
}

// Join registers a new player and hands back their personal rejoin code,
// shaped NAME-XXXX. Collisions on the random suffix are retried.
func (s *PlayerService) Join(ctx context.Context, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	prefix := joinCodePrefix(name)

	var p *model.Player
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		suffix, err := randomJoinCodeSuffix()
		if err != nil {
			return nil, err
		}

		p = &model.Player{
			Name:     name,
			JoinCode: prefix + "-" + suffix,
		}
		err = s.players.Create(ctx, p)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateJoinCode) {
			p = nil
			continue
		}
		return nil, err
	}
	if p == nil {
		return nil, errors.New("could not allocate a unique join code")
	}

	s.publisher.Publish(ctx, events.Change{
		Table:    events.TablePlayers,
		Action:   events.ActionCreated,
		EntityID: p.ID.String(),
	})
	return p, nil
}

// Rejoin resolves a previously issued join code back to its player.
func (s *PlayerService) Rejoin(ctx context.Context, joinCode string) (*model.Player, error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))

	p, err := s.players.GetByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidJoinCode
		}
		return nil, err
	}
	return p, nil
}

// Get retrieves a player by ID.
func (s *PlayerService) Get(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	p, err := s.players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all players in leaderboard order.
func (s *PlayerService) List(ctx context.Context) ([]model.Player, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []model.Player{}
	}
	return players, nil
}

// Delete removes a player and, via cascade, their answers.
func (s *PlayerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.players.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPlayerNotFound
		}
		return err
	}

	s.publisher.Publish(ctx, events.Change{
		Table:    events.TablePlayers,
		Action:   events.ActionDeleted,
		EntityID: id.String(),
	})
	return nil
}
