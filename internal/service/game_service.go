package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/events"
)

// GameService owns whole-game operations, currently just the reset.
type GameService struct {
	questions   QuestionStore
	players     PlayerStore
	publisher   Publisher
	leaderboard Invalidator
	log         zerolog.Logger
}

// NewGameService creates a new GameService.
func NewGameService(questions QuestionStore, players PlayerStore, publisher Publisher, leaderboard Invalidator, log zerolog.Logger) *GameService {
	return &GameService{
		questions:   questions,
		players:     players,
		publisher:   publisher,
		leaderboard: leaderboard,
		log:         log.With().Str("component", "game").Logger(),
	}
}

// Reset wipes all players and answers (answers cascade from players). With
// deleteQuestions the question set goes too; without it every question is
// rolled back to unrevealed with a cleared correct answer, keeping text,
// points and ordering for the next round. Not reversible.
func (s *GameService) Reset(ctx context.Context, deleteQuestions bool) error {
	if err := s.players.DeleteAll(ctx); err != nil {
		return err
	}

	if deleteQuestions {
		if err := s.questions.DeleteAll(ctx); err != nil {
			return err
		}
	} else {
		if err := s.questions.ResetAll(ctx); err != nil {
			return err
		}
	}

	s.leaderboard.Invalidate(ctx)
	s.publisher.Publish(ctx, events.Change{
		Table:  events.TableGame,
		Action: events.ActionReset,
	})

	s.log.Info().Bool("delete_questions", deleteQuestions).Msg("game reset")
	return nil
}
