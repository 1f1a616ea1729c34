package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/model"
)

// ScoringService grades answers. The credit and debit paths run as single
// store transactions conditioned on the answer's prior correctness, so
// repeated grading of the same answer never double-counts.
type ScoringService struct {
	answers     AnswerStore
	questions   QuestionStore
	publisher   Publisher
	leaderboard Invalidator
	log         zerolog.Logger
}

// NewScoringService creates a new ScoringService.
func NewScoringService(answers AnswerStore, questions QuestionStore, publisher Publisher, leaderboard Invalidator, log zerolog.Logger) *ScoringService {
	return &ScoringService{
		answers:     answers,
		questions:   questions,
		publisher:   publisher,
		leaderboard: leaderboard,
		log:         log.With().Str("component", "scoring").Logger(),
	}
}

// MarkCorrect grades an answer as correct, crediting the question's point
// value (or the override, when given) to the player. Grading an already
// correct answer is a no-op.
func (s *ScoringService) MarkCorrect(ctx context.Context, answerID uuid.UUID, overridePoints *int) (*model.Answer, error) {
	a, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}

	points := 0
	if overridePoints != nil {
		points = *overridePoints
	} else {
		q, err := s.questions.GetByID(ctx, a.QuestionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrQuestionNotFound
			}
			return nil, err
		}
		points = q.Points
	}

	a, applied, err := s.answers.MarkCorrect(ctx, answerID, points)
	if err != nil {
		return nil, err
	}
	if applied {
		s.afterScoreChange(ctx, answerID)
	} else {
		s.log.Debug().Str("answer_id", answerID.String()).Msg("mark correct skipped, already credited")
	}
	return a, nil
}

// MarkIncorrect grades an answer as incorrect, debiting previously earned
// points. Grading an already incorrect answer is a no-op.
func (s *ScoringService) MarkIncorrect(ctx context.Context, answerID uuid.UUID) (*model.Answer, error) {
	a, applied, err := s.answers.MarkIncorrect(ctx, answerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}
	if applied {
		s.afterScoreChange(ctx, answerID)
	}
	return a, nil
}

func (s *ScoringService) afterScoreChange(ctx context.Context, answerID uuid.UUID) {
	s.leaderboard.Invalidate(ctx)
	s.publisher.Publish(ctx, events.Change{
		Table:    events.TableAnswers,
		Action:   events.ActionScored,
		EntityID: answerID.String(),
	})
}
