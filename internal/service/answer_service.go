package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/model"
)

// AnswerService handles player submissions and the admin grading view.
type AnswerService struct {
	answers   AnswerStore
	questions QuestionStore
	publisher Publisher
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(answers AnswerStore, questions QuestionStore, publisher Publisher) *AnswerService {
	return &AnswerService{answers: answers, questions: questions, publisher: publisher}
}

// Submit upserts a player's answer. Resubmitting overwrites the text (last
// write wins) without touching any prior grade. Submissions are rejected for
// inactive or unknown questions, and locked once the question is revealed.
func (s *AnswerService) Submit(ctx context.Context, playerID, questionID uuid.UUID, text string) (*model.Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyAnswerText
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	if !q.IsActive {
		return nil, ErrQuestionNotFound
	}
	if q.IsRevealed {
		return nil, ErrAnswersLocked
	}

	a := &model.Answer{
		PlayerID:   playerID,
		QuestionID: questionID,
		AnswerText: text,
	}
	if err := s.answers.Upsert(ctx, a); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Change{
		Table:    events.TableAnswers,
		Action:   events.ActionUpdated,
		EntityID: a.ID.String(),
	})
	return a, nil
}

// ListByQuestion retrieves every answer for one question with player names,
// the admin grading view.
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.AnswerWithPlayer, error) {
	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []model.AnswerWithPlayer{}
	}
	return answers, nil
}
