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

// QuestionService handles question lifecycle: create, edit, reveal, reorder,
// delete. Every mutation lands on the change feed.
type QuestionService struct {
	questions QuestionStore
	answers   AnswerStore
	publisher Publisher
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions QuestionStore, answers AnswerStore, publisher Publisher) *QuestionService {
	return &QuestionService{questions: questions, answers: answers, publisher: publisher}
}

// normalizeOptions trims entries and drops empty ones, preserving order.
func normalizeOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// List retrieves all questions in play order, including inactive ones.
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	return s.questions.List(ctx, false)
}

// Get retrieves a single question.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

// ListForPlayer retrieves active questions paired with the player's own
// answers. Correct answers are stripped from questions that have not been
// revealed yet.
func (s *QuestionService) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]model.QuestionWithAnswer, error) {
	questions, err := s.questions.List(ctx, true)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[uuid.UUID]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	view := make([]model.QuestionWithAnswer, 0, len(questions))
	for _, q := range questions {
		if !q.IsRevealed {
			q.CorrectAnswer = nil
		}
		item := model.QuestionWithAnswer{Question: q}
		if a, ok := byQuestion[q.ID]; ok {
			answer := a
			item.PlayerAnswer = &answer
		}
		view = append(view, item)
	}
	return view, nil
}

// Create adds a question at the end of the current ordering. Multiple choice
// questions need at least two non-empty options; freeform questions carry none.
func (s *QuestionService) Create(ctx context.Context, req model.CreateQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		QuestionText: strings.TrimSpace(req.QuestionText),
		QuestionType: model.QuestionType(req.QuestionType),
		Points:       req.Points,
	}

	if q.QuestionType == model.QuestionTypeMultipleChoice {
		q.Options = normalizeOptions(req.Options)
		if len(q.Options) < 2 {
			return nil, ErrTooFewOptions
		}
	}

	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Change{
		Table:    events.TableQuestions,
		Action:   events.ActionCreated,
		EntityID: q.ID.String(),
	})
	return q, nil
}

// Update applies a partial edit. Transition rules:
//   - switching to freeform drops the options
//   - a multiple choice question must end up with at least two options
//   - setting is_revealed true requires a correct answer, supplied in the
//     same request or already present
//   - setting is_revealed false clears the correct answer unless a
//     replacement is supplied in the same request
//
// Already-graded answers are NOT regraded when the correct answer changes;
// grading stays an explicit admin action.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req model.UpdateQuestionRequest) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	if req.QuestionText != nil {
		q.QuestionText = strings.TrimSpace(*req.QuestionText)
	}
	if req.QuestionType != nil {
		q.QuestionType = model.QuestionType(*req.QuestionType)
	}
	if req.Options != nil {
		q.Options = req.Options
	}
	if req.Points != nil {
		q.Points = *req.Points
	}

	if q.QuestionType == model.QuestionTypeMultipleChoice {
		q.Options = normalizeOptions(q.Options)
		if len(q.Options) < 2 {
			return nil, ErrTooFewOptions
		}
	} else {
		q.Options = nil
	}

	if req.CorrectAnswer != nil {
		trimmed := strings.TrimSpace(*req.CorrectAnswer)
		if trimmed == "" {
			return nil, ErrEmptyCorrectAnswer
		}
		q.CorrectAnswer = &trimmed
	}

	if req.IsRevealed != nil {
		if *req.IsRevealed {
			if q.CorrectAnswer == nil || *q.CorrectAnswer == "" {
				return nil, ErrEmptyCorrectAnswer
			}
			q.IsRevealed = true
		} else {
			q.IsRevealed = false
			if req.CorrectAnswer == nil {
				q.CorrectAnswer = nil
			}
		}
	}

	if err := s.questions.Update(ctx, q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	s.publisher.Publish(ctx, events.Change{
		Table:    events.TableQuestions,
		Action:   events.ActionUpdated,
		EntityID: q.ID.String(),
	})
	return q, nil
}

// Reveal publishes a question's correct answer to all players. Re-revealing
// overwrites the answer text, last write wins.
func (s *QuestionService) Reveal(ctx context.Context, id uuid.UUID, correctAnswer string) (*model.Question, error) {
	trimmed := strings.TrimSpace(correctAnswer)
	if trimmed == "" {
		return nil, ErrEmptyCorrectAnswer
	}

	if err := s.questions.Reveal(ctx, id, trimmed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Change{
		Table:    events.TableQuestions,
		Action:   events.ActionRevealed,
		EntityID: id.String(),
	})
	return q, nil
}

// Reorder assigns dense order values 1..N positionally from ids. The request
// must be an exact permutation of the existing question ids.
func (s *QuestionService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	existing, err := s.questions.ListIDs(ctx)
	if err != nil {
		return err
	}

	if len(ids) != len(existing) {
		return ErrInvalidOrderSet
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !known[id] || seen[id] {
			return ErrInvalidOrderSet
		}
		seen[id] = true
	}

	if err := s.questions.UpdateOrders(ctx, ids); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.Change{
		Table:  events.TableQuestions,
		Action: events.ActionUpdated,
	})
	return nil
}

// Delete removes a question and, via cascade, its answers.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuestionNotFound
		}
		return err
	}

	s.publisher.Publish(ctx, events.Change{
		Table:    events.TableQuestions,
		Action:   events.ActionDeleted,
		EntityID: id.String(),
	})
	return nil
}
