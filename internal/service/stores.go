package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them; tests substitute in-memory fakes. Missing rows surface as
// pgx.ErrNoRows, matching the repository contract.

type QuestionStore interface {
	List(ctx context.Context, activeOnly bool) ([]model.Question, error)
	ListRevealed(ctx context.Context) ([]model.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Reveal(ctx context.Context, id uuid.UUID, correctAnswer string) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateOrders(ctx context.Context, ids []uuid.UUID) error
	ResetAll(ctx context.Context) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type PlayerStore interface {
	Create(ctx context.Context, p *model.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Player, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*model.Player, error)
	List(ctx context.Context) ([]model.Player, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type AnswerStore interface {
	Upsert(ctx context.Context, a *model.Answer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Answer, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.AnswerWithPlayer, error)
	ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]model.Answer, error)
	MarkCorrect(ctx context.Context, answerID uuid.UUID, points int) (*model.Answer, bool, error)
	MarkIncorrect(ctx context.Context, answerID uuid.UUID) (*model.Answer, bool, error)
	DeleteAll(ctx context.Context) error
}

type SettingStore interface {
	GetAll(ctx context.Context) ([]model.GameSetting, error)
	Upsert(ctx context.Context, key, value string) error
	GetByKey(ctx context.Context, key string) (*model.GameSetting, error)
}

// Publisher pushes change events onto the game feed.
type Publisher interface {
	Publish(ctx context.Context, change events.Change)
}

// Invalidator drops a cached leaderboard snapshot after a score mutation.
type Invalidator interface {
	Invalidate(ctx context.Context)
}
