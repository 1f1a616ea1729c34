package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/service"
)

type scoringFixture struct {
	scoring     *service.ScoringService
	db          *fakeDB
	pub         *fakePublisher
	invalidator *fakeInvalidator
	player      *model.Player
	answer      *model.Answer
}

func newScoringFixture(t *testing.T) *scoringFixture {
	t.Helper()
	db := newFakeDB()
	pub := &fakePublisher{}
	inv := &fakeInvalidator{}
	scoring := service.NewScoringService(&fakeAnswers{db: db}, &fakeQuestions{db: db}, pub, inv, zerolog.Nop())

	questions := service.NewQuestionService(&fakeQuestions{db: db}, &fakeAnswers{db: db}, &fakePublisher{})
	answers := service.NewAnswerService(&fakeAnswers{db: db}, &fakeQuestions{db: db}, &fakePublisher{})

	q, err := questions.Create(context.Background(), model.CreateQuestionRequest{
		QuestionText: "q",
		QuestionType: string(model.QuestionTypeFreeform),
		Points:       10,
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	player := &model.Player{ID: uuid.New(), Name: "Alice"}
	db.players = append(db.players, player)

	a, err := answers.Submit(context.Background(), player.ID, q.ID, "guess")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	return &scoringFixture{scoring: scoring, db: db, pub: pub, invalidator: inv, player: player, answer: a}
}

func TestMarkCorrectCreditsQuestionPoints(t *testing.T) {
	f := newScoringFixture(t)

	a, err := f.scoring.MarkCorrect(context.Background(), f.answer.ID, nil)
	if err != nil {
		t.Fatalf("mark correct failed: %v", err)
	}
	if a.IsCorrect == nil || !*a.IsCorrect || a.PointsEarned != 10 {
		t.Fatalf("expected correct with 10 points, got %+v", a)
	}
	if f.player.TotalScore != 10 {
		t.Fatalf("expected player score 10, got %d", f.player.TotalScore)
	}
	if f.invalidator.count() != 1 {
		t.Fatalf("expected one cache invalidation, got %d", f.invalidator.count())
	}
	if f.pub.last().Action != events.ActionScored {
		t.Fatalf("expected scored event, got %s", f.pub.last().Action)
	}
}

func TestMarkCorrectIsIdempotent(t *testing.T) {
	f := newScoringFixture(t)

	if _, err := f.scoring.MarkCorrect(context.Background(), f.answer.ID, nil); err != nil {
		t.Fatalf("first mark failed: %v", err)
	}
	if _, err := f.scoring.MarkCorrect(context.Background(), f.answer.ID, nil); err != nil {
		t.Fatalf("second mark failed: %v", err)
	}

	if f.player.TotalScore != 10 {
		t.Fatalf("double grading must not double-count: expected 10, got %d", f.player.TotalScore)
	}
	if f.pub.count() != 1 {
		t.Fatalf("no-op grade must not publish: expected 1 event, got %d", f.pub.count())
	}
	if f.invalidator.count() != 1 {
		t.Fatalf("no-op grade must not invalidate: expected 1, got %d", f.invalidator.count())
	}
}

func TestMarkCorrectOverridePoints(t *testing.T) {
	f := newScoringFixture(t)

	override := 3
	a, err := f.scoring.MarkCorrect(context.Background(), f.answer.ID, &override)
	if err != nil {
		t.Fatalf("mark correct failed: %v", err)
	}
	if a.PointsEarned != 3 || f.player.TotalScore != 3 {
		t.Fatalf("expected override of 3 points, got answer=%d player=%d", a.PointsEarned, f.player.TotalScore)
	}
}

func TestMarkIncorrectDebitsEarnedPoints(t *testing.T) {
	f := newScoringFixture(t)

	if _, err := f.scoring.MarkCorrect(context.Background(), f.answer.ID, nil); err != nil {
		t.Fatalf("mark correct failed: %v", err)
	}
	a, err := f.scoring.MarkIncorrect(context.Background(), f.answer.ID)
	if err != nil {
		t.Fatalf("mark incorrect failed: %v", err)
	}
	if a.IsCorrect == nil || *a.IsCorrect || a.PointsEarned != 0 {
		t.Fatalf("expected incorrect with 0 points, got %+v", a)
	}
	if f.player.TotalScore != 0 {
		t.Fatalf("expected score debited to 0, got %d", f.player.TotalScore)
	}

	// Flipping again is a no-op.
	if _, err := f.scoring.MarkIncorrect(context.Background(), f.answer.ID); err != nil {
		t.Fatalf("repeat mark incorrect failed: %v", err)
	}
	if f.player.TotalScore != 0 {
		t.Fatalf("expected score unchanged, got %d", f.player.TotalScore)
	}
}

func TestMarkIncorrectOnUngraded(t *testing.T) {
	f := newScoringFixture(t)

	a, err := f.scoring.MarkIncorrect(context.Background(), f.answer.ID)
	if err != nil {
		t.Fatalf("mark incorrect failed: %v", err)
	}
	if a.IsCorrect == nil || *a.IsCorrect {
		t.Fatalf("expected graded incorrect, got %+v", a)
	}
	if f.player.TotalScore != 0 {
		t.Fatalf("expected score untouched, got %d", f.player.TotalScore)
	}
}

func TestMarkUnknownAnswer(t *testing.T) {
	f := newScoringFixture(t)

	if _, err := f.scoring.MarkCorrect(context.Background(), uuid.New(), nil); !errors.Is(err, service.ErrAnswerNotFound) {
		t.Fatalf("expected ErrAnswerNotFound, got %v", err)
	}
	if _, err := f.scoring.MarkIncorrect(context.Background(), uuid.New()); !errors.Is(err, service.ErrAnswerNotFound) {
		t.Fatalf("expected ErrAnswerNotFound, got %v", err)
	}
}
