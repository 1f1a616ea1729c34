package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/repository"
)

// fakeDB is a shared in-memory backing store for the per-table fakes. It
// mirrors the repository contract: missing rows come back as pgx.ErrNoRows
// and deletes cascade the way the schema does.
type fakeDB struct {
	mu        sync.Mutex
	questions []*model.Question
	players   []*model.Player
	answers   []*model.Answer
	settings  map[string]string
}

func newFakeDB() *fakeDB {
	return &fakeDB{settings: make(map[string]string)}
}

func (db *fakeDB) questionByID(id uuid.UUID) *model.Question {
	for _, q := range db.questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

func (db *fakeDB) playerByID(id uuid.UUID) *model.Player {
	for _, p := range db.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (db *fakeDB) answerByID(id uuid.UUID) *model.Answer {
	for _, a := range db.answers {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (db *fakeDB) dropAnswers(keep func(*model.Answer) bool) {
	kept := db.answers[:0]
	for _, a := range db.answers {
		if keep(a) {
			kept = append(kept, a)
		}
	}
	db.answers = kept
}

func copyQuestion(q *model.Question) *model.Question {
	out := *q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.CorrectAnswer != nil {
		v := *q.CorrectAnswer
		out.CorrectAnswer = &v
	}
	return &out
}

func copyAnswer(a *model.Answer) *model.Answer {
	out := *a
	if a.IsCorrect != nil {
		v := *a.IsCorrect
		out.IsCorrect = &v
	}
	return &out
}

// ─── QuestionStore ──────────────────────────────────────────────────

type fakeQuestions struct{ db *fakeDB }

func (f *fakeQuestions) List(_ context.Context, activeOnly bool) ([]model.Question, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var out []model.Question
	for _, q := range f.db.questions {
		if activeOnly && !q.IsActive {
			continue
		}
		out = append(out, *copyQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionOrder < out[j].QuestionOrder })
	return out, nil
}

func (f *fakeQuestions) ListRevealed(_ context.Context) ([]model.Question, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var out []model.Question
	for _, q := range f.db.questions {
		if q.IsRevealed {
			out = append(out, *copyQuestion(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionOrder < out[j].QuestionOrder })
	return out, nil
}

func (f *fakeQuestions) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	if q := f.db.questionByID(id); q != nil {
		return copyQuestion(q), nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeQuestions) Create(_ context.Context, q *model.Question) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	maxOrder := 0
	for _, existing := range f.db.questions {
		if existing.QuestionOrder > maxOrder {
			maxOrder = existing.QuestionOrder
		}
	}

	q.ID = uuid.New()
	q.IsActive = true
	q.IsRevealed = false
	q.QuestionOrder = maxOrder + 1
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	f.db.questions = append(f.db.questions, copyQuestion(q))
	return nil
}

func (f *fakeQuestions) Update(_ context.Context, q *model.Question) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	stored := f.db.questionByID(q.ID)
	if stored == nil {
		return pgx.ErrNoRows
	}
	updated := copyQuestion(q)
	updated.QuestionOrder = stored.QuestionOrder
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	*stored = *updated
	return nil
}

func (f *fakeQuestions) Reveal(_ context.Context, id uuid.UUID, correctAnswer string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	q := f.db.questionByID(id)
	if q == nil {
		return pgx.ErrNoRows
	}
	q.CorrectAnswer = &correctAnswer
	q.IsRevealed = true
	q.UpdatedAt = time.Now()
	return nil
}

func (f *fakeQuestions) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(f.db.questions))
	for _, q := range f.db.questions {
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (f *fakeQuestions) UpdateOrders(_ context.Context, ids []uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	for i, id := range ids {
		if q := f.db.questionByID(id); q != nil {
			q.QuestionOrder = i + 1
		}
	}
	return nil
}

func (f *fakeQuestions) ResetAll(_ context.Context) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	for _, q := range f.db.questions {
		q.IsRevealed = false
		q.CorrectAnswer = nil
	}
	return nil
}

func (f *fakeQuestions) Delete(_ context.Context, id uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	for i, q := range f.db.questions {
		if q.ID == id {
			f.db.questions = append(f.db.questions[:i], f.db.questions[i+1:]...)
			f.db.dropAnswers(func(a *model.Answer) bool { return a.QuestionID != id })
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeQuestions) DeleteAll(_ context.Context) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	f.db.questions = nil
	f.db.answers = nil
	return nil
}

// ─── PlayerStore ────────────────────────────────────────────────────

type fakePlayers struct{ db *fakeDB }

func (f *fakePlayers) Create(_ context.Context, p *model.Player) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	for _, existing := range f.db.players {
		if existing.JoinCode == p.JoinCode {
			return repository.ErrDuplicateJoinCode
		}
	}
	p.ID = uuid.New()
	p.TotalScore = 0
	p.CreatedAt = time.Now()
	stored := *p
	f.db.players = append(f.db.players, &stored)
	return nil
}

func (f *fakePlayers) GetByID(_ context.Context, id uuid.UUID) (*model.Player, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	if p := f.db.playerByID(id); p != nil {
		out := *p
		return &out, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePlayers) GetByJoinCode(_ context.Context, joinCode string) (*model.Player, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	for _, p := range f.db.players {
		if p.JoinCode == joinCode {
			out := *p
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePlayers) List(_ context.Context) ([]model.Player, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	out := make([]model.Player, 0, len(f.db.players))
	for _, p := range f.db.players {
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakePlayers) Delete(_ context.Context, id uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	for i, p := range f.db.players {
		if p.ID == id {
			f.db.players = append(f.db.players[:i], f.db.players[i+1:]...)
			f.db.dropAnswers(func(a *model.Answer) bool { return a.PlayerID != id })
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakePlayers) DeleteAll(_ context.Context) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	f.db.players = nil
	f.db.answers = nil
	return nil
}

// ─── AnswerStore ────────────────────────────────────────────────────

type fakeAnswers struct{ db *fakeDB }

func (f *fakeAnswers) Upsert(_ context.Context, a *model.Answer) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	for _, existing := range f.db.answers {
		if existing.PlayerID == a.PlayerID && existing.QuestionID == a.QuestionID {
			existing.AnswerText = a.AnswerText
			existing.SubmittedAt = time.Now()
			*a = *copyAnswer(existing)
			return nil
		}
	}

	a.ID = uuid.New()
	a.IsCorrect = nil
	a.PointsEarned = 0
	a.SubmittedAt = time.Now()
	f.db.answers = append(f.db.answers, copyAnswer(a))
	return nil
}

func (f *fakeAnswers) GetByID(_ context.Context, id uuid.UUID) (*model.Answer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	if a := f.db.answerByID(id); a != nil {
		return copyAnswer(a), nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAnswers) ListByQuestion(_ context.Context, questionID uuid.UUID) ([]model.AnswerWithPlayer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var out []model.AnswerWithPlayer
	for _, a := range f.db.answers {
		if a.QuestionID != questionID {
			continue
		}
		item := model.AnswerWithPlayer{Answer: *copyAnswer(a)}
		if p := f.db.playerByID(a.PlayerID); p != nil {
			item.PlayerName = p.Name
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeAnswers) ListByPlayer(_ context.Context, playerID uuid.UUID) ([]model.Answer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var out []model.Answer
	for _, a := range f.db.answers {
		if a.PlayerID == playerID {
			out = append(out, *copyAnswer(a))
		}
	}
	return out, nil
}

func (f *fakeAnswers) MarkCorrect(_ context.Context, answerID uuid.UUID, points int) (*model.Answer, bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	a := f.db.answerByID(answerID)
	if a == nil {
		return nil, false, pgx.ErrNoRows
	}
	if a.IsCorrect != nil && *a.IsCorrect {
		return copyAnswer(a), false, nil
	}

	correct := true
	a.IsCorrect = &correct
	a.PointsEarned = points
	if p := f.db.playerByID(a.PlayerID); p != nil {
		p.TotalScore += points
	}
	return copyAnswer(a), true, nil
}

func (f *fakeAnswers) MarkIncorrect(_ context.Context, answerID uuid.UUID) (*model.Answer, bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	a := f.db.answerByID(answerID)
	if a == nil {
		return nil, false, pgx.ErrNoRows
	}
	if a.IsCorrect != nil && !*a.IsCorrect {
		return copyAnswer(a), false, nil
	}

	wasCorrect := a.IsCorrect != nil && *a.IsCorrect
	incorrect := false
	a.IsCorrect = &incorrect
	earned := a.PointsEarned
	a.PointsEarned = 0
	if wasCorrect && earned > 0 {
		if p := f.db.playerByID(a.PlayerID); p != nil {
			p.TotalScore -= earned
			if p.TotalScore < 0 {
				p.TotalScore = 0
			}
		}
	}
	return copyAnswer(a), true, nil
}

func (f *fakeAnswers) DeleteAll(_ context.Context) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	f.db.answers = nil
	return nil
}

// ─── SettingStore ───────────────────────────────────────────────────

type fakeSettings struct{ db *fakeDB }

func (f *fakeSettings) GetAll(_ context.Context) ([]model.GameSetting, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	keys := make([]string, 0, len(f.db.settings))
	for k := range f.db.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.GameSetting, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.GameSetting{Key: k, Value: f.db.settings[k]})
	}
	return out, nil
}

func (f *fakeSettings) Upsert(_ context.Context, key, value string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	f.db.settings[key] = value
	return nil
}

func (f *fakeSettings) GetByKey(_ context.Context, key string) (*model.GameSetting, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	v, ok := f.db.settings[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &model.GameSetting{Key: key, Value: v}, nil
}

// ─── Publisher / Invalidator ────────────────────────────────────────

type fakePublisher struct {
	mu      sync.Mutex
	changes []events.Change
}

func (f *fakePublisher) Publish(_ context.Context, change events.Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, change)
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.changes)
}

func (f *fakePublisher) last() events.Change {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.changes) == 0 {
		return events.Change{}
	}
	return f.changes[len(f.changes)-1]
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeInvalidator) Invalidate(_ context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeInvalidator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
