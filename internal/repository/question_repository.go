package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamenight/trivia-backend/internal/model"
)

const questionColumns = `id, question_text, question_type, options, correct_answer,
	points, is_active, is_revealed, question_order, created_at, updated_at`

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	q := &model.Question{}
	var optionsJSON []byte
	err := row.Scan(&q.ID, &q.QuestionText, &q.QuestionType, &optionsJSON, &q.CorrectAnswer,
		&q.Points, &q.IsActive, &q.IsRevealed, &q.QuestionOrder, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if optionsJSON != nil {
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func encodeOptions(options []string) ([]byte, error) {
	if options == nil {
		return nil, nil
	}
	return json.Marshal(options)
}

func (r *QuestionRepository) collect(rows pgx.Rows) ([]model.Question, error) {
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// List retrieves questions ordered by question_order. When activeOnly is set,
// inactive questions are filtered out (the player-facing view).
func (r *QuestionRepository) List(ctx context.Context, activeOnly bool) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY question_order`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListRevealed retrieves revealed questions ordered by question_order.
func (r *QuestionRepository) ListRevealed(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE is_revealed ORDER BY question_order`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// Create inserts a new question at the end of the current ordering.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	optionsJSON, err := encodeOptions(q.Options)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (question_text, question_type, options, points, question_order)
		 VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(question_order), 0) + 1 FROM questions))
		 RETURNING id, is_active, is_revealed, question_order, created_at, updated_at`,
		q.QuestionText, q.QuestionType, optionsJSON, q.Points,
	).Scan(&q.ID, &q.IsActive, &q.IsRevealed, &q.QuestionOrder, &q.CreatedAt, &q.UpdatedAt)
}

// Update writes all mutable fields of a question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	optionsJSON, err := encodeOptions(q.Options)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, question_type = $2, options = $3, correct_answer = $4,
		     points = $5, is_active = $6, is_revealed = $7, updated_at = NOW()
		 WHERE id = $8`,
		q.QuestionText, q.QuestionType, optionsJSON, q.CorrectAnswer,
		q.Points, q.IsActive, q.IsRevealed, q.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Reveal publishes a question's correct answer. Idempotent on the flag,
// last-write-wins on the answer text.
func (r *QuestionRepository) Reveal(ctx context.Context, id uuid.UUID, correctAnswer string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET correct_answer = $2, is_revealed = TRUE, updated_at = NOW()
		 WHERE id = $1`,
		id, correctAnswer,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListIDs returns the IDs of all questions, used to validate reorder requests.
func (r *QuestionRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM questions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateOrders assigns dense order values 1..N positionally from ids in a
// single bulk UPDATE.
func (r *QuestionRepository) UpdateOrders(ctx context.Context, ids []uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions AS q
		 SET question_order = t.ord, updated_at = NOW()
		 FROM (
			SELECT u.id, u.ord
			FROM UNNEST($1::uuid[]) WITH ORDINALITY AS u (id, ord)
		 ) AS t
		 WHERE q.id = t.id`,
		ids,
	)
	return err
}

// ResetAll rolls every question back to unrevealed with a cleared answer,
// leaving text, points and ordering intact.
func (r *QuestionRepository) ResetAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET is_revealed = FALSE, correct_answer = NULL, updated_at = NOW()`)
	return err
}

// Delete removes a question outright. Its answers cascade at the schema level.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteAll removes every question.
func (r *QuestionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions`)
	return err
}
