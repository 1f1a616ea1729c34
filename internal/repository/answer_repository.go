package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamenight/trivia-backend/internal/model"
)

// AnswerRepository handles answer data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Upsert writes a player's answer keyed on (player_id, question_id).
// A resubmission overwrites the text and refreshes submitted_at but leaves
// any existing evaluation untouched. Grading happens only through the
// mark operations.
func (r *AnswerRepository) Upsert(ctx context.Context, a *model.Answer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO answers (player_id, question_id, answer_text)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, question_id)
		 DO UPDATE SET answer_text = EXCLUDED.answer_text, submitted_at = NOW()
		 RETURNING id, is_correct, points_earned, submitted_at`,
		a.PlayerID, a.QuestionID, a.AnswerText,
	).Scan(&a.ID, &a.IsCorrect, &a.PointsEarned, &a.SubmittedAt)
}

// GetByID retrieves an answer by ID.
func (r *AnswerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Answer, error) {
	a := &model.Answer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, player_id, question_id, answer_text, is_correct, points_earned, submitted_at
		 FROM answers WHERE id = $1`, id,
	).Scan(&a.ID, &a.PlayerID, &a.QuestionID, &a.AnswerText, &a.IsCorrect, &a.PointsEarned, &a.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByQuestion retrieves all answers for a question with player names,
// for the admin grading view.
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.AnswerWithPlayer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.player_id, a.question_id, a.answer_text, a.is_correct,
		        a.points_earned, a.submitted_at, p.name
		 FROM answers a
		 JOIN players p ON p.id = a.player_id
		 WHERE a.question_id = $1
		 ORDER BY a.submitted_at`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AnswerWithPlayer
	for rows.Next() {
		var a model.AnswerWithPlayer
		if err := rows.Scan(&a.ID, &a.PlayerID, &a.QuestionID, &a.AnswerText, &a.IsCorrect,
			&a.PointsEarned, &a.SubmittedAt, &a.PlayerName); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListByPlayer retrieves all of one player's answers.
func (r *AnswerRepository) ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, player_id, question_id, answer_text, is_correct, points_earned, submitted_at
		 FROM answers WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.PlayerID, &a.QuestionID, &a.AnswerText, &a.IsCorrect,
			&a.PointsEarned, &a.SubmittedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// MarkCorrect grades an answer as correct and credits the points to the
// player's total inside one transaction. The answer row is locked and the
// score is credited only when the prior correctness was null or false, so
// repeated calls cannot double-count. Returns the answer as stored and
// whether this call performed the transition.
func (r *AnswerRepository) MarkCorrect(ctx context.Context, answerID uuid.UUID, points int) (*model.Answer, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	a := &model.Answer{}
	err = tx.QueryRow(ctx,
		`SELECT id, player_id, question_id, answer_text, is_correct, points_earned, submitted_at
		 FROM answers WHERE id = $1 FOR UPDATE`, answerID,
	).Scan(&a.ID, &a.PlayerID, &a.QuestionID, &a.AnswerText, &a.IsCorrect, &a.PointsEarned, &a.SubmittedAt)
	if err != nil {
		return nil, false, err
	}

	if a.IsCorrect != nil && *a.IsCorrect {
		// Already credited. Idempotent no-op.
		return a, false, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE answers SET is_correct = TRUE, points_earned = $2 WHERE id = $1`,
		answerID, points); err != nil {
		return nil, false, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE players SET total_score = total_score + $2 WHERE id = $1`,
		a.PlayerID, points); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	correct := true
	a.IsCorrect = &correct
	a.PointsEarned = points
	return a, true, nil
}

// MarkIncorrect grades an answer as incorrect. If the answer was previously
// correct, its earned points are debited from the player's total (floored at
// zero) in the same transaction, the symmetric inverse of MarkCorrect.
func (r *AnswerRepository) MarkIncorrect(ctx context.Context, answerID uuid.UUID) (*model.Answer, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	a := &model.Answer{}
	err = tx.QueryRow(ctx,
		`SELECT id, player_id, question_id, answer_text, is_correct, points_earned, submitted_at
		 FROM answers WHERE id = $1 FOR UPDATE`, answerID,
	).Scan(&a.ID, &a.PlayerID, &a.QuestionID, &a.AnswerText, &a.IsCorrect, &a.PointsEarned, &a.SubmittedAt)
	if err != nil {
		return nil, false, err
	}

	if a.IsCorrect != nil && !*a.IsCorrect {
		return a, false, tx.Commit(ctx)
	}

	wasCorrect := a.IsCorrect != nil && *a.IsCorrect

	if _, err := tx.Exec(ctx,
		`UPDATE answers SET is_correct = FALSE, points_earned = 0 WHERE id = $1`,
		answerID); err != nil {
		return nil, false, err
	}

	if wasCorrect && a.PointsEarned > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE players SET total_score = GREATEST(total_score - $2, 0) WHERE id = $1`,
			a.PlayerID, a.PointsEarned); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	incorrect := false
	a.IsCorrect = &incorrect
	a.PointsEarned = 0
	return a, true, nil
}

// DeleteAll removes every answer.
func (r *AnswerRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM answers`)
	return err
}
