package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer is one player's submission for one question. At most one row exists
// per (player, question) pair; submission is an upsert on that key.
//
// IsCorrect is nil until the answer has been graded; PointsEarned stays 0
// until a grade awards points.
type Answer struct {
	ID           uuid.UUID `json:"id"`
	PlayerID     uuid.UUID `json:"player_id"`
	QuestionID   uuid.UUID `json:"question_id"`
	AnswerText   string    `json:"answer_text"`
	IsCorrect    *bool     `json:"is_correct"`
	PointsEarned int       `json:"points_earned"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// AnswerWithPlayer joins an answer with its owning player, for the grading view.
type AnswerWithPlayer struct {
	Answer
	PlayerName string `json:"player_name"`
}

// SubmitAnswerRequest is the payload for a player submission.
type SubmitAnswerRequest struct {
	AnswerText string `json:"answer_text" binding:"required,max=2000"`
}

// MarkAnswerRequest optionally overrides the points awarded when grading.
// When Points is nil the question's own point value is used.
type MarkAnswerRequest struct {
	Points *int `json:"points" binding:"omitempty,min=1,max=1000"`
}
