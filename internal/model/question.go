package model

import (
	"time"

	"github.com/google/uuid"
)

// Question represents a single trivia question.
//
// CorrectAnswer is nil until the question has been revealed; un-revealing
// through an edit clears it again unless a replacement is supplied.
// Options is nil for freeform questions and holds at least two non-empty
// entries for multiple choice.
type Question struct {
	ID            uuid.UUID    `json:"id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options"`
	CorrectAnswer *string      `json:"correct_answer"`
	Points        int          `json:"points"`
	IsActive      bool         `json:"is_active"`
	IsRevealed    bool         `json:"is_revealed"`
	QuestionOrder int          `json:"question_order"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type QuestionType string

const (
	QuestionTypeFreeform       QuestionType = "freeform"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
)

// QuestionWithAnswer pairs a question with the requesting player's own answer,
// used by the player questions view. The correct answer is stripped from the
// embedded question until it has been revealed.
type QuestionWithAnswer struct {
	Question
	PlayerAnswer *Answer `json:"player_answer"`
}

// CreateQuestionRequest is the payload for adding a question.
type CreateQuestionRequest struct {
	QuestionText string   `json:"question_text" binding:"required,min=1,max=2000"`
	QuestionType string   `json:"question_type" binding:"required,oneof=freeform multiple_choice"`
	Options      []string `json:"options" binding:"omitempty,max=10,dive,max=500"`
	Points       int      `json:"points" binding:"required,min=1,max=1000"`
}

// UpdateQuestionRequest is the payload for editing a question. Pointer fields
// distinguish "not sent" from zero values so partial edits are possible.
type UpdateQuestionRequest struct {
	QuestionText  *string  `json:"question_text" binding:"omitempty,min=1,max=2000"`
	QuestionType  *string  `json:"question_type" binding:"omitempty,oneof=freeform multiple_choice"`
	Options       []string `json:"options" binding:"omitempty,max=10,dive,max=500"`
	Points        *int     `json:"points" binding:"omitempty,min=1,max=1000"`
	IsRevealed    *bool    `json:"is_revealed"`
	CorrectAnswer *string  `json:"correct_answer" binding:"omitempty,max=500"`
}

// RevealQuestionRequest is the payload for publishing a question's answer.
type RevealQuestionRequest struct {
	CorrectAnswer string `json:"correct_answer" binding:"required,max=500"`
}

// ReorderQuestionsRequest carries the full desired ordering of question IDs.
type ReorderQuestionsRequest struct {
	QuestionIDs []uuid.UUID `json:"question_ids" binding:"required,min=1"`
}
