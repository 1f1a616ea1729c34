package model

// ResetGameRequest selects the reset mode. Without delete_questions the
// question set survives, rolled back to unrevealed.
type ResetGameRequest struct {
	DeleteQuestions bool `json:"delete_questions"`
}
