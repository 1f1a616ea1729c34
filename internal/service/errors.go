package service

import "errors"

// Domain errors surfaced by the services. Handlers translate these to
// response codes with errors.Is.
var (
	ErrQuestionNotFound   = errors.New("question not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrEmptyAnswerText    = errors.New("answer text is empty")
	ErrEmptyCorrectAnswer = errors.New("correct answer is empty")
	ErrTooFewOptions      = errors.New("multiple choice questions need at least two options")
	ErrAnswersLocked      = errors.New("question already revealed, answers are locked")
	ErrInvalidOrderSet    = errors.New("order set is not a permutation of the existing questions")
	ErrInvalidJoinCode    = errors.New("join code not recognized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
