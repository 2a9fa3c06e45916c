package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be located.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuiz indicates a content document violating load-time invariants.
	ErrInvalidQuiz = errors.New("invalid quiz content")
	// ErrMissingQuizID is returned when a session is requested without a quiz id.
	ErrMissingQuizID = errors.New("missing quiz id")
	// ErrQuizAlreadyCompleted blocks entry to a quiz that already has a persisted record.
	ErrQuizAlreadyCompleted = errors.New("quiz already completed")
	// ErrSessionNotFound is returned when the session id is unknown or expired.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionFinished is returned when evaluate or reset is called after a
	// terminal transition; the completion record is already persisted.
	ErrSessionFinished = errors.New("quiz session already finished")
)
