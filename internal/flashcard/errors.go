package flashcard

import "errors"

var (
	// ErrInvalidGrade is returned for a grade outside Again..Easy.
	ErrInvalidGrade = errors.New("invalid grade")
	// ErrInvalidState is returned when grading a suspended card or a card
	// whose stored scheduling data is inconsistent.
	ErrInvalidState = errors.New("invalid card state")
	// ErrInvalidPolicy is returned by ValidatePolicy.
	ErrInvalidPolicy = errors.New("invalid deck policy")
)
