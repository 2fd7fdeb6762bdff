package errors

import "errors"

var (
	ErrInvalidChallengeInput = errors.New("invalid challenge input")
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrInvalidPhase          = errors.New("operation not allowed in current challenge phase")
	ErrDeadlinePassed        = errors.New("submission deadline has passed")
	ErrInvalidLocation       = errors.New("code location is not a fetchable reference")
	ErrNoSubmissions         = errors.New("challenge has no submissions")
	ErrGenerationFailed      = errors.New("challenge generation failed")
	ErrConflict              = errors.New("challenge conflict")
)
