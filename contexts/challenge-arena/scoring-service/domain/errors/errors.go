package errors

import "errors"

var (
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrChallengeNotClosed = errors.New("challenge is not closed")
	ErrAlreadyScored      = errors.New("challenge has already been scored")
	ErrFetchFailed        = errors.New("code fetch failed")
	ErrScoreOutOfRange    = errors.New("ai score outside the accepted range")
	ErrMalformedResponse  = errors.New("ai response could not be parsed")
)
