package errors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid leaderboard input")
	ErrInvalidWindow       = errors.New("unknown ranking window")
	ErrParticipantNotFound = errors.New("participant not found")
)
