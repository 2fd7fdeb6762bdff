package errors

import "errors"

var (
	ErrInvalidVoteInput   = errors.New("invalid vote input")
	ErrVoteNotFound       = errors.New("vote not found")
	ErrSelfVote           = errors.New("judges cannot vote on their own submission")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrVotingClosed       = errors.New("submission is not accepting judge votes in its current phase")
)
