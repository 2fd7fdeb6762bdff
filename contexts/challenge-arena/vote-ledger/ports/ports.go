package ports

import (
	"context"
	"time"

	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
)

type VoteRepository interface {
	// InsertVote records a vote unless one already exists for
	// (submission, voter, kind). Returns false when the vote was a replay.
	InsertVote(ctx context.Context, vote entities.Vote) (bool, error)
	LookupVoteByMessage(ctx context.Context, voterID string, sourceMessageID string, kind entities.VoteKind) (entities.Vote, bool, error)
	// DeleteVote removes a vote if it is still present. Returns false when
	// the vote was already removed by a racing retract.
	DeleteVote(ctx context.Context, voteID string) (bool, error)
	CountActiveVotes(ctx context.Context, submissionID string, kind entities.VoteKind) (int, error)
	ListVotesBySubmission(ctx context.Context, submissionID string) ([]entities.Vote, error)
}

// Challenge phases as reported by the challenge service.
const (
	PhaseOpen   = "open"
	PhaseVoting = "voting"
	PhaseClosed = "closed"
)

// SubmissionSnapshot is the ledger's view of a submission owned by the
// challenge service.
type SubmissionSnapshot struct {
	SubmissionID    string
	ChallengeID     string
	OwnerID         string
	CommunityPoints int
	JudgePoints     int
	AIPoints        int
	TotalPoints     int
	ChallengePhase  string
}

// SubmissionGateway reads submission state and writes back the derived point
// projection. The submission record itself stays owned by the challenge
// service.
type SubmissionGateway interface {
	GetSubmission(ctx context.Context, submissionID string) (SubmissionSnapshot, error)
	ApplyPoints(ctx context.Context, submissionID string, community int, judge int, total int, updatedAt time.Time) error
}

type ParticipantRegistry interface {
	EnsureParticipant(ctx context.Context, participantID string, displayName string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
