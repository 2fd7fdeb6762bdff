package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "codearena/contexts/challenge-arena/vote-ledger/application"
	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/vote-ledger/domain/errors"
	"codearena/contexts/challenge-arena/vote-ledger/domain/scoring"
	"codearena/contexts/challenge-arena/vote-ledger/ports"
)

// VoteLedgerUseCase enforces at-most-one-vote-per-(voter, submission, kind)
// and keeps the submission's point projection derived from active votes.
type VoteLedgerUseCase struct {
	Votes        ports.VoteRepository
	Submissions  ports.SubmissionGateway
	Participants ports.ParticipantRegistry
	Locks        *SubmissionLocks
	Scoring      scoring.Config
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

type CastCommunityVoteCommand struct {
	SubmissionID    string
	VoterID         string
	DisplayName     string
	SourceMessageID string
}

type CastVoteResult struct {
	Submission ports.SubmissionSnapshot
	// AlreadyCast is true when the vote was a replay and no points moved.
	AlreadyCast bool
}

// CastCommunityVote records a community star. Replays of the same
// (voter, message) are acknowledged without moving points, so the gateway may
// deliver reaction events more than once.
func (uc VoteLedgerUseCase) CastCommunityVote(ctx context.Context, cmd CastCommunityVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	vote := entities.Vote{
		SubmissionID:    strings.TrimSpace(cmd.SubmissionID),
		VoterID:         strings.TrimSpace(cmd.VoterID),
		Kind:            entities.VoteKindCommunity,
		SourceMessageID: strings.TrimSpace(cmd.SourceMessageID),
	}
	if !vote.Validate() {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	unlock := uc.Locks.Lock(vote.SubmissionID)
	defer unlock()

	submission, err := uc.Submissions.GetSubmission(ctx, vote.SubmissionID)
	if err != nil {
		return CastVoteResult{}, err
	}

	if uc.Participants != nil {
		if err := uc.Participants.EnsureParticipant(ctx, vote.VoterID, strings.TrimSpace(cmd.DisplayName)); err != nil {
			return CastVoteResult{}, err
		}
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	vote.VoteID = voteID
	vote.CreatedAt = uc.now()

	created, err := uc.Votes.InsertVote(ctx, vote)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !created {
		logger.Info("community vote replayed",
			"event", "community_vote_replayed",
			"module", "challenge-arena/vote-ledger",
			"layer", "application",
			"submission_id", vote.SubmissionID,
			"voter_id", vote.VoterID,
		)
		return CastVoteResult{Submission: submission, AlreadyCast: true}, nil
	}

	updated, err := uc.recomputePoints(ctx, submission)
	if err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("community vote cast",
		"event", "community_vote_cast",
		"module", "challenge-arena/vote-ledger",
		"layer", "application",
		"submission_id", vote.SubmissionID,
		"voter_id", vote.VoterID,
		"total_points", updated.TotalPoints,
	)
	return CastVoteResult{Submission: updated}, nil
}

func (uc VoteLedgerUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func (uc VoteLedgerUseCase) config() scoring.Config {
	if uc.Scoring.CommunityVotePoints == 0 && uc.Scoring.JudgeVotePoints == 0 {
		return scoring.DefaultConfig()
	}
	return uc.Scoring
}

// recomputePoints rebuilds the submission's point projection from active vote
// counts. Callers must hold the submission lock.
func (uc VoteLedgerUseCase) recomputePoints(ctx context.Context, submission ports.SubmissionSnapshot) (ports.SubmissionSnapshot, error) {
	cfg := uc.config()

	communityVotes, err := uc.Votes.CountActiveVotes(ctx, submission.SubmissionID, entities.VoteKindCommunity)
	if err != nil {
		return ports.SubmissionSnapshot{}, err
	}
	judgeVotes, err := uc.Votes.CountActiveVotes(ctx, submission.SubmissionID, entities.VoteKindJudge)
	if err != nil {
		return ports.SubmissionSnapshot{}, err
	}

	submission.CommunityPoints = cfg.CommunitySubtotal(communityVotes)
	submission.JudgePoints = cfg.JudgeSubtotal(judgeVotes)
	submission.TotalPoints = scoring.GrandTotal(submission.CommunityPoints, submission.JudgePoints, submission.AIPoints)

	if err := uc.Submissions.ApplyPoints(
		ctx,
		submission.SubmissionID,
		submission.CommunityPoints,
		submission.JudgePoints,
		submission.TotalPoints,
		uc.now(),
	); err != nil {
		return ports.SubmissionSnapshot{}, err
	}
	return submission, nil
}
