package commands

import (
	"context"
	"strings"

	application "codearena/contexts/challenge-arena/vote-ledger/application"
	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/vote-ledger/domain/errors"
	"codearena/contexts/challenge-arena/vote-ledger/ports"
)

type RetractCommunityVoteCommand struct {
	VoterID         string
	SourceMessageID string
}

type RetractVoteResult struct {
	Submission ports.SubmissionSnapshot
}

// RetractCommunityVote removes the vote recorded for (voter, message). A
// retract for a vote that was never cast, or was already removed by a racing
// retract, fails with ErrVoteNotFound and leaves totals untouched.
func (uc VoteLedgerUseCase) RetractCommunityVote(ctx context.Context, cmd RetractCommunityVoteCommand) (RetractVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	voterID := strings.TrimSpace(cmd.VoterID)
	messageID := strings.TrimSpace(cmd.SourceMessageID)
	if voterID == "" || messageID == "" {
		return RetractVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	vote, found, err := uc.Votes.LookupVoteByMessage(ctx, voterID, messageID, entities.VoteKindCommunity)
	if err != nil {
		return RetractVoteResult{}, err
	}
	if !found {
		return RetractVoteResult{}, domainerrors.ErrVoteNotFound
	}

	unlock := uc.Locks.Lock(vote.SubmissionID)
	defer unlock()

	removed, err := uc.Votes.DeleteVote(ctx, vote.VoteID)
	if err != nil {
		return RetractVoteResult{}, err
	}
	if !removed {
		return RetractVoteResult{}, domainerrors.ErrVoteNotFound
	}

	submission, err := uc.Submissions.GetSubmission(ctx, vote.SubmissionID)
	if err != nil {
		return RetractVoteResult{}, err
	}
	updated, err := uc.recomputePoints(ctx, submission)
	if err != nil {
		return RetractVoteResult{}, err
	}

	logger.Info("community vote retracted",
		"event", "community_vote_retracted",
		"module", "challenge-arena/vote-ledger",
		"layer", "application",
		"submission_id", vote.SubmissionID,
		"voter_id", voterID,
		"total_points", updated.TotalPoints,
	)
	return RetractVoteResult{Submission: updated}, nil
}
