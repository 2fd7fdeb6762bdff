package commands

import (
	"context"
	"strings"

	application "codearena/contexts/challenge-arena/vote-ledger/application"
	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/vote-ledger/domain/errors"
	"codearena/contexts/challenge-arena/vote-ledger/ports"
)

type CastJudgeVoteCommand struct {
	SubmissionID string
	JudgeID      string
	DisplayName  string
}

type CastJudgeVoteResult struct {
	Submission ports.SubmissionSnapshot
	// AlreadyVoted is true when this judge already voted on the submission.
	AlreadyVoted bool
}

// CastJudgeVote records a judge's endorsement. Judges cannot vote on their
// own submission, judge votes are accepted only while the owning challenge is
// in its voting phase, and repeat votes apply points at most once. Judge
// votes are not retractable.
func (uc VoteLedgerUseCase) CastJudgeVote(ctx context.Context, cmd CastJudgeVoteCommand) (CastJudgeVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	vote := entities.Vote{
		SubmissionID: strings.TrimSpace(cmd.SubmissionID),
		VoterID:      strings.TrimSpace(cmd.JudgeID),
		Kind:         entities.VoteKindJudge,
	}
	if !vote.Validate() {
		return CastJudgeVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	unlock := uc.Locks.Lock(vote.SubmissionID)
	defer unlock()

	submission, err := uc.Submissions.GetSubmission(ctx, vote.SubmissionID)
	if err != nil {
		return CastJudgeVoteResult{}, err
	}
	if submission.OwnerID == vote.VoterID {
		return CastJudgeVoteResult{}, domainerrors.ErrSelfVote
	}
	if submission.ChallengePhase != ports.PhaseVoting {
		return CastJudgeVoteResult{}, domainerrors.ErrVotingClosed
	}

	if uc.Participants != nil {
		if err := uc.Participants.EnsureParticipant(ctx, vote.VoterID, strings.TrimSpace(cmd.DisplayName)); err != nil {
			return CastJudgeVoteResult{}, err
		}
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastJudgeVoteResult{}, err
	}
	vote.VoteID = voteID
	vote.CreatedAt = uc.now()

	created, err := uc.Votes.InsertVote(ctx, vote)
	if err != nil {
		return CastJudgeVoteResult{}, err
	}
	if !created {
		logger.Info("judge vote replayed",
			"event", "judge_vote_replayed",
			"module", "challenge-arena/vote-ledger",
			"layer", "application",
			"submission_id", vote.SubmissionID,
			"judge_id", vote.VoterID,
		)
		return CastJudgeVoteResult{Submission: submission, AlreadyVoted: true}, nil
	}

	updated, err := uc.recomputePoints(ctx, submission)
	if err != nil {
		return CastJudgeVoteResult{}, err
	}

	logger.Info("judge vote cast",
		"event", "judge_vote_cast",
		"module", "challenge-arena/vote-ledger",
		"layer", "application",
		"submission_id", vote.SubmissionID,
		"judge_id", vote.VoterID,
		"total_points", updated.TotalPoints,
	)
	return CastJudgeVoteResult{Submission: updated}, nil
}
