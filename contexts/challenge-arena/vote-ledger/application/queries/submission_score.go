package queries

import (
	"context"
	"strings"

	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/vote-ledger/domain/errors"
	"codearena/contexts/challenge-arena/vote-ledger/ports"
)

type VoteQueries struct {
	Votes       ports.VoteRepository
	Submissions ports.SubmissionGateway
}

type SubmissionScore struct {
	Submission     ports.SubmissionSnapshot
	CommunityVotes int
	JudgeVotes     int
}

func (q VoteQueries) GetSubmissionScore(ctx context.Context, submissionID string) (SubmissionScore, error) {
	id := strings.TrimSpace(submissionID)
	if id == "" {
		return SubmissionScore{}, domainerrors.ErrInvalidVoteInput
	}

	submission, err := q.Submissions.GetSubmission(ctx, id)
	if err != nil {
		return SubmissionScore{}, err
	}
	communityVotes, err := q.Votes.CountActiveVotes(ctx, id, entities.VoteKindCommunity)
	if err != nil {
		return SubmissionScore{}, err
	}
	judgeVotes, err := q.Votes.CountActiveVotes(ctx, id, entities.VoteKindJudge)
	if err != nil {
		return SubmissionScore{}, err
	}
	return SubmissionScore{
		Submission:     submission,
		CommunityVotes: communityVotes,
		JudgeVotes:     judgeVotes,
	}, nil
}

func (q VoteQueries) ListVotes(ctx context.Context, submissionID string) ([]entities.Vote, error) {
	return q.Votes.ListVotesBySubmission(ctx, strings.TrimSpace(submissionID))
}
