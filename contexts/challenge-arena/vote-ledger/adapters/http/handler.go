package httpadapter

import (
	"context"
	"log/slog"

	"codearena/contexts/challenge-arena/vote-ledger/application/commands"
	"codearena/contexts/challenge-arena/vote-ledger/application/queries"
	"codearena/contexts/challenge-arena/vote-ledger/ports"
	httptransport "codearena/contexts/challenge-arena/vote-ledger/transport/http"
)

type Handler struct {
	Ledger  commands.VoteLedgerUseCase
	Queries queries.VoteQueries
	Logger  *slog.Logger
}

func (h Handler) CastCommunityVoteHandler(ctx context.Context, req httptransport.CastCommunityVoteRequest) (httptransport.CastVoteResponse, error) {
	result, err := h.Ledger.CastCommunityVote(ctx, commands.CastCommunityVoteCommand{
		SubmissionID:    req.SubmissionID,
		VoterID:         req.VoterID,
		DisplayName:     req.DisplayName,
		SourceMessageID: req.SourceMessageID,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		Submission:  mapSubmissionPoints(result.Submission),
		AlreadyCast: result.AlreadyCast,
	}, nil
}

func (h Handler) RetractCommunityVoteHandler(ctx context.Context, req httptransport.RetractCommunityVoteRequest) (httptransport.RetractVoteResponse, error) {
	result, err := h.Ledger.RetractCommunityVote(ctx, commands.RetractCommunityVoteCommand{
		VoterID:         req.VoterID,
		SourceMessageID: req.SourceMessageID,
	})
	if err != nil {
		return httptransport.RetractVoteResponse{}, err
	}
	return httptransport.RetractVoteResponse{
		Submission: mapSubmissionPoints(result.Submission),
	}, nil
}

func (h Handler) CastJudgeVoteHandler(ctx context.Context, req httptransport.CastJudgeVoteRequest) (httptransport.JudgeVoteResponse, error) {
	result, err := h.Ledger.CastJudgeVote(ctx, commands.CastJudgeVoteCommand{
		SubmissionID: req.SubmissionID,
		JudgeID:      req.JudgeID,
		DisplayName:  req.DisplayName,
	})
	if err != nil {
		return httptransport.JudgeVoteResponse{}, err
	}
	return httptransport.JudgeVoteResponse{
		Submission:   mapSubmissionPoints(result.Submission),
		AlreadyVoted: result.AlreadyVoted,
	}, nil
}

func (h Handler) GetSubmissionScoreHandler(ctx context.Context, submissionID string) (httptransport.SubmissionScoreResponse, error) {
	score, err := h.Queries.GetSubmissionScore(ctx, submissionID)
	if err != nil {
		return httptransport.SubmissionScoreResponse{}, err
	}
	return httptransport.SubmissionScoreResponse{
		Submission:     mapSubmissionPoints(score.Submission),
		CommunityVotes: score.CommunityVotes,
		JudgeVotes:     score.JudgeVotes,
	}, nil
}

func mapSubmissionPoints(snapshot ports.SubmissionSnapshot) httptransport.SubmissionPointsResponse {
	return httptransport.SubmissionPointsResponse{
		SubmissionID:    snapshot.SubmissionID,
		ChallengeID:     snapshot.ChallengeID,
		CommunityPoints: snapshot.CommunityPoints,
		JudgePoints:     snapshot.JudgePoints,
		AIPoints:        snapshot.AIPoints,
		TotalPoints:     snapshot.TotalPoints,
	}
}
