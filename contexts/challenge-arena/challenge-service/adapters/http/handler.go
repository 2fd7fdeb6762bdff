package httpadapter

import (
	"context"
	"log/slog"

	"codearena/contexts/challenge-arena/challenge-service/application/commands"
	"codearena/contexts/challenge-arena/challenge-service/application/queries"
	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	httptransport "codearena/contexts/challenge-arena/challenge-service/transport/http"
)

type Handler struct {
	Challenges commands.ChallengeUseCase
	Queries    queries.ChallengeQueries
	Logger     *slog.Logger
}

func (h Handler) OpenChallengeHandler(ctx context.Context, req httptransport.OpenChallengeRequest) (httptransport.ChallengeResponse, error) {
	challenge, err := h.Challenges.OpenChallenge(ctx, commands.OpenChallengeCommand{
		Title:       req.Title,
		Description: req.Description,
		Tier:        entities.NormalizeTier(req.Tier),
		Deadline:    req.Deadline,
	})
	if err != nil {
		return httptransport.ChallengeResponse{}, err
	}
	return mapChallenge(challenge), nil
}

func (h Handler) GenerateChallengeHandler(ctx context.Context, req httptransport.GenerateChallengeRequest) (httptransport.ChallengeResponse, error) {
	challenge, err := h.Challenges.GenerateChallenge(ctx, commands.GenerateChallengeCommand{
		Tier:     entities.NormalizeTier(req.Tier),
		Theme:    req.Theme,
		Deadline: req.Deadline,
	})
	if err != nil {
		return httptransport.ChallengeResponse{}, err
	}
	return mapChallenge(challenge), nil
}

func (h Handler) GetChallengeHandler(ctx context.Context, challengeID string) (httptransport.ChallengeResponse, error) {
	challenge, err := h.Queries.GetChallenge(ctx, challengeID)
	if err != nil {
		return httptransport.ChallengeResponse{}, err
	}
	return mapChallenge(challenge), nil
}

func (h Handler) ListChallengesHandler(ctx context.Context) (httptransport.ChallengeListResponse, error) {
	challenges, err := h.Queries.ListChallenges(ctx)
	if err != nil {
		return httptransport.ChallengeListResponse{}, err
	}
	items := make([]httptransport.ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		items = append(items, mapChallenge(challenge))
	}
	return httptransport.ChallengeListResponse{Items: items}, nil
}

func (h Handler) SubmitHandler(ctx context.Context, challengeID string, req httptransport.SubmitRequest) (httptransport.SubmitResponse, error) {
	result, err := h.Challenges.AdmitSubmission(ctx, commands.AdmitSubmissionCommand{
		ChallengeID:   challengeID,
		ParticipantID: req.ParticipantID,
		DisplayName:   req.DisplayName,
		CodeLocation:  req.CodeURL,
	})
	if err != nil {
		return httptransport.SubmitResponse{}, err
	}
	return httptransport.SubmitResponse{
		Submission: mapSubmission(result.Submission),
		Fresh:      result.Fresh,
	}, nil
}

func (h Handler) StartVotingHandler(ctx context.Context, challengeID string) (httptransport.StartVotingResponse, error) {
	result, err := h.Challenges.StartVoting(ctx, challengeID)
	if err != nil {
		return httptransport.StartVotingResponse{}, err
	}
	items := make([]httptransport.SubmissionResponse, 0, len(result.Submissions))
	for _, submission := range result.Submissions {
		items = append(items, mapSubmission(submission))
	}
	return httptransport.StartVotingResponse{
		Challenge:   mapChallenge(result.Challenge),
		Submissions: items,
	}, nil
}

func (h Handler) CloseChallengeHandler(ctx context.Context, challengeID string) (httptransport.ChallengeResponse, error) {
	challenge, err := h.Challenges.CloseChallenge(ctx, challengeID)
	if err != nil {
		return httptransport.ChallengeResponse{}, err
	}
	return mapChallenge(challenge), nil
}

func (h Handler) ListSubmissionsHandler(ctx context.Context, challengeID string) (httptransport.SubmissionListResponse, error) {
	submissions, err := h.Queries.ListSubmissions(ctx, challengeID)
	if err != nil {
		return httptransport.SubmissionListResponse{}, err
	}
	items := make([]httptransport.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		items = append(items, mapSubmission(submission))
	}
	return httptransport.SubmissionListResponse{Items: items}, nil
}

func mapChallenge(challenge entities.Challenge) httptransport.ChallengeResponse {
	return httptransport.ChallengeResponse{
		ChallengeID:     challenge.ChallengeID,
		Title:           challenge.Title,
		Description:     challenge.Description,
		Tier:            string(challenge.Tier),
		Phase:           string(challenge.Phase),
		Deadline:        challenge.Deadline,
		CreatedAt:       challenge.CreatedAt,
		VotingStartedAt: challenge.VotingStartedAt,
		ClosedAt:        challenge.ClosedAt,
		ScoredAt:        challenge.ScoredAt,
	}
}

func mapSubmission(submission entities.Submission) httptransport.SubmissionResponse {
	return httptransport.SubmissionResponse{
		SubmissionID:    submission.SubmissionID,
		ChallengeID:     submission.ChallengeID,
		ParticipantID:   submission.ParticipantID,
		CodeURL:         submission.CodeURL,
		CommunityPoints: submission.CommunityPoints,
		JudgePoints:     submission.JudgePoints,
		AIPoints:        submission.AIPoints,
		TotalPoints:     submission.TotalPoints,
		AIFeedback:      submission.AIFeedback,
		CreatedAt:       submission.CreatedAt,
	}
}
