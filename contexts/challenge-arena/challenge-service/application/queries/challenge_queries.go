package queries

import (
	"context"
	"strings"

	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	"codearena/contexts/challenge-arena/challenge-service/ports"
)

type ChallengeQueries struct {
	Challenges  ports.ChallengeRepository
	Submissions ports.SubmissionRepository
}

func (q ChallengeQueries) GetChallenge(ctx context.Context, challengeID string) (entities.Challenge, error) {
	return q.Challenges.GetChallenge(ctx, strings.TrimSpace(challengeID))
}

func (q ChallengeQueries) ListChallenges(ctx context.Context) ([]entities.Challenge, error) {
	return q.Challenges.ListChallenges(ctx)
}

func (q ChallengeQueries) ListSubmissions(ctx context.Context, challengeID string) ([]entities.Submission, error) {
	return q.Submissions.ListSubmissionsByChallenge(ctx, strings.TrimSpace(challengeID))
}
