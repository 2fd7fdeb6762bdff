package commands

import (
	"context"
	"strings"

	application "codearena/contexts/challenge-arena/challenge-service/application"
	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
)

type StartVotingResult struct {
	Challenge entities.Challenge
	// Submissions to publish for voting, in creation order.
	Submissions []entities.Submission
}

func (uc ChallengeUseCase) StartVoting(ctx context.Context, challengeID string) (StartVotingResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	challenge, err := uc.Challenges.GetChallenge(ctx, strings.TrimSpace(challengeID))
	if err != nil {
		return StartVotingResult{}, err
	}
	if challenge.Phase != entities.ChallengePhaseOpen {
		return StartVotingResult{}, domainerrors.ErrInvalidPhase
	}

	submissions, err := uc.Submissions.ListSubmissionsByChallenge(ctx, challenge.ChallengeID)
	if err != nil {
		return StartVotingResult{}, err
	}
	if len(submissions) == 0 {
		return StartVotingResult{}, domainerrors.ErrNoSubmissions
	}

	now := uc.now()
	if err := uc.advanceToVoting(ctx, challenge, now, "organizer_request"); err != nil {
		return StartVotingResult{}, err
	}
	challenge.Phase = entities.ChallengePhaseVoting
	challenge.VotingStartedAt = &now
	challenge.UpdatedAt = now

	logger.Info("voting started",
		"event", "challenge_voting_started",
		"module", "challenge-arena/challenge-service",
		"layer", "application",
		"challenge_id", challenge.ChallengeID,
		"submission_count", len(submissions),
	)
	return StartVotingResult{Challenge: challenge, Submissions: submissions}, nil
}
