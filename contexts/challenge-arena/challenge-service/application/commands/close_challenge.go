package commands

import (
	"context"
	"strings"

	application "codearena/contexts/challenge-arena/challenge-service/application"
	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
	"codearena/internal/shared/events"
)

// CloseChallenge moves a voting challenge to its terminal closed phase. The
// challenge.closed event triggers the scoring orchestrator; the use case never
// runs scoring itself.
func (uc ChallengeUseCase) CloseChallenge(ctx context.Context, challengeID string) (entities.Challenge, error) {
	logger := application.ResolveLogger(uc.Logger)

	challenge, err := uc.Challenges.GetChallenge(ctx, strings.TrimSpace(challengeID))
	if err != nil {
		return entities.Challenge{}, err
	}
	if !challenge.CanTransition(entities.ChallengePhaseClosed) {
		return entities.Challenge{}, domainerrors.ErrInvalidPhase
	}

	now := uc.now()
	challenge.Phase = entities.ChallengePhaseClosed
	challenge.ClosedAt = &now
	challenge.UpdatedAt = now
	if err := uc.Challenges.SaveChallenge(ctx, challenge); err != nil {
		return entities.Challenge{}, err
	}
	if err := uc.appendLifecycleEvent(ctx, events.TypeChallengeClosed, challenge, now, map[string]any{
		"title": challenge.Title,
		"tier":  string(challenge.Tier),
	}); err != nil {
		return entities.Challenge{}, err
	}

	logger.Info("challenge closed",
		"event", "challenge_closed",
		"module", "challenge-arena/challenge-service",
		"layer", "application",
		"challenge_id", challenge.ChallengeID,
		"tier", string(challenge.Tier),
	)
	return challenge, nil
}
