package commands

import (
	"context"
	"strings"
	"time"

	application "codearena/contexts/challenge-arena/challenge-service/application"
	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
)

// GenerateChallengeCommand asks the AI collaborator to draft a challenge for a
// tier and theme, then opens it.
type GenerateChallengeCommand struct {
	Tier     entities.ChallengeTier
	Theme    string
	Deadline time.Time
}

func (uc ChallengeUseCase) GenerateChallenge(ctx context.Context, cmd GenerateChallengeCommand) (entities.Challenge, error) {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Generator == nil {
		return entities.Challenge{}, domainerrors.ErrGenerationFailed
	}
	if !entities.IsSupportedTier(cmd.Tier) || strings.TrimSpace(cmd.Theme) == "" {
		return entities.Challenge{}, domainerrors.ErrInvalidChallengeInput
	}

	title, description, err := uc.Generator.GenerateChallenge(ctx, string(cmd.Tier), strings.TrimSpace(cmd.Theme))
	if err != nil {
		logger.Warn("challenge generation failed",
			"event", "challenge_generation_failed",
			"module", "challenge-arena/challenge-service",
			"layer", "application",
			"tier", string(cmd.Tier),
			"theme", strings.TrimSpace(cmd.Theme),
			"error", err.Error(),
		)
		return entities.Challenge{}, domainerrors.ErrGenerationFailed
	}

	challenge, err := uc.OpenChallenge(ctx, OpenChallengeCommand{
		Title:       title,
		Description: description,
		Tier:        cmd.Tier,
		Deadline:    cmd.Deadline,
	})
	if err != nil {
		return entities.Challenge{}, err
	}

	logger.Info("challenge generated",
		"event", "challenge_generated",
		"module", "challenge-arena/challenge-service",
		"layer", "application",
		"challenge_id", challenge.ChallengeID,
		"tier", string(challenge.Tier),
		"theme", strings.TrimSpace(cmd.Theme),
	)
	return challenge, nil
}
