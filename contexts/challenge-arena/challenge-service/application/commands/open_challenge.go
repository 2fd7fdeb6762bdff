package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "codearena/contexts/challenge-arena/challenge-service/application"
	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
	"codearena/contexts/challenge-arena/challenge-service/ports"
	"codearena/internal/shared/events"
)

// OpenChallengeCommand is the write-model input for challenge creation.
type OpenChallengeCommand struct {
	Title       string
	Description string
	Tier        entities.ChallengeTier
	Deadline    time.Time
}

// ChallengeUseCase orchestrates the challenge lifecycle: open, admit
// submissions, start voting, close. Phase transitions are monotonic and
// enforced through the entity guard.
type ChallengeUseCase struct {
	Challenges   ports.ChallengeRepository
	Submissions  ports.SubmissionRepository
	Outbox       ports.OutboxWriter
	Generator    ports.ChallengeGenerator
	Participants ports.ParticipantRegistry
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

// OpenChallenge creates a challenge in the open phase. No side effects beyond
// creation and the challenge.opened event.
func (uc ChallengeUseCase) OpenChallenge(ctx context.Context, cmd OpenChallengeCommand) (entities.Challenge, error) {
	logger := application.ResolveLogger(uc.Logger)

	now := uc.now()
	challenge := entities.Challenge{
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		Tier:        cmd.Tier,
		Phase:       entities.ChallengePhaseOpen,
		Deadline:    cmd.Deadline.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !challenge.ValidateBasics() || !challenge.Deadline.After(now) {
		logger.Warn("challenge open validation failed",
			"event", "challenge_open_validation_failed",
			"module", "challenge-arena/challenge-service",
			"layer", "application",
			"title", challenge.Title,
			"tier", string(challenge.Tier),
		)
		return entities.Challenge{}, domainerrors.ErrInvalidChallengeInput
	}

	challengeID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Challenge{}, err
	}
	challenge.ChallengeID = challengeID

	if err := uc.Challenges.SaveChallenge(ctx, challenge); err != nil {
		return entities.Challenge{}, err
	}
	if err := uc.appendLifecycleEvent(ctx, events.TypeChallengeOpened, challenge, now, map[string]any{
		"title":    challenge.Title,
		"tier":     string(challenge.Tier),
		"deadline": challenge.Deadline.Format(time.RFC3339),
	}); err != nil {
		return entities.Challenge{}, err
	}

	logger.Info("challenge opened",
		"event", "challenge_opened",
		"module", "challenge-arena/challenge-service",
		"layer", "application",
		"challenge_id", challenge.ChallengeID,
		"tier", string(challenge.Tier),
		"deadline", challenge.Deadline.Format(time.RFC3339),
	)
	return challenge, nil
}

func (uc ChallengeUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func (uc ChallengeUseCase) appendLifecycleEvent(
	ctx context.Context,
	eventType string,
	challenge entities.Challenge,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"challenge_id": challenge.ChallengeID,
		"phase":        string(challenge.Phase),
		"occurred_at":  occurredAt.Format(time.RFC3339),
	}
	for key, value := range data {
		payload[key] = value
	}
	return uc.Outbox.AppendOutbox(ctx, newChallengeEnvelope(eventID, eventType, challenge.ChallengeID, occurredAt, payload))
}
