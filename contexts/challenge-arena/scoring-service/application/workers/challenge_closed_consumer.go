package workers

import (
	"context"
	"log/slog"

	application "codearena/contexts/challenge-arena/scoring-service/application"
	"codearena/contexts/challenge-arena/scoring-service/domain/entities"
	"codearena/contexts/challenge-arena/scoring-service/ports"
	"codearena/internal/shared/events"
)

// ChallengeScorer is the slice of the orchestrator the consumer needs.
type ChallengeScorer interface {
	ScoreChallenge(ctx context.Context, challengeID string) (entities.ChallengeReport, error)
}

// ChallengeClosedConsumer runs the scoring workflow for every challenge.closed
// event. Event ids are reserved before scoring so redeliveries are dropped.
type ChallengeClosedConsumer struct {
	Events       <-chan events.Envelope
	Dedup        ports.EventDedup
	Orchestrator ChallengeScorer
	Logger       *slog.Logger
}

// Start blocks draining the event channel until the context ends. Scoring
// failures are logged and never stop the loop.
func (c ChallengeClosedConsumer) Start(ctx context.Context) {
	logger := application.ResolveLogger(c.Logger)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-c.Events:
			if !ok {
				return
			}
			if event.EventType != events.TypeChallengeClosed {
				continue
			}
			c.handle(ctx, event, logger)
		}
	}
}

func (c ChallengeClosedConsumer) handle(ctx context.Context, event events.Envelope, logger *slog.Logger) {
	if c.Dedup != nil {
		fresh, err := c.Dedup.ReserveEvent(ctx, event.EventID)
		if err != nil {
			logger.Error("event reservation failed",
				"event", "scoring_dedup_failed",
				"module", "challenge-arena/scoring-service",
				"layer", "worker",
				"event_id", event.EventID,
				"error", err.Error(),
			)
			return
		}
		if !fresh {
			logger.Info("duplicate close event dropped",
				"event", "scoring_event_deduplicated",
				"module", "challenge-arena/scoring-service",
				"layer", "worker",
				"event_id", event.EventID,
				"challenge_id", event.EntityID,
			)
			return
		}
	}

	if _, err := c.Orchestrator.ScoreChallenge(ctx, event.EntityID); err != nil {
		logger.Error("challenge scoring failed",
			"event", "scoring_workflow_failed",
			"module", "challenge-arena/scoring-service",
			"layer", "worker",
			"event_id", event.EventID,
			"challenge_id", event.EntityID,
			"error", err.Error(),
		)
	}
}
