package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "codearena/contexts/challenge-arena/challenge-service/application"
	"codearena/contexts/challenge-arena/challenge-service/ports"
	"codearena/internal/shared/events"
)

// OutboxRelay publishes persisted lifecycle events to the arena bus.
type OutboxRelay struct {
	Outbox    ports.OutboxStore
	Publisher ports.Publisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after the bus accepts it. It stops on the first failure so
// the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("challenge outbox list failed",
			"event", "challenge_outbox_list_failed",
			"module", "challenge-arena/challenge-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event events.Envelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("challenge outbox decode failed",
				"event", "challenge_outbox_decode_failed",
				"module", "challenge-arena/challenge-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Publisher.Publish(ctx, events.TopicChallengeLifecycle, event); err != nil {
			logger.Error("challenge outbox publish failed",
				"event", "challenge_outbox_publish_failed",
				"module", "challenge-arena/challenge-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("challenge outbox mark published failed",
				"event", "challenge_outbox_mark_published_failed",
				"module", "challenge-arena/challenge-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("challenge outbox relay cycle completed",
		"event", "challenge_outbox_relay_completed",
		"module", "challenge-arena/challenge-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
