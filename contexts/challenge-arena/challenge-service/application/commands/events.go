package commands

import (
	"time"

	"codearena/internal/shared/events"
)

func newChallengeEnvelope(
	eventID string,
	eventType string,
	challengeID string,
	occurredAt time.Time,
	data map[string]any,
) events.Envelope {
	return events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  "challenge-service",
		OccurredAtUTC:  occurredAt.UTC(),
		PartitionKey:   challengeID,
		EntityType:     "challenge",
		EntityID:       challengeID,
		PayloadVersion: 1,
		Payload:        data,
	}
}
