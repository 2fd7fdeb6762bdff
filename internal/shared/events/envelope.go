package events

import "time"

// Envelope is the shared event shape carried on the arena bus and stored in
// per-service outboxes. PartitionKey keeps per-challenge ordering when a real
// broker is wired in.
type Envelope struct {
	EventID        string         `json:"event_id"`
	EventType      string         `json:"event_type"`
	SourceService  string         `json:"source_service"`
	OccurredAtUTC  time.Time      `json:"occurred_at_utc"`
	PartitionKey   string         `json:"partition_key"`
	EntityType     string         `json:"entity_type"`
	EntityID       string         `json:"entity_id"`
	PayloadVersion int            `json:"payload_version"`
	Payload        map[string]any `json:"payload"`
}

// Lifecycle event types emitted by the challenge service.
const (
	TypeChallengeOpened       = "challenge.opened"
	TypeChallengeVotingOpened = "challenge.voting_started"
	TypeChallengeClosed       = "challenge.closed"
)

// TypeAnnouncementPosted carries scored-challenge announcements on the
// announcements topic.
const TypeAnnouncementPosted = "announcement.posted"

// Topics the bus currently carries.
const (
	TopicChallengeLifecycle = "arena.challenge"
	TopicAnnouncements      = "arena.announcements"
)
