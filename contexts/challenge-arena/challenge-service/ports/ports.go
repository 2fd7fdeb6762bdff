package ports

import (
	"context"
	"time"

	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	"codearena/internal/shared/events"
	"codearena/internal/shared/outbox"
)

type ChallengeRepository interface {
	SaveChallenge(ctx context.Context, challenge entities.Challenge) error
	GetChallenge(ctx context.Context, challengeID string) (entities.Challenge, error)
	ListChallenges(ctx context.Context) ([]entities.Challenge, error)
}

type SubmissionRepository interface {
	SaveSubmission(ctx context.Context, submission entities.Submission) error
	GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error)
	GetSubmissionByOwner(ctx context.Context, challengeID string, participantID string) (entities.Submission, bool, error)
	// ListSubmissionsByChallenge returns submissions in creation order.
	ListSubmissionsByChallenge(ctx context.Context, challengeID string) ([]entities.Submission, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type OutboxStore interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// ChallengeGenerator is the AI collaborator that drafts a challenge title and
// description for a tier and theme.
type ChallengeGenerator interface {
	GenerateChallenge(ctx context.Context, tier string, theme string) (string, string, error)
}

// ParticipantRegistry creates a participant record on first interaction.
type ParticipantRegistry interface {
	EnsureParticipant(ctx context.Context, participantID string, displayName string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
