package ports

import (
	"context"
	"time"
)

// Challenge phases as reported by the challenge service.
const (
	PhaseOpen   = "open"
	PhaseVoting = "voting"
	PhaseClosed = "closed"
)

// ChallengeView is the orchestrator's read model of a challenge owned by the
// challenge service.
type ChallengeView struct {
	ChallengeID string
	Title       string
	Description string
	Tier        string
	Phase       string
	ClosedAt    *time.Time
	ScoredAt    *time.Time
}

// SubmissionView carries the point state the orchestrator merges AI scores
// into. Submissions are listed in creation order.
type SubmissionView struct {
	SubmissionID    string
	ParticipantID   string
	DisplayName     string
	CodeURL         string
	CommunityPoints int
	JudgePoints     int
	AIPoints        int
	TotalPoints     int
	CreatedAt       time.Time
}

type ChallengeSource interface {
	GetChallenge(ctx context.Context, challengeID string) (ChallengeView, error)
	ListSubmissions(ctx context.Context, challengeID string) ([]SubmissionView, error)
	ApplyAIScore(ctx context.Context, submissionID string, aiPoints int, feedback string, total int, updatedAt time.Time) error
	MarkChallengeScored(ctx context.Context, challengeID string, scoredAt time.Time) error
}

type CodeFetcher interface {
	FetchCode(ctx context.Context, location string) (string, error)
}

type AIScore struct {
	Points        int
	Justification string
}

type AIScorer interface {
	ScoreSubmission(ctx context.Context, code string, challengeDescription string) (AIScore, error)
}

// PointsLedger credits a participant's cumulative all-time, month, and week
// counters in one call.
type PointsLedger interface {
	CreditPoints(ctx context.Context, participantID string, points int, creditedAt time.Time) error
}

type AnnouncementField struct {
	Name  string
	Value string
}

type Announcement struct {
	Title  string
	Body   string
	Fields []AnnouncementField
}

type Announcer interface {
	Announce(ctx context.Context, destination string, announcement Announcement) error
}

// DestinationResolver maps a difficulty tier to its announcement destination.
// A missing mapping skips the announcement, it is never fatal.
type DestinationResolver interface {
	DestinationForTier(tier string) (string, bool)
}

// EventDedup reserves an event id so a redelivered close event runs the
// scoring workflow at most once.
type EventDedup interface {
	ReserveEvent(ctx context.Context, eventID string) (bool, error)
}

type Clock interface {
	Now() time.Time
}
