package ports

import (
	"context"
	"time"
)

// Ranking windows accepted by the leaderboard.
const (
	WindowWeek    = "week"
	WindowMonth   = "month"
	WindowAllTime = "all-time"
)

// Participant is created on first interaction and never deleted. The three
// counters accumulate whichever period is current at credit time; period
// resets are an external scheduler's concern.
type Participant struct {
	ParticipantID string
	DisplayName   string
	AllTimePoints int
	MonthPoints   int
	WeekPoints    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	UpsertParticipant(ctx context.Context, participant Participant) error
	GetParticipant(ctx context.Context, participantID string) (Participant, bool, error)
	// CreditPoints adds the same amount to all three counters atomically.
	CreditPoints(ctx context.Context, participantID string, points int, creditedAt time.Time) error
	ListParticipants(ctx context.Context) ([]Participant, error)
}

type Clock interface {
	Now() time.Time
}
