package entities

import (
	"strings"
	"time"
)

type ChallengePhase string
type ChallengeTier string

const (
	ChallengePhaseOpen   ChallengePhase = "open"
	ChallengePhaseVoting ChallengePhase = "voting"
	ChallengePhaseClosed ChallengePhase = "closed"

	ChallengeTierBeginner ChallengeTier = "beginner"
	ChallengeTierJunior   ChallengeTier = "junior"
	ChallengeTierMid      ChallengeTier = "mid"
	ChallengeTierSenior   ChallengeTier = "senior"
)

type Challenge struct {
	ChallengeID     string
	Title           string
	Description     string
	Tier            ChallengeTier
	Phase           ChallengePhase
	Deadline        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	VotingStartedAt *time.Time
	ClosedAt        *time.Time
	// ScoredAt is an audit field; it is the only mutation allowed after close.
	ScoredAt *time.Time
}

// CanTransition enforces the monotonic open -> voting -> closed lifecycle.
func (c Challenge) CanTransition(to ChallengePhase) bool {
	switch to {
	case ChallengePhaseVoting:
		return c.Phase == ChallengePhaseOpen
	case ChallengePhaseClosed:
		return c.Phase == ChallengePhaseVoting
	default:
		return false
	}
}

func (c Challenge) DeadlinePassed(now time.Time) bool {
	return now.UTC().After(c.Deadline.UTC())
}

func (c Challenge) ValidateBasics() bool {
	title := strings.TrimSpace(c.Title)
	description := strings.TrimSpace(c.Description)
	return title != "" &&
		len(title) <= 255 &&
		description != "" &&
		IsSupportedTier(c.Tier) &&
		!c.Deadline.IsZero()
}

func IsSupportedTier(value ChallengeTier) bool {
	switch value {
	case ChallengeTierBeginner, ChallengeTierJunior, ChallengeTierMid, ChallengeTierSenior:
		return true
	default:
		return false
	}
}

func NormalizeTier(raw string) ChallengeTier {
	return ChallengeTier(strings.ToLower(strings.TrimSpace(raw)))
}
