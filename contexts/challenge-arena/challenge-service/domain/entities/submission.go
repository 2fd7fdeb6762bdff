package entities

import (
	"net/url"
	"strings"
	"time"
)

// Submission is a participant's single current solution for a challenge.
// The point subtotals are a derived cache: community and judge points are
// recomputed from the vote ledger on every mutation, and TotalPoints always
// equals CommunityPoints + JudgePoints + AIPoints.
type Submission struct {
	SubmissionID    string
	ChallengeID     string
	ParticipantID   string
	CodeURL         string
	CommunityPoints int
	JudgePoints     int
	AIPoints        int
	TotalPoints     int
	AIFeedback      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsFetchableLocation reports whether a code reference can be handed to the
// code-fetch collaborator: an absolute http(s) URL with a host.
func IsFetchableLocation(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
