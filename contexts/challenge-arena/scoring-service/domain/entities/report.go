package entities

import "time"

// SubmissionResult is the per-submission outcome of a scoring pass. Fetch and
// scoring failures degrade to zero AI points and are reported here instead of
// aborting the batch.
type SubmissionResult struct {
	SubmissionID    string
	ParticipantID   string
	DisplayName     string
	Rank            int
	CommunityPoints int
	JudgePoints     int
	AIPoints        int
	TotalPoints     int
	Feedback        string
	Scored          bool
	FailureReason   string
}

// ChallengeReport collects the full outcome of one close-of-voting workflow.
type ChallengeReport struct {
	ChallengeID string
	Title       string
	Tier        string
	ScoredAt    time.Time
	Results     []SubmissionResult
	Announced   bool
}
