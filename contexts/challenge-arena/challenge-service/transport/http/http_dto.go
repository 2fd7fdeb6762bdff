package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OpenChallengeRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tier        string    `json:"tier"`
	Deadline    time.Time `json:"deadline"`
}

type GenerateChallengeRequest struct {
	Tier     string    `json:"tier"`
	Theme    string    `json:"theme"`
	Deadline time.Time `json:"deadline"`
}

type ChallengeResponse struct {
	ChallengeID     string     `json:"challenge_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Tier            string     `json:"tier"`
	Phase           string     `json:"phase"`
	Deadline        time.Time  `json:"deadline"`
	CreatedAt       time.Time  `json:"created_at"`
	VotingStartedAt *time.Time `json:"voting_started_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	ScoredAt        *time.Time `json:"scored_at,omitempty"`
}

type ChallengeListResponse struct {
	Items []ChallengeResponse `json:"items"`
}

type SubmitRequest struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	CodeURL       string `json:"code_url"`
}

type SubmissionResponse struct {
	SubmissionID    string    `json:"submission_id"`
	ChallengeID     string    `json:"challenge_id"`
	ParticipantID   string    `json:"participant_id"`
	CodeURL         string    `json:"code_url"`
	CommunityPoints int       `json:"community_points"`
	JudgePoints     int       `json:"judge_points"`
	AIPoints        int       `json:"ai_points"`
	TotalPoints     int       `json:"total_points"`
	AIFeedback      string    `json:"ai_feedback,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type SubmitResponse struct {
	Submission SubmissionResponse `json:"submission"`
	Fresh      bool               `json:"fresh"`
}

type StartVotingResponse struct {
	Challenge   ChallengeResponse    `json:"challenge"`
	Submissions []SubmissionResponse `json:"submissions"`
}

type SubmissionListResponse struct {
	Items []SubmissionResponse `json:"items"`
}
