package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastCommunityVoteRequest struct {
	SubmissionID    string `json:"submission_id"`
	VoterID         string `json:"voter_id"`
	DisplayName     string `json:"display_name"`
	SourceMessageID string `json:"source_message_id"`
}

type RetractCommunityVoteRequest struct {
	VoterID         string `json:"voter_id"`
	SourceMessageID string `json:"source_message_id"`
}

type CastJudgeVoteRequest struct {
	SubmissionID string `json:"submission_id"`
	JudgeID      string `json:"judge_id"`
	DisplayName  string `json:"display_name"`
}

type SubmissionPointsResponse struct {
	SubmissionID    string `json:"submission_id"`
	ChallengeID     string `json:"challenge_id"`
	CommunityPoints int    `json:"community_points"`
	JudgePoints     int    `json:"judge_points"`
	AIPoints        int    `json:"ai_points"`
	TotalPoints     int    `json:"total_points"`
}

type CastVoteResponse struct {
	Submission  SubmissionPointsResponse `json:"submission"`
	AlreadyCast bool                     `json:"already_cast"`
}

type RetractVoteResponse struct {
	Submission SubmissionPointsResponse `json:"submission"`
}

type JudgeVoteResponse struct {
	Submission   SubmissionPointsResponse `json:"submission"`
	AlreadyVoted bool                     `json:"already_voted"`
}

type SubmissionScoreResponse struct {
	Submission     SubmissionPointsResponse `json:"submission"`
	CommunityVotes int                      `json:"community_votes"`
	JudgeVotes     int                      `json:"judge_votes"`
}
