package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ParticipantResponse struct {
	ParticipantID string    `json:"participant_id"`
	DisplayName   string    `json:"display_name"`
	AllTimePoints int       `json:"all_time_points"`
	MonthPoints   int       `json:"month_points"`
	WeekPoints    int       `json:"week_points"`
	CreatedAt     time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Points        int    `json:"points"`
}

type LeaderboardResponse struct {
	Window  string             `json:"window"`
	Entries []LeaderboardEntry `json:"entries"`
}
