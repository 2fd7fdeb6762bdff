package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"codearena/contexts/community-experience/leaderboard-service/application"
	"codearena/contexts/community-experience/leaderboard-service/ports"
	httptransport "codearena/contexts/community-experience/leaderboard-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetLeaderboardHandler(ctx context.Context, window string, limit int) (httptransport.LeaderboardResponse, error) {
	participants, err := h.Service.TopN(ctx, window, limit)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}

	normalized := strings.ToLower(strings.TrimSpace(window))
	if normalized == "" {
		normalized = ports.WindowAllTime
	}
	entries := make([]httptransport.LeaderboardEntry, 0, len(participants))
	for i, participant := range participants {
		entries = append(entries, httptransport.LeaderboardEntry{
			Rank:          i + 1,
			ParticipantID: participant.ParticipantID,
			DisplayName:   participant.DisplayName,
			Points:        windowPoints(participant, normalized),
		})
	}
	return httptransport.LeaderboardResponse{
		Window:  normalized,
		Entries: entries,
	}, nil
}

func (h Handler) GetParticipantHandler(ctx context.Context, participantID string) (httptransport.ParticipantResponse, error) {
	participant, err := h.Service.GetParticipant(ctx, participantID)
	if err != nil {
		return httptransport.ParticipantResponse{}, err
	}
	return httptransport.ParticipantResponse{
		ParticipantID: participant.ParticipantID,
		DisplayName:   participant.DisplayName,
		AllTimePoints: participant.AllTimePoints,
		MonthPoints:   participant.MonthPoints,
		WeekPoints:    participant.WeekPoints,
		CreatedAt:     participant.CreatedAt,
	}, nil
}

func windowPoints(participant ports.Participant, window string) int {
	switch window {
	case ports.WindowWeek:
		return participant.WeekPoints
	case ports.WindowMonth:
		return participant.MonthPoints
	default:
		return participant.AllTimePoints
	}
}
