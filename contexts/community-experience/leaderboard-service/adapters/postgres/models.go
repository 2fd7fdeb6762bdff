package postgresadapter

import (
	"strings"
	"time"

	"codearena/contexts/community-experience/leaderboard-service/ports"
)

type participantModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	DisplayName   string    `gorm:"column:display_name"`
	AllTimePoints int       `gorm:"column:all_time_points"`
	MonthPoints   int       `gorm:"column:month_points"`
	WeekPoints    int       `gorm:"column:week_points"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (participantModel) TableName() string {
	return "participants"
}

func participantModelFromEntity(participant ports.Participant) participantModel {
	row := participantModel{
		ID:            strings.TrimSpace(participant.ParticipantID),
		DisplayName:   strings.TrimSpace(participant.DisplayName),
		AllTimePoints: participant.AllTimePoints,
		MonthPoints:   participant.MonthPoints,
		WeekPoints:    participant.WeekPoints,
		CreatedAt:     participant.CreatedAt.UTC(),
		UpdatedAt:     participant.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m participantModel) toEntity() ports.Participant {
	return ports.Participant{
		ParticipantID: m.ID,
		DisplayName:   m.DisplayName,
		AllTimePoints: m.AllTimePoints,
		MonthPoints:   m.MonthPoints,
		WeekPoints:    m.WeekPoints,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}
