package postgresadapter

import (
	"strings"
	"time"

	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
)

type challengeModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	Title           string     `gorm:"column:title"`
	Description     string     `gorm:"column:description"`
	Tier            string     `gorm:"column:tier"`
	Phase           string     `gorm:"column:phase"`
	Deadline        time.Time  `gorm:"column:deadline"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	VotingStartedAt *time.Time `gorm:"column:voting_started_at"`
	ClosedAt        *time.Time `gorm:"column:closed_at"`
	ScoredAt        *time.Time `gorm:"column:scored_at"`
}

func (challengeModel) TableName() string {
	return "challenges"
}

func challengeModelFromEntity(challenge entities.Challenge) challengeModel {
	row := challengeModel{
		ID:              strings.TrimSpace(challenge.ChallengeID),
		Title:           strings.TrimSpace(challenge.Title),
		Description:     challenge.Description,
		Tier:            string(challenge.Tier),
		Phase:           string(challenge.Phase),
		Deadline:        challenge.Deadline.UTC(),
		CreatedAt:       challenge.CreatedAt.UTC(),
		UpdatedAt:       challenge.UpdatedAt.UTC(),
		VotingStartedAt: normalizeOptionalTime(challenge.VotingStartedAt),
		ClosedAt:        normalizeOptionalTime(challenge.ClosedAt),
		ScoredAt:        normalizeOptionalTime(challenge.ScoredAt),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m challengeModel) toEntity() entities.Challenge {
	return entities.Challenge{
		ChallengeID:     m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Tier:            entities.ChallengeTier(m.Tier),
		Phase:           entities.ChallengePhase(m.Phase),
		Deadline:        m.Deadline.UTC(),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		VotingStartedAt: normalizeOptionalTime(m.VotingStartedAt),
		ClosedAt:        normalizeOptionalTime(m.ClosedAt),
		ScoredAt:        normalizeOptionalTime(m.ScoredAt),
	}
}

type submissionModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Seq             int64     `gorm:"column:seq;autoIncrement;uniqueIndex:idx_submissions_seq"`
	ChallengeID     string    `gorm:"column:challenge_id;uniqueIndex:idx_submissions_owner"`
	ParticipantID   string    `gorm:"column:participant_id;uniqueIndex:idx_submissions_owner"`
	CodeURL         string    `gorm:"column:code_url"`
	CommunityPoints int       `gorm:"column:community_points"`
	JudgePoints     int       `gorm:"column:judge_points"`
	AIPoints        int       `gorm:"column:ai_points"`
	TotalPoints     int       `gorm:"column:total_points"`
	AIFeedback      string    `gorm:"column:ai_feedback"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (submissionModel) TableName() string {
	return "submissions"
}

func submissionModelFromEntity(submission entities.Submission) submissionModel {
	row := submissionModel{
		ID:              strings.TrimSpace(submission.SubmissionID),
		ChallengeID:     strings.TrimSpace(submission.ChallengeID),
		ParticipantID:   strings.TrimSpace(submission.ParticipantID),
		CodeURL:         strings.TrimSpace(submission.CodeURL),
		CommunityPoints: submission.CommunityPoints,
		JudgePoints:     submission.JudgePoints,
		AIPoints:        submission.AIPoints,
		TotalPoints:     submission.TotalPoints,
		AIFeedback:      submission.AIFeedback,
		CreatedAt:       submission.CreatedAt.UTC(),
		UpdatedAt:       submission.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m submissionModel) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID:    m.ID,
		ChallengeID:     m.ChallengeID,
		ParticipantID:   m.ParticipantID,
		CodeURL:         m.CodeURL,
		CommunityPoints: m.CommunityPoints,
		JudgePoints:     m.JudgePoints,
		AIPoints:        m.AIPoints,
		TotalPoints:     m.TotalPoints,
		AIFeedback:      m.AIFeedback,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "challenge_outbox"
}
