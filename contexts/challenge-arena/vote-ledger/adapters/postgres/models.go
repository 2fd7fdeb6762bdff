package postgresadapter

import (
	"strings"
	"time"

	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
)

type voteModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	SubmissionID    string    `gorm:"column:submission_id;uniqueIndex:idx_votes_owner"`
	VoterID         string    `gorm:"column:voter_id;uniqueIndex:idx_votes_owner;index:idx_votes_message"`
	Kind            string    `gorm:"column:kind;uniqueIndex:idx_votes_owner;index:idx_votes_message"`
	SourceMessageID string    `gorm:"column:source_message_id;index:idx_votes_message"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:              strings.TrimSpace(vote.VoteID),
		SubmissionID:    strings.TrimSpace(vote.SubmissionID),
		VoterID:         strings.TrimSpace(vote.VoterID),
		Kind:            string(vote.Kind),
		SourceMessageID: strings.TrimSpace(vote.SourceMessageID),
		CreatedAt:       vote.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:          m.ID,
		SubmissionID:    m.SubmissionID,
		VoterID:         m.VoterID,
		Kind:            entities.VoteKind(m.Kind),
		SourceMessageID: m.SourceMessageID,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}
