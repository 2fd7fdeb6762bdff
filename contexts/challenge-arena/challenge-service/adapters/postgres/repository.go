package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
	"codearena/contexts/challenge-arena/challenge-service/ports"
	"codearena/internal/shared/events"
	"codearena/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the challenge-service tables, including the uniqueness
// constraint on (challenge_id, participant_id) the data model requires.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&challengeModel{}, &submissionModel{}, &outboxModel{})
}

func (r *Repository) SaveChallenge(ctx context.Context, challenge entities.Challenge) error {
	row := challengeModelFromEntity(challenge)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":             row.Title,
			"description":       row.Description,
			"tier":              row.Tier,
			"phase":             row.Phase,
			"deadline":          row.Deadline,
			"voting_started_at": row.VotingStartedAt,
			"closed_at":         row.ClosedAt,
			"scored_at":         row.ScoredAt,
			"updated_at":        row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("challenge_repo_save_challenge_failed", create.Error,
			"challenge_id", strings.TrimSpace(challenge.ChallengeID),
		)
	}
	return nil
}

func (r *Repository) GetChallenge(ctx context.Context, challengeID string) (entities.Challenge, error) {
	var row challengeModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(challengeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Challenge{}, domainerrors.ErrChallengeNotFound
		}
		return entities.Challenge{}, r.logError("challenge_repo_get_challenge_failed", err,
			"challenge_id", strings.TrimSpace(challengeID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListChallenges(ctx context.Context) ([]entities.Challenge, error) {
	var rows []challengeModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("challenge_repo_list_challenges_failed", err)
	}
	items := make([]entities.Challenge, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveSubmission(ctx context.Context, submission entities.Submission) error {
	row := submissionModelFromEntity(submission)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"code_url":         row.CodeURL,
			"community_points": row.CommunityPoints,
			"judge_points":     row.JudgePoints,
			"ai_points":        row.AIPoints,
			"total_points":     row.TotalPoints,
			"ai_feedback":      row.AIFeedback,
			"updated_at":       row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("challenge_repo_save_submission_failed", create.Error,
			"submission_id", strings.TrimSpace(submission.SubmissionID),
			"challenge_id", strings.TrimSpace(submission.ChallengeID),
		)
	}
	return nil
}

func (r *Repository) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(submissionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, r.logError("challenge_repo_get_submission_failed", err,
			"submission_id", strings.TrimSpace(submissionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetSubmissionByOwner(
	ctx context.Context,
	challengeID string,
	participantID string,
) (entities.Submission, bool, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", strings.TrimSpace(challengeID)).
		Where("participant_id = ?", strings.TrimSpace(participantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, false, nil
		}
		return entities.Submission{}, false, r.logError("challenge_repo_get_submission_by_owner_failed", err,
			"challenge_id", strings.TrimSpace(challengeID),
			"participant_id", strings.TrimSpace(participantID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListSubmissionsByChallenge(ctx context.Context, challengeID string) ([]entities.Submission, error) {
	var rows []submissionModel
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", strings.TrimSpace(challengeID)).
		Order("seq ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("challenge_repo_list_submissions_failed", err,
			"challenge_id", strings.TrimSpace(challengeID),
		)
	}
	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAtUTC.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("challenge_repo_append_outbox_failed", create.Error,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("challenge_repo_list_pending_outbox_failed", err)
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, outbox.Message{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt.UTC(),
			PublishedAt:  normalizeOptionalTime(row.PublishedAt),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	update := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": &at,
		})
	if update.Error != nil {
		return r.logError("challenge_repo_mark_outbox_published_failed", update.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "challenge-arena/challenge-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("challenge repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

var _ ports.ChallengeRepository = (*Repository)(nil)
var _ ports.SubmissionRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxStore = (*Repository)(nil)
