package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"codearena/contexts/community-experience/leaderboard-service/ports"

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

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&participantModel{})
}

func (r *Repository) UpsertParticipant(ctx context.Context, participant ports.Participant) error {
	row := participantModelFromEntity(participant)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"display_name": row.DisplayName,
			"updated_at":   row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("leaderboard_repo_upsert_participant_failed", create.Error,
			"participant_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetParticipant(ctx context.Context, participantID string) (ports.Participant, bool, error) {
	var row participantModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(participantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Participant{}, false, nil
		}
		return ports.Participant{}, false, r.logError("leaderboard_repo_get_participant_failed", err,
			"participant_id", strings.TrimSpace(participantID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreditPoints(ctx context.Context, participantID string, points int, creditedAt time.Time) error {
	update := r.db.WithContext(ctx).
		Model(&participantModel{}).
		Where("id = ?", strings.TrimSpace(participantID)).
		Updates(map[string]any{
			"all_time_points": gorm.Expr("all_time_points + ?", points),
			"month_points":    gorm.Expr("month_points + ?", points),
			"week_points":     gorm.Expr("week_points + ?", points),
			"updated_at":      creditedAt.UTC(),
		})
	if update.Error != nil {
		return r.logError("leaderboard_repo_credit_points_failed", update.Error,
			"participant_id", strings.TrimSpace(participantID),
			"points", points,
		)
	}
	return nil
}

func (r *Repository) ListParticipants(ctx context.Context) ([]ports.Participant, error) {
	var rows []participantModel
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("leaderboard_repo_list_participants_failed", err)
	}
	items := make([]ports.Participant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community-experience/leaderboard-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("leaderboard repository operation failed", fields...)
	return err
}

var _ ports.Repository = (*Repository)(nil)
