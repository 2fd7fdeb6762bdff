package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
	"codearena/contexts/challenge-arena/vote-ledger/ports"

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

// AutoMigrate creates the votes table with the unique
// (submission_id, voter_id, kind) constraint the ledger relies on.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&voteModel{})
}

func (r *Repository) InsertVote(ctx context.Context, vote entities.Vote) (bool, error) {
	row := voteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_id"}, {Name: "voter_id"}, {Name: "kind"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return false, nil
		}
		return false, r.logError("vote_repo_insert_vote_failed", create.Error,
			"submission_id", row.SubmissionID,
			"voter_id", row.VoterID,
			"kind", row.Kind,
		)
	}
	return create.RowsAffected > 0, nil
}

func (r *Repository) LookupVoteByMessage(
	ctx context.Context,
	voterID string,
	sourceMessageID string,
	kind entities.VoteKind,
) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Where("source_message_id = ?", strings.TrimSpace(sourceMessageID)).
		Where("kind = ?", string(kind)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("vote_repo_lookup_by_message_failed", err,
			"voter_id", strings.TrimSpace(voterID),
			"source_message_id", strings.TrimSpace(sourceMessageID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) DeleteVote(ctx context.Context, voteID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		Delete(&voteModel{})
	if result.Error != nil {
		return false, r.logError("vote_repo_delete_vote_failed", result.Error,
			"vote_id", strings.TrimSpace(voteID),
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) CountActiveVotes(ctx context.Context, submissionID string, kind entities.VoteKind) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		Where("kind = ?", string(kind)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("vote_repo_count_votes_failed", err,
			"submission_id", strings.TrimSpace(submissionID),
			"kind", string(kind),
		)
	}
	return int(count), nil
}

func (r *Repository) ListVotesBySubmission(ctx context.Context, submissionID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("vote_repo_list_votes_failed", err,
			"submission_id", strings.TrimSpace(submissionID),
		)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "challenge-arena/vote-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoteRepository = (*Repository)(nil)
