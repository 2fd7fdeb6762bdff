package commands

import (
	"context"
	"strings"
	"time"

	application "codearena/contexts/challenge-arena/challenge-service/application"
	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
	"codearena/internal/shared/events"
)

// AdmitSubmissionCommand upserts a participant's submission for an open
// challenge. The latest submission overwrites the prior one.
type AdmitSubmissionCommand struct {
	ChallengeID   string
	ParticipantID string
	DisplayName   string
	CodeLocation  string
}

type AdmitSubmissionResult struct {
	Submission entities.Submission
	// Fresh is true for a first submission, false for a resubmission.
	Fresh bool
}

func (uc ChallengeUseCase) AdmitSubmission(ctx context.Context, cmd AdmitSubmissionCommand) (AdmitSubmissionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ChallengeID) == "" || strings.TrimSpace(cmd.ParticipantID) == "" {
		return AdmitSubmissionResult{}, domainerrors.ErrInvalidChallengeInput
	}

	challenge, err := uc.Challenges.GetChallenge(ctx, strings.TrimSpace(cmd.ChallengeID))
	if err != nil {
		return AdmitSubmissionResult{}, err
	}
	if challenge.Phase != entities.ChallengePhaseOpen {
		return AdmitSubmissionResult{}, domainerrors.ErrInvalidPhase
	}

	now := uc.now()
	if challenge.DeadlinePassed(now) {
		// Lazy deadline sweep: the late submission is what advances the
		// challenge to voting, there is no timer.
		if err := uc.advanceToVoting(ctx, challenge, now, "deadline_passed"); err != nil {
			return AdmitSubmissionResult{}, err
		}
		logger.Info("challenge advanced to voting on late submission",
			"event", "challenge_deadline_advanced",
			"module", "challenge-arena/challenge-service",
			"layer", "application",
			"challenge_id", challenge.ChallengeID,
			"participant_id", strings.TrimSpace(cmd.ParticipantID),
		)
		return AdmitSubmissionResult{}, domainerrors.ErrDeadlinePassed
	}

	if !entities.IsFetchableLocation(cmd.CodeLocation) {
		return AdmitSubmissionResult{}, domainerrors.ErrInvalidLocation
	}

	if uc.Participants != nil {
		if err := uc.Participants.EnsureParticipant(ctx, strings.TrimSpace(cmd.ParticipantID), strings.TrimSpace(cmd.DisplayName)); err != nil {
			return AdmitSubmissionResult{}, err
		}
	}

	existing, found, err := uc.Submissions.GetSubmissionByOwner(ctx, challenge.ChallengeID, strings.TrimSpace(cmd.ParticipantID))
	if err != nil {
		return AdmitSubmissionResult{}, err
	}
	if found {
		existing.CodeURL = strings.TrimSpace(cmd.CodeLocation)
		existing.UpdatedAt = now
		if err := uc.Submissions.SaveSubmission(ctx, existing); err != nil {
			return AdmitSubmissionResult{}, err
		}
		logger.Info("submission updated",
			"event", "submission_updated",
			"module", "challenge-arena/challenge-service",
			"layer", "application",
			"challenge_id", challenge.ChallengeID,
			"submission_id", existing.SubmissionID,
			"participant_id", existing.ParticipantID,
		)
		return AdmitSubmissionResult{Submission: existing}, nil
	}

	submissionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return AdmitSubmissionResult{}, err
	}
	submission := entities.Submission{
		SubmissionID:  submissionID,
		ChallengeID:   challenge.ChallengeID,
		ParticipantID: strings.TrimSpace(cmd.ParticipantID),
		CodeURL:       strings.TrimSpace(cmd.CodeLocation),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.Submissions.SaveSubmission(ctx, submission); err != nil {
		return AdmitSubmissionResult{}, err
	}

	logger.Info("submission admitted",
		"event", "submission_admitted",
		"module", "challenge-arena/challenge-service",
		"layer", "application",
		"challenge_id", challenge.ChallengeID,
		"submission_id", submission.SubmissionID,
		"participant_id", submission.ParticipantID,
	)
	return AdmitSubmissionResult{Submission: submission, Fresh: true}, nil
}

func (uc ChallengeUseCase) advanceToVoting(
	ctx context.Context,
	challenge entities.Challenge,
	now time.Time,
	reason string,
) error {
	if !challenge.CanTransition(entities.ChallengePhaseVoting) {
		return domainerrors.ErrInvalidPhase
	}
	challenge.Phase = entities.ChallengePhaseVoting
	challenge.VotingStartedAt = &now
	challenge.UpdatedAt = now
	if err := uc.Challenges.SaveChallenge(ctx, challenge); err != nil {
		return err
	}
	return uc.appendLifecycleEvent(ctx, events.TypeChallengeVotingOpened, challenge, now, map[string]any{
		"reason": reason,
	})
}
