package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"codearena/contexts/challenge-arena/scoring-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/scoring-service/domain/errors"
	"codearena/contexts/challenge-arena/scoring-service/ports"
)

const (
	minAIScore         = 0
	maxAIScore         = 5
	justificationLimit = 500

	fetchFailureFeedback = "unscored: submission code could not be retrieved"
	scoreFailureFeedback = "unscored: the scorer returned an unusable response"
)

// Orchestrator drives the close-of-voting workflow: fetch each submission's
// code, ask the AI scorer for a bounded score, merge AI points into totals,
// rank, credit cumulative ledgers, and announce the podium. A single
// submission's failure never aborts the batch.
type Orchestrator struct {
	Challenges   ports.ChallengeSource
	Fetcher      ports.CodeFetcher
	Scorer       ports.AIScorer
	Ledger       ports.PointsLedger
	Announcer    ports.Announcer
	Destinations ports.DestinationResolver
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (o Orchestrator) ScoreChallenge(ctx context.Context, challengeID string) (entities.ChallengeReport, error) {
	logger := ResolveLogger(o.Logger)

	challenge, err := o.Challenges.GetChallenge(ctx, strings.TrimSpace(challengeID))
	if err != nil {
		return entities.ChallengeReport{}, err
	}
	if challenge.Phase != ports.PhaseClosed {
		return entities.ChallengeReport{}, domainerrors.ErrChallengeNotClosed
	}
	if challenge.ScoredAt != nil {
		return entities.ChallengeReport{}, domainerrors.ErrAlreadyScored
	}

	submissions, err := o.Challenges.ListSubmissions(ctx, challenge.ChallengeID)
	if err != nil {
		return entities.ChallengeReport{}, err
	}

	now := o.now()
	results := make([]entities.SubmissionResult, 0, len(submissions))
	for _, submission := range submissions {
		results = append(results, o.scoreSubmission(ctx, challenge, submission, now))
	}

	// Stable sort keeps creation order for equal totals, which makes the
	// ranking deterministic across reruns.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalPoints > results[j].TotalPoints
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	for _, result := range results {
		if err := o.Ledger.CreditPoints(ctx, result.ParticipantID, result.TotalPoints, now); err != nil {
			logger.Error("participant credit failed",
				"event", "scoring_credit_failed",
				"module", "challenge-arena/scoring-service",
				"layer", "application",
				"challenge_id", challenge.ChallengeID,
				"participant_id", result.ParticipantID,
				"points", result.TotalPoints,
				"error", err.Error(),
			)
		}
	}

	announced := o.announce(ctx, challenge, results)

	if err := o.Challenges.MarkChallengeScored(ctx, challenge.ChallengeID, now); err != nil {
		return entities.ChallengeReport{}, err
	}

	logger.Info("challenge scored",
		"event", "challenge_scored",
		"module", "challenge-arena/scoring-service",
		"layer", "application",
		"challenge_id", challenge.ChallengeID,
		"submission_count", len(results),
		"announced", announced,
	)
	return entities.ChallengeReport{
		ChallengeID: challenge.ChallengeID,
		Title:       challenge.Title,
		Tier:        challenge.Tier,
		ScoredAt:    now,
		Results:     results,
		Announced:   announced,
	}, nil
}

func (o Orchestrator) scoreSubmission(
	ctx context.Context,
	challenge ports.ChallengeView,
	submission ports.SubmissionView,
	now time.Time,
) entities.SubmissionResult {
	logger := ResolveLogger(o.Logger)

	displayName := strings.TrimSpace(submission.DisplayName)
	if displayName == "" {
		displayName = submission.ParticipantID
	}
	result := entities.SubmissionResult{
		SubmissionID:    submission.SubmissionID,
		ParticipantID:   submission.ParticipantID,
		DisplayName:     displayName,
		CommunityPoints: submission.CommunityPoints,
		JudgePoints:     submission.JudgePoints,
	}

	aiPoints := 0
	feedback := ""
	scored := false

	code, err := o.Fetcher.FetchCode(ctx, submission.CodeURL)
	if err != nil {
		feedback = fetchFailureFeedback
		result.FailureReason = err.Error()
		logger.Warn("submission code fetch failed",
			"event", "scoring_fetch_failed",
			"module", "challenge-arena/scoring-service",
			"layer", "application",
			"challenge_id", challenge.ChallengeID,
			"submission_id", submission.SubmissionID,
			"error", err.Error(),
		)
	} else {
		score, err := o.Scorer.ScoreSubmission(ctx, code, challenge.Description)
		switch {
		case err != nil:
			feedback = scoreFailureFeedback
			result.FailureReason = err.Error()
			logger.Warn("submission scoring failed",
				"event", "scoring_ai_failed",
				"module", "challenge-arena/scoring-service",
				"layer", "application",
				"challenge_id", challenge.ChallengeID,
				"submission_id", submission.SubmissionID,
				"error", err.Error(),
			)
		case score.Points < minAIScore || score.Points > maxAIScore:
			feedback = scoreFailureFeedback
			result.FailureReason = domainerrors.ErrScoreOutOfRange.Error()
		default:
			aiPoints = score.Points
			feedback = score.Justification
			scored = true
		}
	}

	result.AIPoints = aiPoints
	result.Feedback = feedback
	result.Scored = scored
	result.TotalPoints = submission.CommunityPoints + submission.JudgePoints + aiPoints

	if err := o.Challenges.ApplyAIScore(
		ctx,
		submission.SubmissionID,
		aiPoints,
		feedback,
		result.TotalPoints,
		now,
	); err != nil {
		result.FailureReason = err.Error()
		logger.Error("ai score persistence failed",
			"event", "scoring_apply_failed",
			"module", "challenge-arena/scoring-service",
			"layer", "application",
			"challenge_id", challenge.ChallengeID,
			"submission_id", submission.SubmissionID,
			"error", err.Error(),
		)
	}
	return result
}

func (o Orchestrator) announce(
	ctx context.Context,
	challenge ports.ChallengeView,
	results []entities.SubmissionResult,
) bool {
	logger := ResolveLogger(o.Logger)
	if o.Announcer == nil || o.Destinations == nil {
		return false
	}

	destination, ok := o.Destinations.DestinationForTier(challenge.Tier)
	if !ok {
		logger.Warn("no announcement destination for tier",
			"event", "scoring_announcement_skipped",
			"module", "challenge-arena/scoring-service",
			"layer", "application",
			"challenge_id", challenge.ChallengeID,
			"tier", challenge.Tier,
		)
		return false
	}

	podium := results
	if len(podium) > 3 {
		podium = podium[:3]
	}
	fields := make([]ports.AnnouncementField, 0, len(podium))
	for _, entry := range podium {
		fields = append(fields, ports.AnnouncementField{
			Name: fmt.Sprintf("%s: %s", rankLabel(entry.Rank), entry.DisplayName),
			Value: fmt.Sprintf("%d pts (community %d, judge %d, ai %d)\n%s",
				entry.TotalPoints,
				entry.CommunityPoints,
				entry.JudgePoints,
				entry.AIPoints,
				truncate(entry.Feedback, justificationLimit),
			),
		})
	}

	announcement := ports.Announcement{
		Title:  fmt.Sprintf("Challenge results: %s", challenge.Title),
		Body:   fmt.Sprintf("Tier %s has been scored across %d submissions.", challenge.Tier, len(results)),
		Fields: fields,
	}
	if err := o.Announcer.Announce(ctx, destination, announcement); err != nil {
		logger.Error("announcement delivery failed",
			"event", "scoring_announcement_failed",
			"module", "challenge-arena/scoring-service",
			"layer", "application",
			"challenge_id", challenge.ChallengeID,
			"destination", destination,
			"error", err.Error(),
		)
		return false
	}
	return true
}

func (o Orchestrator) now() time.Time {
	if o.Clock == nil {
		return time.Now().UTC()
	}
	return o.Clock.Now().UTC()
}

func rankLabel(rank int) string {
	switch rank {
	case 1:
		return "1st place"
	case 2:
		return "2nd place"
	case 3:
		return "3rd place"
	default:
		return fmt.Sprintf("%dth place", rank)
	}
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
