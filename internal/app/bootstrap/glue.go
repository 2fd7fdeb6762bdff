package bootstrap

import (
	"context"
	"errors"
	"time"

	challengeerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
	challengeports "codearena/contexts/challenge-arena/challenge-service/ports"
	scoringerrors "codearena/contexts/challenge-arena/scoring-service/domain/errors"
	scoringports "codearena/contexts/challenge-arena/scoring-service/ports"
	voteerrors "codearena/contexts/challenge-arena/vote-ledger/domain/errors"
	voteports "codearena/contexts/challenge-arena/vote-ledger/ports"
	leaderboardapp "codearena/contexts/community-experience/leaderboard-service/application"
	"codearena/internal/platform/messaging"
	"codearena/internal/shared/events"

	"github.com/google/uuid"
)

// The adapters below bridge contexts at the composition root so the modules
// themselves never import each other.

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// submissionGateway exposes challenge-service submissions to the vote ledger
// as point snapshots.
type submissionGateway struct {
	challenges  challengeports.ChallengeRepository
	submissions challengeports.SubmissionRepository
}

var _ voteports.SubmissionGateway = submissionGateway{}

func (g submissionGateway) GetSubmission(ctx context.Context, submissionID string) (voteports.SubmissionSnapshot, error) {
	submission, err := g.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, challengeerrors.ErrSubmissionNotFound) {
			return voteports.SubmissionSnapshot{}, voteerrors.ErrSubmissionNotFound
		}
		return voteports.SubmissionSnapshot{}, err
	}
	challenge, err := g.challenges.GetChallenge(ctx, submission.ChallengeID)
	if err != nil {
		return voteports.SubmissionSnapshot{}, err
	}
	return voteports.SubmissionSnapshot{
		SubmissionID:    submission.SubmissionID,
		ChallengeID:     submission.ChallengeID,
		OwnerID:         submission.ParticipantID,
		CommunityPoints: submission.CommunityPoints,
		JudgePoints:     submission.JudgePoints,
		AIPoints:        submission.AIPoints,
		TotalPoints:     submission.TotalPoints,
		ChallengePhase:  string(challenge.Phase),
	}, nil
}

func (g submissionGateway) ApplyPoints(
	ctx context.Context,
	submissionID string,
	community int,
	judge int,
	total int,
	updatedAt time.Time,
) error {
	submission, err := g.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, challengeerrors.ErrSubmissionNotFound) {
			return voteerrors.ErrSubmissionNotFound
		}
		return err
	}
	submission.CommunityPoints = community
	submission.JudgePoints = judge
	submission.TotalPoints = total
	submission.UpdatedAt = updatedAt
	return g.submissions.SaveSubmission(ctx, submission)
}

// challengeSource exposes challenge-service state to the scoring orchestrator
// and writes AI results back through the same repositories.
type challengeSource struct {
	challenges   challengeports.ChallengeRepository
	submissions  challengeports.SubmissionRepository
	participants leaderboardapp.Service
}

var _ scoringports.ChallengeSource = challengeSource{}

func (s challengeSource) GetChallenge(ctx context.Context, challengeID string) (scoringports.ChallengeView, error) {
	challenge, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, challengeerrors.ErrChallengeNotFound) {
			return scoringports.ChallengeView{}, scoringerrors.ErrChallengeNotFound
		}
		return scoringports.ChallengeView{}, err
	}
	return scoringports.ChallengeView{
		ChallengeID: challenge.ChallengeID,
		Title:       challenge.Title,
		Description: challenge.Description,
		Tier:        string(challenge.Tier),
		Phase:       string(challenge.Phase),
		ClosedAt:    challenge.ClosedAt,
		ScoredAt:    challenge.ScoredAt,
	}, nil
}

func (s challengeSource) ListSubmissions(ctx context.Context, challengeID string) ([]scoringports.SubmissionView, error) {
	submissions, err := s.submissions.ListSubmissionsByChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	views := make([]scoringports.SubmissionView, 0, len(submissions))
	for _, submission := range submissions {
		displayName := submission.ParticipantID
		if participant, err := s.participants.GetParticipant(ctx, submission.ParticipantID); err == nil {
			displayName = participant.DisplayName
		}
		views = append(views, scoringports.SubmissionView{
			SubmissionID:    submission.SubmissionID,
			ParticipantID:   submission.ParticipantID,
			DisplayName:     displayName,
			CodeURL:         submission.CodeURL,
			CommunityPoints: submission.CommunityPoints,
			JudgePoints:     submission.JudgePoints,
			AIPoints:        submission.AIPoints,
			TotalPoints:     submission.TotalPoints,
			CreatedAt:       submission.CreatedAt,
		})
	}
	return views, nil
}

func (s challengeSource) ApplyAIScore(
	ctx context.Context,
	submissionID string,
	aiPoints int,
	feedback string,
	total int,
	updatedAt time.Time,
) error {
	submission, err := s.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	submission.AIPoints = aiPoints
	submission.AIFeedback = feedback
	submission.TotalPoints = total
	submission.UpdatedAt = updatedAt
	return s.submissions.SaveSubmission(ctx, submission)
}

func (s challengeSource) MarkChallengeScored(ctx context.Context, challengeID string, scoredAt time.Time) error {
	challenge, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	stamp := scoredAt
	challenge.ScoredAt = &stamp
	challenge.UpdatedAt = scoredAt
	return s.challenges.SaveChallenge(ctx, challenge)
}

// pointsLedger adapts the leaderboard service to the orchestrator's crediting
// port.
type pointsLedger struct {
	leaderboard leaderboardapp.Service
}

var _ scoringports.PointsLedger = pointsLedger{}

func (l pointsLedger) CreditPoints(ctx context.Context, participantID string, points int, creditedAt time.Time) error {
	return l.leaderboard.CreditChallengePoints(ctx, participantID, points, creditedAt)
}

// busAnnouncer publishes result announcements on the announcements topic for
// whatever delivery surface is subscribed there.
type busAnnouncer struct {
	bus     *messaging.Bus
	service string
}

var _ scoringports.Announcer = busAnnouncer{}

func (a busAnnouncer) Announce(ctx context.Context, destination string, announcement scoringports.Announcement) error {
	fields := make([]map[string]any, 0, len(announcement.Fields))
	for _, field := range announcement.Fields {
		fields = append(fields, map[string]any{
			"name":  field.Name,
			"value": field.Value,
		})
	}
	return a.bus.Publish(ctx, events.TopicAnnouncements, events.Envelope{
		EventID:        uuid.NewString(),
		EventType:      events.TypeAnnouncementPosted,
		SourceService:  a.service,
		OccurredAtUTC:  time.Now().UTC(),
		PartitionKey:   destination,
		EntityType:     "announcement",
		EntityID:       destination,
		PayloadVersion: 1,
		Payload: map[string]any{
			"destination": destination,
			"title":       announcement.Title,
			"body":        announcement.Body,
			"fields":      fields,
		},
	})
}
