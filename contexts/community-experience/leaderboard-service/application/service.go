package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	domainerrors "codearena/contexts/community-experience/leaderboard-service/domain/errors"
	"codearena/contexts/community-experience/leaderboard-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

// EnsureParticipant registers a participant on first interaction. An existing
// participant keeps their counters; a non-empty display name refreshes the
// stored one.
func (s Service) EnsureParticipant(ctx context.Context, participantID string, displayName string) error {
	id := strings.TrimSpace(participantID)
	if id == "" {
		return domainerrors.ErrInvalidInput
	}

	existing, found, err := s.Repo.GetParticipant(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	name := strings.TrimSpace(displayName)
	if found {
		if name == "" || name == existing.DisplayName {
			return nil
		}
		existing.DisplayName = name
		existing.UpdatedAt = now
		return s.Repo.UpsertParticipant(ctx, existing)
	}

	return s.Repo.UpsertParticipant(ctx, ports.Participant{
		ParticipantID: id,
		DisplayName:   name,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

// CreditChallengePoints adds a challenge's final total to the participant's
// all-time, month, and week counters.
func (s Service) CreditChallengePoints(ctx context.Context, participantID string, points int, creditedAt time.Time) error {
	id := strings.TrimSpace(participantID)
	if id == "" || points < 0 {
		return domainerrors.ErrInvalidInput
	}
	if err := s.EnsureParticipant(ctx, id, ""); err != nil {
		return err
	}
	if points == 0 {
		return nil
	}
	if err := s.Repo.CreditPoints(ctx, id, points, creditedAt.UTC()); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("participant points credited",
			"event", "leaderboard_points_credited",
			"module", "community-experience/leaderboard-service",
			"layer", "application",
			"participant_id", id,
			"points", points,
		)
	}
	return nil
}

func (s Service) GetParticipant(ctx context.Context, participantID string) (ports.Participant, error) {
	participant, found, err := s.Repo.GetParticipant(ctx, strings.TrimSpace(participantID))
	if err != nil {
		return ports.Participant{}, err
	}
	if !found {
		return ports.Participant{}, domainerrors.ErrParticipantNotFound
	}
	return participant, nil
}

// TopN returns the leaderboard for a window, sorted descending by the window
// counter. Ties are broken by participant id so repeated queries are
// reproducible.
func (s Service) TopN(ctx context.Context, window string, n int) ([]ports.Participant, error) {
	counter, err := windowCounter(window)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = 10
	}

	participants, err := s.Repo.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(participants, func(i, j int) bool {
		left, right := counter(participants[i]), counter(participants[j])
		if left == right {
			return participants[i].ParticipantID < participants[j].ParticipantID
		}
		return left > right
	})
	if len(participants) > n {
		participants = participants[:n]
	}
	return participants, nil
}

func windowCounter(window string) (func(ports.Participant) int, error) {
	switch strings.ToLower(strings.TrimSpace(window)) {
	case ports.WindowWeek:
		return func(p ports.Participant) int { return p.WeekPoints }, nil
	case ports.WindowMonth:
		return func(p ports.Participant) int { return p.MonthPoints }, nil
	case ports.WindowAllTime, "":
		return func(p ports.Participant) int { return p.AllTimePoints }, nil
	default:
		return nil, domainerrors.ErrInvalidWindow
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
