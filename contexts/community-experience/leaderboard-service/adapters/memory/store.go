package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"codearena/contexts/community-experience/leaderboard-service/ports"
)

type Store struct {
	mu           sync.RWMutex
	participants map[string]ports.Participant
}

func NewStore(seed []ports.Participant) *Store {
	participants := make(map[string]ports.Participant, len(seed))
	for _, participant := range seed {
		participants[participant.ParticipantID] = participant
	}
	return &Store{participants: participants}
}

func (s *Store) UpsertParticipant(_ context.Context, participant ports.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[strings.TrimSpace(participant.ParticipantID)] = participant
	return nil
}

func (s *Store) GetParticipant(_ context.Context, participantID string) (ports.Participant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participant, ok := s.participants[strings.TrimSpace(participantID)]
	return participant, ok, nil
}

func (s *Store) CreditPoints(_ context.Context, participantID string, points int, creditedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, ok := s.participants[strings.TrimSpace(participantID)]
	if !ok {
		participant = ports.Participant{
			ParticipantID: strings.TrimSpace(participantID),
			CreatedAt:     creditedAt.UTC(),
		}
	}
	participant.AllTimePoints += points
	participant.MonthPoints += points
	participant.WeekPoints += points
	participant.UpdatedAt = creditedAt.UTC()
	s.participants[participant.ParticipantID] = participant
	return nil
}

func (s *Store) ListParticipants(_ context.Context) ([]ports.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Participant, 0, len(s.participants))
	for _, participant := range s.participants {
		items = append(items, participant)
	}
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Repository = (*Store)(nil)
