package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
	"codearena/internal/shared/events"
	"codearena/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   outbox.Message
	seq       int
	published bool
}

type Store struct {
	mu sync.RWMutex

	challenges  map[string]entities.Challenge
	submissions map[string]entities.Submission
	// submissionSeq preserves creation order even when timestamps collide.
	submissionSeq map[string]int
	nextSeq       int
	outbox        map[string]outboxRecord
	nextOutboxSeq int
}

func NewStore(seed []entities.Challenge) *Store {
	challenges := make(map[string]entities.Challenge, len(seed))
	for _, challenge := range seed {
		challenges[challenge.ChallengeID] = challenge
	}
	return &Store{
		challenges:    challenges,
		submissions:   make(map[string]entities.Submission),
		submissionSeq: make(map[string]int),
		outbox:        make(map[string]outboxRecord),
	}
}

func (s *Store) SaveChallenge(_ context.Context, challenge entities.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[strings.TrimSpace(challenge.ChallengeID)] = challenge
	return nil
}

func (s *Store) GetChallenge(_ context.Context, challengeID string) (entities.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenge, ok := s.challenges[strings.TrimSpace(challengeID)]
	if !ok {
		return entities.Challenge{}, domainerrors.ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *Store) ListChallenges(_ context.Context) ([]entities.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Challenge, 0, len(s.challenges))
	for _, challenge := range s.challenges {
		items = append(items, challenge)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveSubmission(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(submission.SubmissionID)
	if _, exists := s.submissionSeq[key]; !exists {
		s.nextSeq++
		s.submissionSeq[key] = s.nextSeq
	}
	s.submissions[key] = submission
	return nil
}

func (s *Store) GetSubmission(_ context.Context, submissionID string) (entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	submission, ok := s.submissions[strings.TrimSpace(submissionID)]
	if !ok {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	return submission, nil
}

func (s *Store) GetSubmissionByOwner(
	_ context.Context,
	challengeID string,
	participantID string,
) (entities.Submission, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, submission := range s.submissions {
		if submission.ChallengeID == strings.TrimSpace(challengeID) &&
			submission.ParticipantID == strings.TrimSpace(participantID) {
			return submission, true, nil
		}
	}
	return entities.Submission{}, false, nil
}

func (s *Store) ListSubmissionsByChallenge(_ context.Context, challengeID string) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Submission, 0)
	for _, submission := range s.submissions {
		if submission.ChallengeID == strings.TrimSpace(challengeID) {
			items = append(items, submission)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return s.submissionSeq[items[i].SubmissionID] < s.submissionSeq[items[j].SubmissionID]
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAtUTC.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.nextOutboxSeq++
	s.outbox[outboxID] = outboxRecord{
		message: outbox.Message{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			Status:       outbox.StatusPending,
			CreatedAt:    createdAt,
		},
		seq: s.nextOutboxSeq,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	pending := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		pending = append(pending, row)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].seq < pending[j].seq
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	items := make([]outbox.Message, 0, len(pending))
	for _, row := range pending {
		items = append(items, row.message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	at := publishedAt.UTC()
	row.published = true
	row.message.Status = outbox.StatusPublished
	row.message.PublishedAt = &at
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
