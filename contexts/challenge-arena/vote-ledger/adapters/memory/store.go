package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"codearena/contexts/challenge-arena/vote-ledger/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/vote-ledger/domain/errors"
	"codearena/contexts/challenge-arena/vote-ledger/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	// votes is keyed by vote id; ownership preserves the unique
	// (submission, voter, kind) constraint.
	votes       map[string]entities.Vote
	ownership   map[string]string
	submissions map[string]ports.SubmissionSnapshot
}

func NewStore() *Store {
	return &Store{
		votes:       make(map[string]entities.Vote),
		ownership:   make(map[string]string),
		submissions: make(map[string]ports.SubmissionSnapshot),
	}
}

func ownershipKey(submissionID string, voterID string, kind entities.VoteKind) string {
	return submissionID + "|" + voterID + "|" + string(kind)
}

func (s *Store) InsertVote(_ context.Context, vote entities.Vote) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ownershipKey(vote.SubmissionID, vote.VoterID, vote.Kind)
	if _, ok := s.ownership[key]; ok {
		return false, nil
	}
	s.votes[vote.VoteID] = vote
	s.ownership[key] = vote.VoteID
	return true, nil
}

func (s *Store) LookupVoteByMessage(
	_ context.Context,
	voterID string,
	sourceMessageID string,
	kind entities.VoteKind,
) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, vote := range s.votes {
		if vote.VoterID == voterID && vote.SourceMessageID == sourceMessageID && vote.Kind == kind {
			return vote, true, nil
		}
	}
	return entities.Vote{}, false, nil
}

func (s *Store) DeleteVote(_ context.Context, voteID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vote, ok := s.votes[voteID]
	if !ok {
		return false, nil
	}
	delete(s.votes, voteID)
	delete(s.ownership, ownershipKey(vote.SubmissionID, vote.VoterID, vote.Kind))
	return true, nil
}

func (s *Store) CountActiveVotes(_ context.Context, submissionID string, kind entities.VoteKind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, vote := range s.votes {
		if vote.SubmissionID == submissionID && vote.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListVotesBySubmission(_ context.Context, submissionID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.SubmissionID == submissionID {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].VoteID < items[j].VoteID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// SeedSubmission registers a submission snapshot so the store can double as
// the submission gateway in tests and in-memory wiring.
func (s *Store) SeedSubmission(snapshot ports.SubmissionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[snapshot.SubmissionID] = snapshot
}

func (s *Store) GetSubmission(_ context.Context, submissionID string) (ports.SubmissionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.submissions[strings.TrimSpace(submissionID)]
	if !ok {
		return ports.SubmissionSnapshot{}, domainerrors.ErrSubmissionNotFound
	}
	return snapshot, nil
}

func (s *Store) ApplyPoints(
	_ context.Context,
	submissionID string,
	community int,
	judge int,
	total int,
	_ time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.submissions[strings.TrimSpace(submissionID)]
	if !ok {
		return domainerrors.ErrSubmissionNotFound
	}
	snapshot.CommunityPoints = community
	snapshot.JudgePoints = judge
	snapshot.TotalPoints = total
	s.submissions[snapshot.SubmissionID] = snapshot
	return nil
}

func (s *Store) EnsureParticipant(_ context.Context, _ string, _ string) error {
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var (
	_ ports.VoteRepository      = (*Store)(nil)
	_ ports.SubmissionGateway   = (*Store)(nil)
	_ ports.ParticipantRegistry = (*Store)(nil)
)
