package challengeservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"codearena/contexts/challenge-arena/challenge-service/application/workers"
	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	domainerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
	httptransport "codearena/contexts/challenge-arena/challenge-service/transport/http"
	"codearena/internal/platform/messaging"
	"codearena/internal/shared/events"
)

func openTestChallenge(t *testing.T, module Module) httptransport.ChallengeResponse {
	t.Helper()
	challenge, err := module.Handler.OpenChallengeHandler(context.Background(), httptransport.OpenChallengeRequest{
		Title:       "Build a URL shortener",
		Description: "Design and implement a URL shortener with stats.",
		Tier:        "junior",
		Deadline:    time.Now().UTC().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("open challenge failed: %v", err)
	}
	return challenge
}

func TestChallengeLifecycle(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()

	challenge := openTestChallenge(t, module)
	if challenge.Phase != string(entities.ChallengePhaseOpen) {
		t.Fatalf("expected open phase, got %s", challenge.Phase)
	}

	submitted, err := module.Handler.SubmitHandler(ctx, challenge.ChallengeID, httptransport.SubmitRequest{
		ParticipantID: "user-1",
		DisplayName:   "Ada",
		CodeURL:       "https://pastebin.com/abc123",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !submitted.Fresh {
		t.Fatalf("expected first submission to be fresh")
	}

	voting, err := module.Handler.StartVotingHandler(ctx, challenge.ChallengeID)
	if err != nil {
		t.Fatalf("start voting failed: %v", err)
	}
	if voting.Challenge.Phase != string(entities.ChallengePhaseVoting) {
		t.Fatalf("expected voting phase, got %s", voting.Challenge.Phase)
	}
	if len(voting.Submissions) != 1 {
		t.Fatalf("expected one submission in voting set, got %d", len(voting.Submissions))
	}

	closed, err := module.Handler.CloseChallengeHandler(ctx, challenge.ChallengeID)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Phase != string(entities.ChallengePhaseClosed) {
		t.Fatalf("expected closed phase, got %s", closed.Phase)
	}
	if closed.ClosedAt == nil {
		t.Fatalf("expected closed_at to be set")
	}

	_, err = module.Handler.CloseChallengeHandler(ctx, challenge.ChallengeID)
	if !errors.Is(err, domainerrors.ErrInvalidPhase) {
		t.Fatalf("expected invalid phase on double close, got %v", err)
	}
}

func TestChallengeSubmissionUpsert(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	challenge := openTestChallenge(t, module)

	first, err := module.Handler.SubmitHandler(ctx, challenge.ChallengeID, httptransport.SubmitRequest{
		ParticipantID: "user-1",
		DisplayName:   "Ada",
		CodeURL:       "https://pastebin.com/first",
	})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	second, err := module.Handler.SubmitHandler(ctx, challenge.ChallengeID, httptransport.SubmitRequest{
		ParticipantID: "user-1",
		DisplayName:   "Ada",
		CodeURL:       "https://pastebin.com/second",
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if second.Fresh {
		t.Fatalf("expected resubmission to reuse the existing slot")
	}
	if second.Submission.SubmissionID != first.Submission.SubmissionID {
		t.Fatalf("expected stable submission id on resubmit, got %s and %s",
			first.Submission.SubmissionID, second.Submission.SubmissionID)
	}
	if second.Submission.CodeURL != "https://pastebin.com/second" {
		t.Fatalf("expected latest code url to win, got %s", second.Submission.CodeURL)
	}

	listed, err := module.Handler.ListSubmissionsHandler(ctx, challenge.ChallengeID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Items) != 1 {
		t.Fatalf("expected one submission after upsert, got %d", len(listed.Items))
	}
}

func TestChallengeRejectsBadLocation(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	challenge := openTestChallenge(t, module)

	_, err := module.Handler.SubmitHandler(ctx, challenge.ChallengeID, httptransport.SubmitRequest{
		ParticipantID: "user-1",
		DisplayName:   "Ada",
		CodeURL:       "not a url",
	})
	if !errors.Is(err, domainerrors.ErrInvalidLocation) {
		t.Fatalf("expected invalid location error, got %v", err)
	}
}

func TestChallengeDeadlineSweepOnSubmit(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	seed := []entities.Challenge{{
		ChallengeID: "chal-expired",
		Title:       "Expired challenge",
		Description: "Deadline already passed.",
		Tier:        entities.ChallengeTierMid,
		Phase:       entities.ChallengePhaseOpen,
		Deadline:    past,
		CreatedAt:   past.Add(-24 * time.Hour),
		UpdatedAt:   past.Add(-24 * time.Hour),
	}}
	module := NewInMemoryModule(seed, nil)
	ctx := context.Background()

	_, err := module.Handler.SubmitHandler(ctx, "chal-expired", httptransport.SubmitRequest{
		ParticipantID: "user-late",
		DisplayName:   "Late",
		CodeURL:       "https://pastebin.com/late",
	})
	if !errors.Is(err, domainerrors.ErrDeadlinePassed) {
		t.Fatalf("expected deadline passed error, got %v", err)
	}

	swept, err := module.Handler.GetChallengeHandler(ctx, "chal-expired")
	if err != nil {
		t.Fatalf("get after sweep failed: %v", err)
	}
	if swept.Phase != string(entities.ChallengePhaseVoting) {
		t.Fatalf("expected sweep to advance challenge to voting, got %s", swept.Phase)
	}
}

func TestStartVotingRequiresSubmissions(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	challenge := openTestChallenge(t, module)

	_, err := module.Handler.StartVotingHandler(context.Background(), challenge.ChallengeID)
	if !errors.Is(err, domainerrors.ErrNoSubmissions) {
		t.Fatalf("expected no submissions error, got %v", err)
	}
}

func TestOutboxRelayPublishesLifecycleEvents(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	challenge := openTestChallenge(t, module)

	if _, err := module.Handler.SubmitHandler(ctx, challenge.ChallengeID, httptransport.SubmitRequest{
		ParticipantID: "user-1",
		DisplayName:   "Ada",
		CodeURL:       "https://pastebin.com/abc",
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := module.Handler.StartVotingHandler(ctx, challenge.ChallengeID); err != nil {
		t.Fatalf("start voting failed: %v", err)
	}
	if _, err := module.Handler.CloseChallengeHandler(ctx, challenge.ChallengeID); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	bus := messaging.NewBus(nil)
	lifecycle := bus.Subscribe(events.TopicChallengeLifecycle)

	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: bus,
		Clock:     module.Store,
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	var types []string
	for len(lifecycle) > 0 {
		event := <-lifecycle
		types = append(types, event.EventType)
	}
	expected := []string{events.TypeChallengeOpened, events.TypeChallengeVotingOpened, events.TypeChallengeClosed}
	if len(types) != len(expected) {
		t.Fatalf("expected %d lifecycle events, got %d (%v)", len(expected), len(types), types)
	}
	for i, want := range expected {
		if types[i] != want {
			t.Fatalf("expected event %d to be %s, got %s", i, want, types[i])
		}
	}

	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(lifecycle) != 0 {
		t.Fatalf("expected no events on second relay run, got %d", len(lifecycle))
	}
}

func TestGenerateChallengeFailureSurfaces(t *testing.T) {
	module := NewInMemoryModule(nil, nil)

	_, err := module.Handler.GenerateChallengeHandler(context.Background(), httptransport.GenerateChallengeRequest{
		Tier:     "junior",
		Theme:    "concurrency",
		Deadline: time.Now().UTC().Add(48 * time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrGenerationFailed) {
		t.Fatalf("expected generation failure without a generator, got %v", err)
	}
}
