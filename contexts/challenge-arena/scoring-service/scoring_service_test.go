package scoringservice

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "codearena/contexts/challenge-arena/scoring-service/domain/errors"
	"codearena/contexts/challenge-arena/scoring-service/ports"
	"codearena/internal/shared/events"
)

type fakeChallengeSource struct {
	challenge   ports.ChallengeView
	submissions []ports.SubmissionView
	applied     map[string][2]int
	feedback    map[string]string
	scoredAt    *time.Time
}

func (f *fakeChallengeSource) GetChallenge(_ context.Context, _ string) (ports.ChallengeView, error) {
	view := f.challenge
	view.ScoredAt = f.scoredAt
	return view, nil
}

func (f *fakeChallengeSource) ListSubmissions(_ context.Context, _ string) ([]ports.SubmissionView, error) {
	return f.submissions, nil
}

func (f *fakeChallengeSource) ApplyAIScore(_ context.Context, submissionID string, aiPoints int, feedback string, total int, _ time.Time) error {
	if f.applied == nil {
		f.applied = make(map[string][2]int)
		f.feedback = make(map[string]string)
	}
	f.applied[submissionID] = [2]int{aiPoints, total}
	f.feedback[submissionID] = feedback
	return nil
}

func (f *fakeChallengeSource) MarkChallengeScored(_ context.Context, _ string, scoredAt time.Time) error {
	f.scoredAt = &scoredAt
	return nil
}

type fakeFetcher struct {
	code     map[string]string
	failures map[string]error
}

func (f fakeFetcher) FetchCode(_ context.Context, location string) (string, error) {
	if err, ok := f.failures[location]; ok {
		return "", err
	}
	return f.code[location], nil
}

type fakeScorer struct {
	scores map[string]ports.AIScore
	errs   map[string]error
}

func (f fakeScorer) ScoreSubmission(_ context.Context, code string, _ string) (ports.AIScore, error) {
	if err, ok := f.errs[code]; ok {
		return ports.AIScore{}, err
	}
	return f.scores[code], nil
}

type fakeLedger struct {
	credits map[string]int
}

func (f *fakeLedger) CreditPoints(_ context.Context, participantID string, points int, _ time.Time) error {
	if f.credits == nil {
		f.credits = make(map[string]int)
	}
	f.credits[participantID] += points
	return nil
}

type fakeAnnouncer struct {
	destination  string
	announcement ports.Announcement
	calls        int
}

func (f *fakeAnnouncer) Announce(_ context.Context, destination string, announcement ports.Announcement) error {
	f.destination = destination
	f.announcement = announcement
	f.calls++
	return nil
}

type fakeDestinations map[string]string

func (f fakeDestinations) DestinationForTier(tier string) (string, bool) {
	destination, ok := f[tier]
	return destination, ok
}

func closedChallengeFixture() *fakeChallengeSource {
	created := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	closedAt := created.Add(72 * time.Hour)
	return &fakeChallengeSource{
		challenge: ports.ChallengeView{
			ChallengeID: "chal-1",
			Title:       "Build a URL shortener",
			Description: "Design and implement a URL shortener.",
			Tier:        "junior",
			Phase:       ports.PhaseClosed,
			ClosedAt:    &closedAt,
		},
		submissions: []ports.SubmissionView{
			{
				SubmissionID:    "sub-a",
				ParticipantID:   "user-a",
				CodeURL:         "https://pastebin.com/raw/aaa",
				CommunityPoints: 45,
				TotalPoints:     45,
				CreatedAt:       created,
			},
			{
				SubmissionID:  "sub-b",
				ParticipantID: "user-b",
				CodeURL:       "https://pastebin.com/raw/bbb",
				JudgePoints:   30,
				TotalPoints:   30,
				CreatedAt:     created.Add(time.Minute),
			},
		},
	}
}

func TestScoreChallengeEndToEnd(t *testing.T) {
	source := closedChallengeFixture()
	ledger := &fakeLedger{}
	announcer := &fakeAnnouncer{}

	module := NewModule(Dependencies{
		Challenges: source,
		Fetcher: fakeFetcher{
			code:     map[string]string{"https://pastebin.com/raw/aaa": "print('a')"},
			failures: map[string]error{"https://pastebin.com/raw/bbb": errors.New("status 404")},
		},
		Scorer: fakeScorer{
			scores: map[string]ports.AIScore{"print('a')": {Points: 3, Justification: "ok"}},
		},
		Ledger:       ledger,
		Announcer:    announcer,
		Destinations: fakeDestinations{"junior": "channel-junior"},
	})

	report, err := module.Orchestrator.ScoreChallenge(context.Background(), "chal-1")
	if err != nil {
		t.Fatalf("score challenge failed: %v", err)
	}

	if len(report.Results) != 2 {
		t.Fatalf("expected two results, got %d", len(report.Results))
	}
	first, second := report.Results[0], report.Results[1]
	if first.SubmissionID != "sub-a" || first.TotalPoints != 48 || first.Rank != 1 {
		t.Fatalf("unexpected winner: %+v", first)
	}
	if second.SubmissionID != "sub-b" || second.TotalPoints != 30 || second.Rank != 2 {
		t.Fatalf("unexpected runner-up: %+v", second)
	}
	if second.Scored {
		t.Fatalf("expected fetch failure to leave runner-up unscored")
	}
	if second.AIPoints != 0 {
		t.Fatalf("expected zero ai points on fetch failure, got %d", second.AIPoints)
	}

	if got := source.applied["sub-a"]; got != [2]int{3, 48} {
		t.Fatalf("expected ai=3 total=48 applied for sub-a, got %v", got)
	}
	if got := source.applied["sub-b"]; got != [2]int{0, 30} {
		t.Fatalf("expected ai=0 total=30 applied for sub-b, got %v", got)
	}
	if source.scoredAt == nil {
		t.Fatalf("expected challenge to be marked scored")
	}

	if ledger.credits["user-a"] != 48 || ledger.credits["user-b"] != 30 {
		t.Fatalf("unexpected ledger credits: %v", ledger.credits)
	}

	if announcer.calls != 1 || announcer.destination != "channel-junior" {
		t.Fatalf("expected one announcement to channel-junior, got %d to %q", announcer.calls, announcer.destination)
	}
	if len(announcer.announcement.Fields) != 2 {
		t.Fatalf("expected podium fields for both entries, got %d", len(announcer.announcement.Fields))
	}
}

func TestScoreChallengeRejectsRepeatRuns(t *testing.T) {
	source := closedChallengeFixture()
	module := NewModule(Dependencies{
		Challenges:   source,
		Fetcher:      fakeFetcher{},
		Scorer:       fakeScorer{},
		Ledger:       &fakeLedger{},
		Destinations: fakeDestinations{},
	})
	ctx := context.Background()

	if _, err := module.Orchestrator.ScoreChallenge(ctx, "chal-1"); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	_, err := module.Orchestrator.ScoreChallenge(ctx, "chal-1")
	if !errors.Is(err, domainerrors.ErrAlreadyScored) {
		t.Fatalf("expected already scored rejection, got %v", err)
	}
}

func TestScoreChallengeRequiresClosedPhase(t *testing.T) {
	source := closedChallengeFixture()
	source.challenge.Phase = ports.PhaseVoting

	module := NewModule(Dependencies{
		Challenges: source,
		Fetcher:    fakeFetcher{},
		Scorer:     fakeScorer{},
		Ledger:     &fakeLedger{},
	})
	_, err := module.Orchestrator.ScoreChallenge(context.Background(), "chal-1")
	if !errors.Is(err, domainerrors.ErrChallengeNotClosed) {
		t.Fatalf("expected not-closed rejection, got %v", err)
	}
}

func TestScoreChallengeTreatsOutOfRangeAsFailure(t *testing.T) {
	source := closedChallengeFixture()
	source.submissions = source.submissions[:1]
	ledger := &fakeLedger{}

	module := NewModule(Dependencies{
		Challenges: source,
		Fetcher: fakeFetcher{
			code: map[string]string{"https://pastebin.com/raw/aaa": "print('a')"},
		},
		Scorer: fakeScorer{
			scores: map[string]ports.AIScore{"print('a')": {Points: 9, Justification: "too generous"}},
		},
		Ledger: ledger,
	})

	report, err := module.Orchestrator.ScoreChallenge(context.Background(), "chal-1")
	if err != nil {
		t.Fatalf("score challenge failed: %v", err)
	}
	result := report.Results[0]
	if result.Scored || result.AIPoints != 0 || result.TotalPoints != 45 {
		t.Fatalf("expected out-of-range score to degrade to zero, got %+v", result)
	}
}

func TestScoreChallengeSkipsAnnouncementWithoutDestination(t *testing.T) {
	source := closedChallengeFixture()
	announcer := &fakeAnnouncer{}

	module := NewModule(Dependencies{
		Challenges: source,
		Fetcher: fakeFetcher{
			code: map[string]string{
				"https://pastebin.com/raw/aaa": "a",
				"https://pastebin.com/raw/bbb": "b",
			},
		},
		Scorer:       fakeScorer{},
		Ledger:       &fakeLedger{},
		Announcer:    announcer,
		Destinations: fakeDestinations{"senior": "channel-senior"},
	})

	report, err := module.Orchestrator.ScoreChallenge(context.Background(), "chal-1")
	if err != nil {
		t.Fatalf("score challenge failed: %v", err)
	}
	if report.Announced {
		t.Fatalf("expected announcement to be skipped for unmapped tier")
	}
	if announcer.calls != 0 {
		t.Fatalf("expected no announcement calls, got %d", announcer.calls)
	}
}

func TestConsumerDeduplicatesCloseEvents(t *testing.T) {
	source := closedChallengeFixture()
	ledger := &fakeLedger{}
	eventCh := make(chan events.Envelope, 4)

	module := NewModule(Dependencies{
		Challenges: source,
		Fetcher: fakeFetcher{
			code: map[string]string{
				"https://pastebin.com/raw/aaa": "a",
				"https://pastebin.com/raw/bbb": "b",
			},
		},
		Scorer: fakeScorer{
			scores: map[string]ports.AIScore{
				"a": {Points: 2, Justification: "ok"},
				"b": {Points: 1, Justification: "ok"},
			},
		},
		Ledger: ledger,
		Events: eventCh,
	})

	event := events.Envelope{
		EventID:   "evt-1",
		EventType: events.TypeChallengeClosed,
		EntityID:  "chal-1",
	}
	eventCh <- event
	eventCh <- event
	close(eventCh)

	module.Consumer.Start(context.Background())

	if ledger.credits["user-a"] != 47 || ledger.credits["user-b"] != 31 {
		t.Fatalf("expected a single scoring pass worth of credits, got %v", ledger.credits)
	}
}
