package voteledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	domainerrors "codearena/contexts/challenge-arena/vote-ledger/domain/errors"
	"codearena/contexts/challenge-arena/vote-ledger/ports"
	httptransport "codearena/contexts/challenge-arena/vote-ledger/transport/http"
)

func newVotingModule(t *testing.T) Module {
	t.Helper()
	return NewInMemoryModule([]ports.SubmissionSnapshot{
		{
			SubmissionID:   "sub-a",
			ChallengeID:    "chal-1",
			OwnerID:        "user-a",
			ChallengePhase: ports.PhaseVoting,
		},
		{
			SubmissionID:   "sub-b",
			ChallengeID:    "chal-1",
			OwnerID:        "user-b",
			AIPoints:       3,
			TotalPoints:    3,
			ChallengePhase: ports.PhaseVoting,
		},
	}, nil)
}

func TestCommunityVoteIdempotency(t *testing.T) {
	module := newVotingModule(t)
	ctx := context.Background()

	first, err := module.Handler.CastCommunityVoteHandler(ctx, httptransport.CastCommunityVoteRequest{
		SubmissionID:    "sub-a",
		VoterID:         "voter-1",
		SourceMessageID: "msg-1",
	})
	if err != nil {
		t.Fatalf("first cast failed: %v", err)
	}
	if first.AlreadyCast {
		t.Fatalf("expected first cast to be fresh")
	}
	if first.Submission.CommunityPoints != 15 || first.Submission.TotalPoints != 15 {
		t.Fatalf("expected 15 community points after first cast, got %+v", first.Submission)
	}

	second, err := module.Handler.CastCommunityVoteHandler(ctx, httptransport.CastCommunityVoteRequest{
		SubmissionID:    "sub-a",
		VoterID:         "voter-1",
		SourceMessageID: "msg-1",
	})
	if err != nil {
		t.Fatalf("replayed cast failed: %v", err)
	}
	if !second.AlreadyCast {
		t.Fatalf("expected replay to be acknowledged as already cast")
	}

	score, err := module.Handler.GetSubmissionScoreHandler(ctx, "sub-a")
	if err != nil {
		t.Fatalf("score query failed: %v", err)
	}
	if score.CommunityVotes != 1 || score.Submission.CommunityPoints != 15 {
		t.Fatalf("expected points to move exactly once, got %+v", score)
	}
}

func TestRetractNeverCastVote(t *testing.T) {
	module := newVotingModule(t)

	_, err := module.Handler.RetractCommunityVoteHandler(context.Background(), httptransport.RetractCommunityVoteRequest{
		VoterID:         "voter-1",
		SourceMessageID: "msg-unknown",
	})
	if !errors.Is(err, domainerrors.ErrVoteNotFound) {
		t.Fatalf("expected vote not found, got %v", err)
	}
}

func TestCastThenRetractIsNetZero(t *testing.T) {
	module := newVotingModule(t)
	ctx := context.Background()

	if _, err := module.Handler.CastCommunityVoteHandler(ctx, httptransport.CastCommunityVoteRequest{
		SubmissionID:    "sub-b",
		VoterID:         "voter-1",
		SourceMessageID: "msg-1",
	}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}

	retracted, err := module.Handler.RetractCommunityVoteHandler(ctx, httptransport.RetractCommunityVoteRequest{
		VoterID:         "voter-1",
		SourceMessageID: "msg-1",
	})
	if err != nil {
		t.Fatalf("retract failed: %v", err)
	}
	if retracted.Submission.CommunityPoints != 0 {
		t.Fatalf("expected community points back to zero, got %d", retracted.Submission.CommunityPoints)
	}
	// The AI contribution survives the retract and the total stays the sum
	// of its parts.
	if retracted.Submission.TotalPoints != 3 {
		t.Fatalf("expected total to equal remaining ai points, got %d", retracted.Submission.TotalPoints)
	}

	_, err = module.Handler.RetractCommunityVoteHandler(ctx, httptransport.RetractCommunityVoteRequest{
		VoterID:         "voter-1",
		SourceMessageID: "msg-1",
	})
	if !errors.Is(err, domainerrors.ErrVoteNotFound) {
		t.Fatalf("expected duplicate retract to report vote not found, got %v", err)
	}
}

func TestJudgeVoteGuards(t *testing.T) {
	module := newVotingModule(t)
	ctx := context.Background()

	_, err := module.Handler.CastJudgeVoteHandler(ctx, httptransport.CastJudgeVoteRequest{
		SubmissionID: "sub-a",
		JudgeID:      "user-a",
	})
	if !errors.Is(err, domainerrors.ErrSelfVote) {
		t.Fatalf("expected self vote rejection, got %v", err)
	}

	first, err := module.Handler.CastJudgeVoteHandler(ctx, httptransport.CastJudgeVoteRequest{
		SubmissionID: "sub-a",
		JudgeID:      "judge-1",
	})
	if err != nil {
		t.Fatalf("judge vote failed: %v", err)
	}
	if first.Submission.JudgePoints != 30 || first.Submission.TotalPoints != 30 {
		t.Fatalf("expected 30 judge points, got %+v", first.Submission)
	}

	repeat, err := module.Handler.CastJudgeVoteHandler(ctx, httptransport.CastJudgeVoteRequest{
		SubmissionID: "sub-a",
		JudgeID:      "judge-1",
	})
	if err != nil {
		t.Fatalf("repeat judge vote failed: %v", err)
	}
	if !repeat.AlreadyVoted {
		t.Fatalf("expected repeat judge vote to be acknowledged without points")
	}

	score, err := module.Handler.GetSubmissionScoreHandler(ctx, "sub-a")
	if err != nil {
		t.Fatalf("score query failed: %v", err)
	}
	if score.JudgeVotes != 1 || score.Submission.JudgePoints != 30 {
		t.Fatalf("expected a single judge vote worth 30, got %+v", score)
	}
}

func TestJudgeVoteRequiresVotingPhase(t *testing.T) {
	module := NewInMemoryModule([]ports.SubmissionSnapshot{{
		SubmissionID:   "sub-open",
		ChallengeID:    "chal-2",
		OwnerID:        "user-a",
		ChallengePhase: ports.PhaseOpen,
	}}, nil)

	_, err := module.Handler.CastJudgeVoteHandler(context.Background(), httptransport.CastJudgeVoteRequest{
		SubmissionID: "sub-open",
		JudgeID:      "judge-1",
	})
	if !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected phase guard rejection, got %v", err)
	}
}

func TestConcurrentVotesOnSameSubmission(t *testing.T) {
	module := newVotingModule(t)
	ctx := context.Background()

	const voters = 20
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(voter int) {
			defer wg.Done()
			_, err := module.Handler.CastCommunityVoteHandler(ctx, httptransport.CastCommunityVoteRequest{
				SubmissionID:    "sub-a",
				VoterID:         fmt.Sprintf("voter-%d", voter),
				SourceMessageID: fmt.Sprintf("msg-%d", voter),
			})
			if err != nil {
				t.Errorf("concurrent cast failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	score, err := module.Handler.GetSubmissionScoreHandler(ctx, "sub-a")
	if err != nil {
		t.Fatalf("score query failed: %v", err)
	}
	if score.CommunityVotes != voters {
		t.Fatalf("expected %d community votes, got %d", voters, score.CommunityVotes)
	}
	if score.Submission.CommunityPoints != voters*15 {
		t.Fatalf("expected %d community points, got %d", voters*15, score.Submission.CommunityPoints)
	}
	if score.Submission.TotalPoints != score.Submission.CommunityPoints+score.Submission.JudgePoints+score.Submission.AIPoints {
		t.Fatalf("total points out of sync with sub-totals: %+v", score.Submission)
	}
}
