package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	challengeservice "codearena/contexts/challenge-arena/challenge-service"
	challengehttp "codearena/contexts/challenge-arena/challenge-service/transport/http"
	voteledger "codearena/contexts/challenge-arena/vote-ledger"
	voteports "codearena/contexts/challenge-arena/vote-ledger/ports"
	votehttp "codearena/contexts/challenge-arena/vote-ledger/transport/http"
	leaderboardservice "codearena/contexts/community-experience/leaderboard-service"
	leaderboardports "codearena/contexts/community-experience/leaderboard-service/ports"
	leaderboardhttp "codearena/contexts/community-experience/leaderboard-service/transport/http"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))

	challenges := challengeservice.NewInMemoryModule(nil, logger)
	votes := voteledger.NewInMemoryModule([]voteports.SubmissionSnapshot{
		{
			SubmissionID:   "sub-1",
			ChallengeID:    "ch-1",
			OwnerID:        "alice",
			ChallengePhase: voteports.PhaseVoting,
		},
	}, logger)
	leaderboard := leaderboardservice.NewInMemoryModule([]leaderboardports.Participant{
		{ParticipantID: "alice", DisplayName: "Alice", AllTimePoints: 90, MonthPoints: 40, WeekPoints: 10},
		{ParticipantID: "bob", DisplayName: "Bob", AllTimePoints: 60, MonthPoints: 55, WeekPoints: 20},
	}, logger)

	server := New(challenges, votes, leaderboard, logger, "")
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestChallengeRoutes(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/arena/v1/challenges", challengehttp.OpenChallengeRequest{
		Title:       "Reverse a linked list",
		Description: "Reverse it in place.",
		Tier:        "junior",
		Deadline:    time.Now().Add(48 * time.Hour),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open challenge status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var challenge challengehttp.ChallengeResponse
	decodeBody(t, resp, &challenge)
	if challenge.ChallengeID == "" || challenge.Phase != "open" {
		t.Fatalf("unexpected challenge response: %+v", challenge)
	}

	resp = postJSON(t, ts, "/api/arena/v1/challenges/"+challenge.ChallengeID+"/submissions", challengehttp.SubmitRequest{
		ParticipantID: "alice",
		DisplayName:   "Alice",
		CodeURL:       "https://pastebin.com/abc123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var submitted challengehttp.SubmitResponse
	decodeBody(t, resp, &submitted)
	if !submitted.Fresh {
		t.Fatalf("first submission should be fresh")
	}

	// Resubmitting replaces the stored location and returns 200.
	resp = postJSON(t, ts, "/api/arena/v1/challenges/"+challenge.ChallengeID+"/submissions", challengehttp.SubmitRequest{
		ParticipantID: "alice",
		DisplayName:   "Alice",
		CodeURL:       "https://pastebin.com/def456",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resubmit status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	resp = postJSON(t, ts, "/api/arena/v1/challenges/"+challenge.ChallengeID+"/start-voting", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start voting status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// Closing from voting succeeds, closing again conflicts.
	resp = postJSON(t, ts, "/api/arena/v1/challenges/"+challenge.ChallengeID+"/close", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()
	resp = postJSON(t, ts, "/api/arena/v1/challenges/"+challenge.ChallengeID+"/close", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second close status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	var conflict challengehttp.ErrorResponse
	decodeBody(t, resp, &conflict)
	if conflict.Code != "invalid_phase" {
		t.Fatalf("second close code = %q, want invalid_phase", conflict.Code)
	}

	resp, err := http.Get(ts.URL + "/api/arena/v1/challenges/missing")
	if err != nil {
		t.Fatalf("GET challenge: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing challenge status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestVoteRoutes(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/arena/v1/votes/community", votehttp.CastCommunityVoteRequest{
		SubmissionID:    "sub-1",
		VoterID:         "bob",
		DisplayName:     "Bob",
		SourceMessageID: "msg-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cast vote status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var cast votehttp.CastVoteResponse
	decodeBody(t, resp, &cast)
	if cast.AlreadyCast || cast.Submission.CommunityPoints != 15 {
		t.Fatalf("unexpected cast response: %+v", cast)
	}

	resp, err := http.Get(ts.URL + "/api/arena/v1/submissions/sub-1/score")
	if err != nil {
		t.Fatalf("GET score: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("score status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var score votehttp.SubmissionScoreResponse
	decodeBody(t, resp, &score)
	if score.CommunityVotes != 1 || score.Submission.TotalPoints != 15 {
		t.Fatalf("unexpected score response: %+v", score)
	}

	// Judges cannot vote for their own submission.
	resp = postJSON(t, ts, "/api/arena/v1/votes/judge", votehttp.CastJudgeVoteRequest{
		SubmissionID: "sub-1",
		JudgeID:      "alice",
		DisplayName:  "Alice",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("self judge vote status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
	var forbidden votehttp.ErrorResponse
	decodeBody(t, resp, &forbidden)
	if forbidden.Code != "self_vote" {
		t.Fatalf("self judge vote code = %q, want self_vote", forbidden.Code)
	}

	resp = postJSON(t, ts, "/api/arena/v1/votes/community", votehttp.CastCommunityVoteRequest{
		SubmissionID:    "missing",
		VoterID:         "bob",
		DisplayName:     "Bob",
		SourceMessageID: "msg-2",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("vote on missing submission status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestLeaderboardRoutes(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/community/v1/leaderboard?window=month&limit=1")
	if err != nil {
		t.Fatalf("GET leaderboard: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var board leaderboardhttp.LeaderboardResponse
	decodeBody(t, resp, &board)
	if board.Window != "month" || len(board.Entries) != 1 {
		t.Fatalf("unexpected leaderboard response: %+v", board)
	}
	if board.Entries[0].ParticipantID != "bob" || board.Entries[0].Points != 55 {
		t.Fatalf("unexpected leaderboard leader: %+v", board.Entries[0])
	}

	resp, err = http.Get(ts.URL + "/api/community/v1/leaderboard?window=decade")
	if err != nil {
		t.Fatalf("GET leaderboard: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown window status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/community/v1/participants/alice")
	if err != nil {
		t.Fatalf("GET participant: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("participant status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var participant leaderboardhttp.ParticipantResponse
	decodeBody(t, resp, &participant)
	if participant.AllTimePoints != 90 {
		t.Fatalf("unexpected participant response: %+v", participant)
	}
}
