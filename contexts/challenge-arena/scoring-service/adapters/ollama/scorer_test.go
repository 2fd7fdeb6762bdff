package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainerrors "codearena/contexts/challenge-arena/scoring-service/domain/errors"
)

func newOllamaStub(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Errorf("expected stream to be disabled")
		}
		if req.Format != "json" {
			t.Errorf("expected json format, got %q", req.Format)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: response})
	}))
}

func TestScoreSubmission(t *testing.T) {
	server := newOllamaStub(t, "```json\n{\"score\": 4, \"justification\": \"clean and correct\"}\n```")
	defer server.Close()

	scorer := Scorer{
		Client: NewClient(server.URL, 5*time.Second),
		Model:  "codellama:7b",
	}
	score, err := scorer.ScoreSubmission(context.Background(), "print('x')", "write a thing")
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if score.Points != 4 || score.Justification != "clean and correct" {
		t.Fatalf("unexpected score: %+v", score)
	}
}

func TestScoreSubmissionRejectsOutOfRange(t *testing.T) {
	server := newOllamaStub(t, "{\"score\": 11, \"justification\": \"overflow\"}")
	defer server.Close()

	scorer := Scorer{Client: NewClient(server.URL, 5*time.Second), Model: "codellama:7b"}
	_, err := scorer.ScoreSubmission(context.Background(), "code", "desc")
	if !errors.Is(err, domainerrors.ErrScoreOutOfRange) {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

func TestScoreSubmissionRejectsMalformedPayload(t *testing.T) {
	server := newOllamaStub(t, "the model ignored the format instruction")
	defer server.Close()

	scorer := Scorer{Client: NewClient(server.URL, 5*time.Second), Model: "codellama:7b"}
	_, err := scorer.ScoreSubmission(context.Background(), "code", "desc")
	if !errors.Is(err, domainerrors.ErrMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestGenerateChallenge(t *testing.T) {
	server := newOllamaStub(t, "{\"title\": \"Maze runner\", \"description\": \"Solve the maze.\"}")
	defer server.Close()

	generator := Generator{Client: NewClient(server.URL, 5*time.Second), Model: "llama3:8b"}
	title, description, err := generator.GenerateChallenge(context.Background(), "junior", "graphs")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if title != "Maze runner" || description != "Solve the maze." {
		t.Fatalf("unexpected generation: %q %q", title, description)
	}
}
