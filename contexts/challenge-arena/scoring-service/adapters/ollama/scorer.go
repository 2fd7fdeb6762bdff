package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	domainerrors "codearena/contexts/challenge-arena/scoring-service/domain/errors"
	"codearena/contexts/challenge-arena/scoring-service/ports"
)

const scorePromptTemplate = `You are a senior judge for a programming challenge.
The challenge was: %q

The submitted code is:
` + "```" + `
%s
` + "```" + `

Review the code for correctness, efficiency, and readability.

Respond ONLY with a JSON object with two keys:
1. "score": an integer from 0 to 5.
2. "justification": a short paragraph (3-4 sentences at most) explaining the score.`

// Scorer grades submission code with a code-analysis model.
type Scorer struct {
	Client *Client
	Model  string
}

type scorePayload struct {
	Score         *int   `json:"score"`
	Justification string `json:"justification"`
}

func (s Scorer) ScoreSubmission(ctx context.Context, code string, challengeDescription string) (ports.AIScore, error) {
	prompt := fmt.Sprintf(scorePromptTemplate, challengeDescription, code)

	content, err := s.Client.generate(ctx, s.Model, prompt)
	if err != nil {
		return ports.AIScore{}, err
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return ports.AIScore{}, domainerrors.ErrMalformedResponse
	}
	if payload.Score == nil {
		return ports.AIScore{}, domainerrors.ErrMalformedResponse
	}
	if *payload.Score < 0 || *payload.Score > 5 {
		return ports.AIScore{}, domainerrors.ErrScoreOutOfRange
	}
	justification := payload.Justification
	if justification == "" {
		justification = "no justification provided"
	}
	return ports.AIScore{
		Points:        *payload.Score,
		Justification: justification,
	}, nil
}

var _ ports.AIScorer = Scorer{}
