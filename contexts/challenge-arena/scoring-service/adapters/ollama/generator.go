package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	domainerrors "codearena/contexts/challenge-arena/scoring-service/domain/errors"
)

const challengePromptTemplate = `You are a programming challenge coordinator.
Generate a challenge for the %q tier with the theme %q.

Your answer MUST be a JSON object and nothing else.
The JSON must have two keys: "title" and "description".

- "title": a short, creative title (50 characters at most).
- "description": a clear description of the challenge. Use newlines (\n) to format it.`

// Generator drafts challenge titles and descriptions with a general-purpose
// model. It backs the challenge service's generate operation.
type Generator struct {
	Client *Client
	Model  string
}

type challengePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (g Generator) GenerateChallenge(ctx context.Context, tier string, theme string) (string, string, error) {
	prompt := fmt.Sprintf(challengePromptTemplate, tier, theme)

	content, err := g.Client.generate(ctx, g.Model, prompt)
	if err != nil {
		return "", "", err
	}

	var payload challengePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return "", "", domainerrors.ErrMalformedResponse
	}
	if payload.Title == "" || payload.Description == "" {
		return "", "", domainerrors.ErrMalformedResponse
	}
	return payload.Title, payload.Description, nil
}
