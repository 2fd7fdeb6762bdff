package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codearena/contexts/challenge-arena/scoring-service/ports"
)

const maxCodeBytes = 1 << 20

// Fetcher retrieves externally hosted submission code over HTTP. Pastebin
// links are rewritten to their raw form before fetching.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *Fetcher) FetchCode(ctx context.Context, location string) (string, error) {
	target := normalizeLocation(location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build code request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch code: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCodeBytes))
	if err != nil {
		return "", fmt.Errorf("read code body: %w", err)
	}
	return string(body), nil
}

func normalizeLocation(location string) string {
	target := strings.TrimSpace(location)
	if strings.Contains(target, "pastebin.com") && !strings.Contains(target, "/raw/") {
		target = strings.TrimSuffix(target, "/")
		target = strings.Replace(target, "pastebin.com/", "pastebin.com/raw/", 1)
	}
	return target
}

var _ ports.CodeFetcher = (*Fetcher)(nil)
