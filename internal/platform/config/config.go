package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	CommunityVotePoints int
	JudgeVotePoints     int

	OllamaHost           string
	OllamaModelChallenge string
	OllamaModelAnalysis  string

	CodeFetchTimeout time.Duration
	ScoringTimeout   time.Duration

	Announcements AnnouncementConfig

	WorkerPollInterval time.Duration
}

// AnnouncementConfig maps a difficulty tier to the destination its close
// announcement is delivered to. Resolved once at startup and passed by
// reference into the orchestrator; a missing tier entry is recoverable.
type AnnouncementConfig struct {
	Destinations map[string]string `yaml:"destinations"`
}

func (a AnnouncementConfig) DestinationForTier(tier string) (string, bool) {
	destination, ok := a.Destinations[strings.ToLower(strings.TrimSpace(tier))]
	if !ok || strings.TrimSpace(destination) == "" {
		return "", false
	}
	return destination, true
}

func Load() (Config, error) {
	// Missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "codearena"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	announcements, err := loadAnnouncements(os.Getenv("ANNOUNCEMENT_MAP_FILE"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		CommunityVotePoints: envInt("COMMUNITY_VOTE_POINTS", 15),
		JudgeVotePoints:     envInt("JUDGE_VOTE_POINTS", 30),

		OllamaHost:           envString("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModelChallenge: envString("OLLAMA_MODEL_CHALLENGE", "llama3:8b"),
		OllamaModelAnalysis:  envString("OLLAMA_MODEL_ANALYSIS", "codellama:7b"),

		CodeFetchTimeout: envDuration("CODE_FETCH_TIMEOUT", 30*time.Second),
		ScoringTimeout:   envDuration("SCORING_TIMEOUT", 120*time.Second),

		Announcements: announcements,

		WorkerPollInterval: envDuration("WORKER_POLL_INTERVAL", 2*time.Second),
	}, nil
}

func loadAnnouncements(path string) (AnnouncementConfig, error) {
	cfg := AnnouncementConfig{Destinations: map[string]string{}}
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return AnnouncementConfig{}, fmt.Errorf("read announcement map %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return AnnouncementConfig{}, fmt.Errorf("parse announcement map %s: %w", path, err)
	}
	normalized := make(map[string]string, len(cfg.Destinations))
	for tier, destination := range cfg.Destinations {
		normalized[strings.ToLower(strings.TrimSpace(tier))] = strings.TrimSpace(destination)
	}
	cfg.Destinations = normalized
	return cfg, nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
