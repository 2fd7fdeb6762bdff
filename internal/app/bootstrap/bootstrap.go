package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	challengeservice "codearena/contexts/challenge-arena/challenge-service"
	challengememory "codearena/contexts/challenge-arena/challenge-service/adapters/memory"
	challengepostgres "codearena/contexts/challenge-arena/challenge-service/adapters/postgres"
	challengeworkers "codearena/contexts/challenge-arena/challenge-service/application/workers"
	scoringservice "codearena/contexts/challenge-arena/scoring-service"
	"codearena/contexts/challenge-arena/scoring-service/adapters/httpfetch"
	"codearena/contexts/challenge-arena/scoring-service/adapters/ollama"
	scoringworkers "codearena/contexts/challenge-arena/scoring-service/application/workers"
	voteledger "codearena/contexts/challenge-arena/vote-ledger"
	votememory "codearena/contexts/challenge-arena/vote-ledger/adapters/memory"
	votepostgres "codearena/contexts/challenge-arena/vote-ledger/adapters/postgres"
	"codearena/contexts/challenge-arena/vote-ledger/domain/scoring"
	leaderboardservice "codearena/contexts/community-experience/leaderboard-service"
	leaderboardmemory "codearena/contexts/community-experience/leaderboard-service/adapters/memory"
	leaderboardpostgres "codearena/contexts/community-experience/leaderboard-service/adapters/postgres"
	"codearena/internal/platform/config"
	"codearena/internal/platform/db"
	"codearena/internal/platform/httpserver"
	"codearena/internal/platform/messaging"
	"codearena/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server       *httpserver.Server
	postgres     *db.Postgres
	relay        *challengeworkers.OutboxRelay
	consumer     *scoringworkers.ChallengeClosedConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	relay        challengeworkers.OutboxRelay
	consumer     scoringworkers.ChallengeClosedConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return buildInMemoryAPI(cfg, logger)
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	challengeRepo := challengepostgres.NewRepository(pg.DB, logger)
	voteRepo := votepostgres.NewRepository(pg.DB, logger)
	leaderboardRepo := leaderboardpostgres.NewRepository(pg.DB, logger)
	for _, migrate := range []func() error{
		challengeRepo.AutoMigrate,
		voteRepo.AutoMigrate,
		leaderboardRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			return nil, err
		}
	}

	leaderboardModule := leaderboardservice.NewModule(leaderboardservice.Dependencies{
		Repository: leaderboardRepo,
		Clock:      leaderboardpostgres.SystemClock{},
		Logger:     logger,
	})

	generator := ollama.Generator{
		Client: ollama.NewClient(cfg.OllamaHost, cfg.ScoringTimeout),
		Model:  cfg.OllamaModelChallenge,
	}
	challengeModule := challengeservice.NewModule(challengeservice.Dependencies{
		Challenges:   challengeRepo,
		Submissions:  challengeRepo,
		Outbox:       challengeRepo,
		Generator:    generator,
		Participants: leaderboardModule.Service,
		Clock:        challengepostgres.SystemClock{},
		IDGenerator:  challengepostgres.UUIDGenerator{},
		Logger:       logger,
	})

	voteModule := voteledger.NewModule(voteledger.Dependencies{
		Votes:        voteRepo,
		Submissions:  submissionGateway{challenges: challengeRepo, submissions: challengeRepo},
		Participants: leaderboardModule.Service,
		Scoring: scoring.Config{
			CommunityVotePoints: cfg.CommunityVotePoints,
			JudgeVotePoints:     cfg.JudgeVotePoints,
		},
		Clock:       votepostgres.SystemClock{},
		IDGenerator: votepostgres.UUIDGenerator{},
		Logger:      logger,
	})

	server := httpserver.New(challengeModule, voteModule, leaderboardModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// buildInMemoryAPI wires every module against in-process adapters and runs
// the outbox relay and scoring consumer inside the API process. It is the
// single-binary mode used for local development.
func buildInMemoryAPI(cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	challengeStore := challengememory.NewStore(nil)
	voteStore := votememory.NewStore()
	leaderboardStore := leaderboardmemory.NewStore(nil)
	bus := messaging.NewBus(logger)

	leaderboardModule := leaderboardservice.NewModule(leaderboardservice.Dependencies{
		Repository: leaderboardStore,
		Clock:      leaderboardStore,
		Logger:     logger,
	})

	ollamaClient := ollama.NewClient(cfg.OllamaHost, cfg.ScoringTimeout)
	challengeModule := challengeservice.NewModule(challengeservice.Dependencies{
		Challenges:  challengeStore,
		Submissions: challengeStore,
		Outbox:      challengeStore,
		Generator: ollama.Generator{
			Client: ollamaClient,
			Model:  cfg.OllamaModelChallenge,
		},
		Participants: leaderboardModule.Service,
		Clock:        challengeStore,
		IDGenerator:  challengeStore,
		Logger:       logger,
	})

	voteModule := voteledger.NewModule(voteledger.Dependencies{
		Votes:        voteStore,
		Submissions:  submissionGateway{challenges: challengeStore, submissions: challengeStore},
		Participants: leaderboardModule.Service,
		Scoring: scoring.Config{
			CommunityVotePoints: cfg.CommunityVotePoints,
			JudgeVotePoints:     cfg.JudgeVotePoints,
		},
		Clock:       voteStore,
		IDGenerator: voteStore,
		Logger:      logger,
	})

	scoringModule := scoringservice.NewModule(scoringservice.Dependencies{
		Challenges: challengeSource{
			challenges:   challengeStore,
			submissions:  challengeStore,
			participants: leaderboardModule.Service,
		},
		Fetcher: httpfetch.NewFetcher(cfg.CodeFetchTimeout),
		Scorer: ollama.Scorer{
			Client: ollamaClient,
			Model:  cfg.OllamaModelAnalysis,
		},
		Ledger:       pointsLedger{leaderboard: leaderboardModule.Service},
		Announcer:    busAnnouncer{bus: bus, service: cfg.ServiceName},
		Destinations: cfg.Announcements,
		Clock:        systemClock{},
		Events:       bus.Subscribe(events.TopicChallengeLifecycle),
		Logger:       logger,
	})

	relay := challengeworkers.OutboxRelay{
		Outbox:    challengeStore,
		Publisher: bus,
		Clock:     challengeStore,
		BatchSize: 100,
		Logger:    logger,
	}

	server := httpserver.New(challengeModule, voteModule, leaderboardModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:       server,
		relay:        &relay,
		consumer:     &scoringModule.Consumer,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	challengeRepo := challengepostgres.NewRepository(pg.DB, logger)
	leaderboardRepo := leaderboardpostgres.NewRepository(pg.DB, logger)
	bus := messaging.NewBus(logger)

	leaderboardModule := leaderboardservice.NewModule(leaderboardservice.Dependencies{
		Repository: leaderboardRepo,
		Clock:      leaderboardpostgres.SystemClock{},
		Logger:     logger,
	})

	scoringModule := scoringservice.NewModule(scoringservice.Dependencies{
		Challenges: challengeSource{
			challenges:   challengeRepo,
			submissions:  challengeRepo,
			participants: leaderboardModule.Service,
		},
		Fetcher: httpfetch.NewFetcher(cfg.CodeFetchTimeout),
		Scorer: ollama.Scorer{
			Client: ollama.NewClient(cfg.OllamaHost, cfg.ScoringTimeout),
			Model:  cfg.OllamaModelAnalysis,
		},
		Ledger:       pointsLedger{leaderboard: leaderboardModule.Service},
		Announcer:    busAnnouncer{bus: bus, service: cfg.ServiceName},
		Destinations: cfg.Announcements,
		Clock:        systemClock{},
		Events:       bus.Subscribe(events.TopicChallengeLifecycle),
		Logger:       logger,
	})

	return &WorkerApp{
		postgres: pg,
		relay: challengeworkers.OutboxRelay{
			Outbox:    challengeRepo,
			Publisher: bus,
			Clock:     challengepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		consumer:     scoringModule.Consumer,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.consumer != nil {
		go a.consumer.Start(ctx)
	}
	if a.relay != nil {
		go a.runRelay(ctx)
	}

	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) runRelay(ctx context.Context) {
	interval := a.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// Relay failures are retried on the next tick.
		_ = a.relay.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	go w.consumer.Start(ctx)

	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
	)

	for {
		if err := w.relay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
