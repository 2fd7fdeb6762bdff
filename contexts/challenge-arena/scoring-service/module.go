package scoringservice

import (
	"log/slog"

	"codearena/contexts/challenge-arena/scoring-service/adapters/memory"
	"codearena/contexts/challenge-arena/scoring-service/application"
	"codearena/contexts/challenge-arena/scoring-service/application/workers"
	"codearena/contexts/challenge-arena/scoring-service/ports"
	"codearena/internal/shared/events"
)

type Module struct {
	Orchestrator application.Orchestrator
	Consumer     workers.ChallengeClosedConsumer
}

type Dependencies struct {
	Challenges   ports.ChallengeSource
	Fetcher      ports.CodeFetcher
	Scorer       ports.AIScorer
	Ledger       ports.PointsLedger
	Announcer    ports.Announcer
	Destinations ports.DestinationResolver
	Dedup        ports.EventDedup
	Clock        ports.Clock
	Events       <-chan events.Envelope
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	orchestrator := application.Orchestrator{
		Challenges:   deps.Challenges,
		Fetcher:      deps.Fetcher,
		Scorer:       deps.Scorer,
		Ledger:       deps.Ledger,
		Announcer:    deps.Announcer,
		Destinations: deps.Destinations,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	dedup := deps.Dedup
	if dedup == nil {
		dedup = memory.NewDedup()
	}
	return Module{
		Orchestrator: orchestrator,
		Consumer: workers.ChallengeClosedConsumer{
			Events:       deps.Events,
			Dedup:        dedup,
			Orchestrator: orchestrator,
			Logger:       deps.Logger,
		},
	}
}
