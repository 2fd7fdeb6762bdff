package challengeservice

import (
	"log/slog"

	httpadapter "codearena/contexts/challenge-arena/challenge-service/adapters/http"
	"codearena/contexts/challenge-arena/challenge-service/adapters/memory"
	"codearena/contexts/challenge-arena/challenge-service/application/commands"
	"codearena/contexts/challenge-arena/challenge-service/application/queries"
	"codearena/contexts/challenge-arena/challenge-service/domain/entities"
	"codearena/contexts/challenge-arena/challenge-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	Challenges commands.ChallengeUseCase
	Queries    queries.ChallengeQueries
	Store      *memory.Store
}

type Dependencies struct {
	Challenges   ports.ChallengeRepository
	Submissions  ports.SubmissionRepository
	Outbox       ports.OutboxWriter
	Generator    ports.ChallengeGenerator
	Participants ports.ParticipantRegistry
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	lifecycle := commands.ChallengeUseCase{
		Challenges:   deps.Challenges,
		Submissions:  deps.Submissions,
		Outbox:       deps.Outbox,
		Generator:    deps.Generator,
		Participants: deps.Participants,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}
	challengeQueries := queries.ChallengeQueries{
		Challenges:  deps.Challenges,
		Submissions: deps.Submissions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Challenges: lifecycle,
			Queries:    challengeQueries,
			Logger:     deps.Logger,
		},
		Challenges: lifecycle,
		Queries:    challengeQueries,
	}
}

func NewInMemoryModule(seed []entities.Challenge, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Challenges:  store,
		Submissions: store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
