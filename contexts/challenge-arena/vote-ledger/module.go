package voteledger

import (
	"log/slog"

	httpadapter "codearena/contexts/challenge-arena/vote-ledger/adapters/http"
	"codearena/contexts/challenge-arena/vote-ledger/adapters/memory"
	"codearena/contexts/challenge-arena/vote-ledger/application/commands"
	"codearena/contexts/challenge-arena/vote-ledger/application/queries"
	"codearena/contexts/challenge-arena/vote-ledger/domain/scoring"
	"codearena/contexts/challenge-arena/vote-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Ledger  commands.VoteLedgerUseCase
	Queries queries.VoteQueries
	Store   *memory.Store
}

type Dependencies struct {
	Votes        ports.VoteRepository
	Submissions  ports.SubmissionGateway
	Participants ports.ParticipantRegistry
	Scoring      scoring.Config
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledger := commands.VoteLedgerUseCase{
		Votes:        deps.Votes,
		Submissions:  deps.Submissions,
		Participants: deps.Participants,
		Locks:        commands.NewSubmissionLocks(),
		Scoring:      deps.Scoring,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}
	voteQueries := queries.VoteQueries{
		Votes:       deps.Votes,
		Submissions: deps.Submissions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Ledger:  ledger,
			Queries: voteQueries,
			Logger:  deps.Logger,
		},
		Ledger:  ledger,
		Queries: voteQueries,
	}
}

// NewInMemoryModule wires the ledger against its own in-memory store, which
// also serves as the submission gateway for seeded snapshots.
func NewInMemoryModule(seed []ports.SubmissionSnapshot, logger *slog.Logger) Module {
	store := memory.NewStore()
	for _, snapshot := range seed {
		store.SeedSubmission(snapshot)
	}
	module := NewModule(Dependencies{
		Votes:        store,
		Submissions:  store,
		Participants: store,
		Scoring:      scoring.DefaultConfig(),
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
