package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	challengeservice "codearena/contexts/challenge-arena/challenge-service"
	challengeerrors "codearena/contexts/challenge-arena/challenge-service/domain/errors"
	challengehttp "codearena/contexts/challenge-arena/challenge-service/transport/http"
	voteledger "codearena/contexts/challenge-arena/vote-ledger"
	voteerrors "codearena/contexts/challenge-arena/vote-ledger/domain/errors"
	votehttp "codearena/contexts/challenge-arena/vote-ledger/transport/http"
	leaderboardservice "codearena/contexts/community-experience/leaderboard-service"
	leaderboarderrors "codearena/contexts/community-experience/leaderboard-service/domain/errors"
	leaderboardhttp "codearena/contexts/community-experience/leaderboard-service/transport/http"
	_ "codearena/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	challenges  challengeservice.Module
	votes       voteledger.Module
	leaderboard leaderboardservice.Module
}

func New(
	challenges challengeservice.Module,
	votes voteledger.Module,
	leaderboard leaderboardservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		challenges:  challenges,
		votes:       votes,
		leaderboard: leaderboard,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/arena/v1/challenges", s.handleOpenChallenge)
	s.mux.HandleFunc("POST /api/arena/v1/challenges/generate", s.handleGenerateChallenge)
	s.mux.HandleFunc("GET /api/arena/v1/challenges", s.handleListChallenges)
	s.mux.HandleFunc("GET /api/arena/v1/challenges/{challenge_id}", s.handleGetChallenge)
	s.mux.HandleFunc("POST /api/arena/v1/challenges/{challenge_id}/submissions", s.handleSubmit)
	s.mux.HandleFunc("GET /api/arena/v1/challenges/{challenge_id}/submissions", s.handleListSubmissions)
	s.mux.HandleFunc("POST /api/arena/v1/challenges/{challenge_id}/start-voting", s.handleStartVoting)
	s.mux.HandleFunc("POST /api/arena/v1/challenges/{challenge_id}/close", s.handleCloseChallenge)

	s.mux.HandleFunc("POST /api/arena/v1/votes/community", s.handleCastCommunityVote)
	s.mux.HandleFunc("DELETE /api/arena/v1/votes/community", s.handleRetractCommunityVote)
	s.mux.HandleFunc("POST /api/arena/v1/votes/judge", s.handleCastJudgeVote)
	s.mux.HandleFunc("GET /api/arena/v1/submissions/{submission_id}/score", s.handleGetSubmissionScore)

	s.mux.HandleFunc("GET /api/community/v1/leaderboard", s.handleGetLeaderboard)
	s.mux.HandleFunc("GET /api/community/v1/participants/{participant_id}", s.handleGetParticipant)
}

func (s *Server) handleOpenChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengehttp.OpenChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChallengeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.challenges.Handler.OpenChallengeHandler(r.Context(), req)
	if err != nil {
		writeChallengeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGenerateChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengehttp.GenerateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChallengeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.challenges.Handler.GenerateChallengeHandler(r.Context(), req)
	if err != nil {
		writeChallengeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	resp, err := s.challenges.Handler.ListChallengesHandler(r.Context())
	if err != nil {
		writeChallengeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	resp, err := s.challenges.Handler.GetChallengeHandler(r.Context(), r.PathValue("challenge_id"))
	if err != nil {
		writeChallengeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req challengehttp.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChallengeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.challenges.Handler.SubmitHandler(r.Context(), r.PathValue("challenge_id"), req)
	if err != nil {
		writeChallengeDomainError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Fresh {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.challenges.Handler.ListSubmissionsHandler(r.Context(), r.PathValue("challenge_id"))
	if err != nil {
		writeChallengeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStartVoting(w http.ResponseWriter, r *http.Request) {
	resp, err := s.challenges.Handler.StartVotingHandler(r.Context(), r.PathValue("challenge_id"))
	if err != nil {
		writeChallengeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseChallenge(w http.ResponseWriter, r *http.Request) {
	resp, err := s.challenges.Handler.CloseChallengeHandler(r.Context(), r.PathValue("challenge_id"))
	if err != nil {
		writeChallengeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastCommunityVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.CastCommunityVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.CastCommunityVoteHandler(r.Context(), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetractCommunityVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.RetractCommunityVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.RetractCommunityVoteHandler(r.Context(), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastJudgeVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.CastJudgeVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.CastJudgeVoteHandler(r.Context(), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSubmissionScore(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.GetSubmissionScoreHandler(r.Context(), r.PathValue("submission_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeLeaderboardError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.leaderboard.Handler.GetLeaderboardHandler(r.Context(), query.Get("window"), limit)
	if err != nil {
		writeLeaderboardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	resp, err := s.leaderboard.Handler.GetParticipantHandler(r.Context(), r.PathValue("participant_id"))
	if err != nil {
		writeLeaderboardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeChallengeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, challengeerrors.ErrChallengeNotFound):
		writeChallengeError(w, http.StatusNotFound, "challenge_not_found", err.Error())
	case errors.Is(err, challengeerrors.ErrSubmissionNotFound):
		writeChallengeError(w, http.StatusNotFound, "submission_not_found", err.Error())
	case errors.Is(err, challengeerrors.ErrInvalidChallengeInput):
		writeChallengeError(w, http.StatusBadRequest, "invalid_challenge_input", err.Error())
	case errors.Is(err, challengeerrors.ErrInvalidLocation):
		writeChallengeError(w, http.StatusBadRequest, "invalid_code_location", err.Error())
	case errors.Is(err, challengeerrors.ErrInvalidPhase):
		writeChallengeError(w, http.StatusConflict, "invalid_phase", err.Error())
	case errors.Is(err, challengeerrors.ErrDeadlinePassed):
		writeChallengeError(w, http.StatusConflict, "deadline_passed", err.Error())
	case errors.Is(err, challengeerrors.ErrNoSubmissions):
		writeChallengeError(w, http.StatusConflict, "no_submissions", err.Error())
	case errors.Is(err, challengeerrors.ErrGenerationFailed):
		writeChallengeError(w, http.StatusBadGateway, "generation_failed", err.Error())
	case errors.Is(err, challengeerrors.ErrConflict):
		writeChallengeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeChallengeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrSubmissionNotFound):
		writeVoteError(w, http.StatusNotFound, "submission_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrVoteNotFound):
		writeVoteError(w, http.StatusNotFound, "vote_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrInvalidVoteInput):
		writeVoteError(w, http.StatusBadRequest, "invalid_vote_input", err.Error())
	case errors.Is(err, voteerrors.ErrSelfVote):
		writeVoteError(w, http.StatusForbidden, "self_vote", err.Error())
	case errors.Is(err, voteerrors.ErrVotingClosed):
		writeVoteError(w, http.StatusConflict, "voting_closed", err.Error())
	default:
		writeVoteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLeaderboardDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leaderboarderrors.ErrParticipantNotFound):
		writeLeaderboardError(w, http.StatusNotFound, "participant_not_found", err.Error())
	case errors.Is(err, leaderboarderrors.ErrInvalidWindow):
		writeLeaderboardError(w, http.StatusBadRequest, "invalid_window", err.Error())
	case errors.Is(err, leaderboarderrors.ErrInvalidInput):
		writeLeaderboardError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeLeaderboardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeChallengeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, challengehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeVoteError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeLeaderboardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, leaderboardhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
