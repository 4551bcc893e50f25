package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"todokAPI/internal/types/challenge"
	"todokAPI/internal/types/feed"
	"todokAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	userService      *services.UserService
	dispatcher       *services.EncouragementDispatcher
	logger           *zap.Logger
}

func NewChallengeHandler(challengeService *services.ChallengeService, userService *services.UserService, dispatcher *services.EncouragementDispatcher, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		userService:      userService,
		dispatcher:       dispatcher,
		logger:           logger,
	}
}

type CompleteResponse struct {
	*services.CompletionResult
	Encouragement services.Toast `json:"encouragement"`
}

type ReflectResponse struct {
	Challenge *challenge.Challenge `json:"challenge"`
	FeedItem  *feed.Item           `json:"feedItem,omitempty"`
}

// RequireActive answers 423 while the user is resting; challenge
// interaction is suspended until rest mode is turned off. The check is
// best-effort: a toggle landing between it and the mutation is not seen.
func (h *ChallengeHandler) RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := h.userService.GetUser(r.Context())
		if err != nil {
			respondWithServiceError(w, h.logger, err)
			return
		}
		if u.IsRestMode {
			respondWithError(w, http.StatusLocked, "Rest mode is on")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	board, err := h.challengeService.Board(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, board)
}

func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req challenge.CreateChallengeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.challengeService.Create(ctx, req.Title, req.Category)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, c)
}

// Complete answers as soon as the reward is saved. The encouragement is
// fetched in the background and polled through /encouragement.
func (h *ChallengeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := mux.Vars(r)["id"]
	res, err := h.challengeService.Complete(ctx, id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	toast := h.dispatcher.Dispatch(res.Challenge.ID, res.Challenge.Title)
	respondWithJSON(w, http.StatusOK, CompleteResponse{CompletionResult: res, Encouragement: toast})
}

func (h *ChallengeHandler) Reflect(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req challenge.ReflectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := mux.Vars(r)["id"]
	c, item, err := h.challengeService.Reflect(ctx, id, req.Text, h.challengeService.PolicyFor(req.Publish))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ReflectResponse{Challenge: c, FeedItem: item})
}
