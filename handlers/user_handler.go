package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"todokAPI/internal/progression"
	"todokAPI/internal/types/challenge"
	"todokAPI/internal/types/user"
	"todokAPI/services"
)

type UserHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

type ProfileResponse struct {
	User     user.User            `json:"user"`
	Progress progression.Progress `json:"progress"`
}

func (h *UserHandler) profile(w http.ResponseWriter, code int, u *user.User) {
	respondWithJSON(w, code, ProfileResponse{User: *u, Progress: h.userService.Progress(*u)})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.userService.GetUser(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	h.profile(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.userService.UpdateUser(ctx, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	h.profile(w, http.StatusOK, u)
}

func (h *UserHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.userService.CompleteOnboarding(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	h.profile(w, http.StatusOK, u)
}

func (h *UserHandler) ToggleRestMode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.userService.ToggleRestMode(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	h.profile(w, http.StatusOK, u)
}

func (h *UserHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.userService.Levels())
}

func (h *UserHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, challenge.AllMeta())
}
