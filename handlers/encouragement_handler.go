package handlers

import (
	"context"
	"net/http"
	"time"

	"todokAPI/services"
)

type Suggester interface {
	SuggestChallenge(ctx context.Context) string
}

type EncouragementHandler struct {
	board     *services.EncouragementBoard
	suggester Suggester
}

func NewEncouragementHandler(board *services.EncouragementBoard, suggester Suggester) *EncouragementHandler {
	return &EncouragementHandler{board: board, suggester: suggester}
}

func (h *EncouragementHandler) Current(w http.ResponseWriter, r *http.Request) {
	toast, ok := h.board.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, toast)
}

func (h *EncouragementHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.board.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

func (h *EncouragementHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	respondWithJSON(w, http.StatusOK, map[string]string{"title": h.suggester.SuggestChallenge(ctx)})
}
