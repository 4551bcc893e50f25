package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"todokAPI/internal/types/feed"
	"todokAPI/middleware"
	"todokAPI/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type FeedHandler struct {
	feedService *services.FeedService
	hub         *services.FeedHub
	gate        *CheerGate
	logger      *zap.Logger
}

func NewFeedHandler(feedService *services.FeedService, hub *services.FeedHub, gate *CheerGate, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		hub:         hub,
		gate:        gate,
		logger:      logger,
	}
}

type CheerResponse struct {
	feed.ItemView
	Counted bool `json:"counted"`
}

func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.feedService.List(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	viewerID, _ := middleware.GetViewerID(ctx)
	views := make([]feed.ItemView, len(items))
	for i, item := range items {
		views[i] = feed.ItemView{Item: item, CheeredByMe: h.gate.Has(viewerID, item.ID)}
	}
	respondWithJSON(w, http.StatusOK, views)
}

// Cheer counts at most one cheer per viewer and item. Repeats answer 200
// with counted=false and the current item.
func (h *FeedHandler) Cheer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	viewerID, ok := middleware.GetViewerID(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Viewer not identified")
		return
	}
	id := mux.Vars(r)["id"]

	if !h.gate.TryMark(viewerID, id) {
		items, err := h.feedService.List(ctx)
		if err != nil {
			respondWithServiceError(w, h.logger, err)
			return
		}
		for _, item := range items {
			if item.ID == id {
				respondWithJSON(w, http.StatusOK, CheerResponse{ItemView: feed.ItemView{Item: item, CheeredByMe: true}})
				return
			}
		}
		respondWithServiceError(w, h.logger, services.ErrFeedItemNotFound)
		return
	}

	item, err := h.feedService.Cheer(ctx, id)
	if err != nil {
		h.gate.Unmark(viewerID, id)
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, CheerResponse{ItemView: feed.ItemView{Item: *item, CheeredByMe: true}, Counted: true})
}

func (h *FeedHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("could not upgrade feed connection", zap.Error(err))
		return
	}
	h.hub.Subscribe(conn)
}
