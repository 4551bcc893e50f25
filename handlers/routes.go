package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	User          *UserHandler
	Challenge     *ChallengeHandler
	Feed          *FeedHandler
	Encouragement *EncouragementHandler
}

// Register mounts the API on api, which is expected to be the /api/v1
// subrouter with viewer identification applied.
func (h *Handlers) Register(api *mux.Router) {
	api.HandleFunc("/user", h.User.GetProfile).Methods("GET")
	api.HandleFunc("/user", h.User.UpdateProfile).Methods("PUT")
	api.HandleFunc("/user/onboarding", h.User.CompleteOnboarding).Methods("POST")
	api.HandleFunc("/user/rest-mode", h.User.ToggleRestMode).Methods("POST")
	api.HandleFunc("/levels", h.User.GetLevels).Methods("GET")
	api.HandleFunc("/categories", h.User.GetCategories).Methods("GET")

	api.HandleFunc("/challenges", h.Challenge.List).Methods("GET")

	active := api.PathPrefix("").Subrouter()
	active.Use(h.Challenge.RequireActive)
	active.HandleFunc("/challenges", h.Challenge.Create).Methods("POST")
	active.HandleFunc("/challenges/{id}/complete", h.Challenge.Complete).Methods("POST")
	active.HandleFunc("/challenges/{id}/reflection", h.Challenge.Reflect).Methods("PUT")

	api.HandleFunc("/feed", h.Feed.List).Methods("GET")
	api.HandleFunc("/feed/ws", h.Feed.Stream).Methods("GET")
	api.HandleFunc("/feed/{id}/cheer", h.Feed.Cheer).Methods("POST")

	api.HandleFunc("/encouragement", h.Encouragement.Current).Methods("GET")
	api.HandleFunc("/encouragement", h.Encouragement.Dismiss).Methods("DELETE")
	api.HandleFunc("/suggestion", h.Encouragement.Suggestion).Methods("GET")

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found")
	})
}
