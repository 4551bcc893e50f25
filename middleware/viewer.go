package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const ViewerIDKey contextKey = "viewerID"

const (
	ViewerHeader = "X-Viewer-ID"
	ViewerCookie = "todok_viewer"
)

// ViewerMiddleware identifies the viewer by header, then cookie, and
// issues a fresh cookie when neither is present. It is not authentication;
// it only scopes per-viewer state such as cheers.
func ViewerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(ViewerHeader)
		if id == "" {
			if c, err := r.Cookie(ViewerCookie); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ViewerCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   365 * 24 * 60 * 60,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), ViewerIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetViewerID extracts the viewer id from context
func GetViewerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ViewerIDKey).(string)
	return id, ok && id != ""
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
