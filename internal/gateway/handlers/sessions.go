package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/api"
	"github.com/louixani-inc/lx-movie-app-dev/internal/session"
	"github.com/louixani-inc/lx-movie-app-dev/internal/tmdb"
)

// CreateSession handles POST /api/playback/sessions
func CreateSession(mgr *session.Manager, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts session.CreateOptions
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			api.BadRequest(w, "Invalid request body")
			return
		}
		if opts.MovieID <= 0 {
			api.BadRequest(w, "Movie ID is required")
			return
		}

		s, err := mgr.Create(r.Context(), opts)
		switch {
		case errors.Is(err, session.ErrNoSources):
			api.NotFound(w, "no streaming sources available")
			return
		case errors.Is(err, tmdb.ErrNotFound):
			api.NotFound(w, "Movie not found")
			return
		case errors.Is(err, tmdb.ErrNotConfigured):
			api.Internal(w, "TMDB API key not configured")
			return
		case err != nil:
			log.Error("session create failed", zap.Int("movie_id", opts.MovieID), zap.Error(err))
			api.Internal(w, "Failed to create playback session")
			return
		}
		api.WriteJSON(w, http.StatusCreated, s.Snapshot())
	}
}

func findSession(mgr *session.Manager, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	s, err := mgr.Get(id)
	if err != nil {
		api.NotFound(w, "Playback session not found")
		return nil, false
	}
	return s, true
}

// GetSession handles GET /api/playback/sessions/{sessionID}
func GetSession(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := findSession(mgr, w, r)
		if !ok {
			return
		}
		api.WriteJSON(w, http.StatusOK, s.Snapshot())
	}
}

// SessionEvents handles POST /api/playback/sessions/{sessionID}/events
func SessionEvents(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := findSession(mgr, w, r)
		if !ok {
			return
		}
		var events []session.MediaEvent
		if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
			api.BadRequest(w, "Invalid request body")
			return
		}
		for _, ev := range events {
			if err := s.ApplyEvent(ev); err != nil {
				api.BadRequest(w, err.Error())
				return
			}
		}
		api.WriteJSON(w, http.StatusOK, s.Snapshot())
	}
}

// SessionIntent handles POST /api/playback/sessions/{sessionID}/intent
func SessionIntent(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := findSession(mgr, w, r)
		if !ok {
			return
		}
		var in session.Intent
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			api.BadRequest(w, "Invalid request body")
			return
		}
		if err := s.ApplyIntent(in); err != nil {
			api.Conflict(w, err.Error())
			return
		}
		api.WriteJSON(w, http.StatusOK, s.Snapshot())
	}
}

// DeleteSession handles DELETE /api/playback/sessions/{sessionID}
func DeleteSession(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		if err := mgr.Delete(id); err != nil {
			api.NotFound(w, "Playback session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
