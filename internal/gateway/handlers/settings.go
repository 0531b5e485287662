package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/api"
	"github.com/louixani-inc/lx-movie-app-dev/internal/settings"
)

const maxSettingsBody = 1 << 20

// GetSettings handles GET /api/settings
func GetSettings(store settings.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Load(r.Context())
		if err != nil {
			log.Error("settings load failed", zap.Error(err))
			api.Internal(w, "Failed to load settings")
			return
		}
		api.WriteJSON(w, http.StatusOK, doc)
	}
}

// PutSettings handles PUT /api/settings. The body may be partial; it merges
// over the stored document.
func PutSettings(store settings.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxSettingsBody))
		if err != nil {
			api.BadRequest(w, "Invalid request body")
			return
		}

		current, err := store.Load(r.Context())
		if err != nil {
			log.Error("settings load failed", zap.Error(err))
			api.Internal(w, "Failed to load settings")
			return
		}
		doc, err := settings.Merge(current, raw)
		if err != nil {
			api.BadRequest(w, "Invalid settings document")
			return
		}
		if err := store.Save(r.Context(), doc); err != nil {
			log.Error("settings save failed", zap.Error(err))
			api.Internal(w, "Failed to save settings")
			return
		}
		api.WriteJSON(w, http.StatusOK, doc)
	}
}

// ResetSettings handles POST /api/settings/reset
func ResetSettings(store settings.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := settings.Defaults()
		if err := store.Save(r.Context(), doc); err != nil {
			log.Error("settings reset failed", zap.Error(err))
			api.Internal(w, "Failed to reset settings")
			return
		}
		api.WriteJSON(w, http.StatusOK, doc)
	}
}

// ExportSettings handles GET /api/settings/export
func ExportSettings(store settings.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Load(r.Context())
		if err != nil {
			log.Error("settings load failed", zap.Error(err))
			api.Internal(w, "Failed to load settings")
			return
		}
		raw, err := doc.Export()
		if err != nil {
			api.Internal(w, "Failed to export settings")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="settings.json"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	}
}

// ImportSettings handles POST /api/settings/import. Accepts either a raw
// exported document or {"settings": {...}}.
func ImportSettings(store settings.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxSettingsBody))
		if err != nil {
			api.BadRequest(w, "Invalid request body")
			return
		}
		var wrapped struct {
			Settings json.RawMessage `json:"settings"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Settings) > 0 {
			raw = wrapped.Settings
		}

		doc, err := settings.Import(raw)
		if err != nil {
			if errors.Is(err, settings.ErrInvalidDocument) {
				api.BadRequest(w, "Invalid settings document")
				return
			}
			api.Internal(w, "Failed to import settings")
			return
		}
		if err := store.Save(r.Context(), doc); err != nil {
			log.Error("settings import save failed", zap.Error(err))
			api.Internal(w, "Failed to save settings")
			return
		}
		api.WriteJSON(w, http.StatusOK, doc)
	}
}
