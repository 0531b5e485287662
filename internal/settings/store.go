package settings

import (
	"context"
	"errors"
	"strings"
)

// Store persists the settings document.
//
// Backends: Postgres (env DATABASE_URL), a JSON file (path), or in-memory
// (development only).
type Store interface {
	// Load returns the stored document merged over defaults. A store with
	// nothing saved yet returns the defaults.
	Load(ctx context.Context) (Document, error)

	// Save replaces the stored document.
	Save(ctx context.Context, doc Document) error
}

// NewStore picks the best available backend: Postgres > file > in-memory.
// When isProd is true the in-memory fallback is not allowed.
func NewStore(databaseURL, filePath string, isProd bool) (Store, error) {
	if strings.TrimSpace(databaseURL) != "" {
		return newPostgresStore(databaseURL), nil
	}
	if strings.TrimSpace(filePath) != "" {
		return newFileStore(filePath), nil
	}
	if isProd {
		return nil, errors.New("production requires DATABASE_URL or SETTINGS_FILE for settings; in-memory store is not allowed")
	}
	return NewMemoryStore(), nil
}
