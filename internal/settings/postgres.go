package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/db"
)

// postgresStore keeps the document as one jsonb row.
// Table `app_settings` must exist (see migrations):
//
//	CREATE TABLE app_settings (
//	    id         int PRIMARY KEY DEFAULT 1 CHECK (id = 1),
//	    document   jsonb NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);
type postgresStore struct {
	dsn string

	// pool is lazily initialised on first use; mu keeps concurrent
	// handlers from opening two pools.
	mu   sync.Mutex
	pool *pgxpool.Pool
}

func newPostgresStore(dsn string) *postgresStore {
	return &postgresStore{dsn: dsn}
}

func (s *postgresStore) ensurePool(ctx context.Context) (*pgxpool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool == nil {
		pool, err := db.OpenDSN(ctx, s.dsn)
		if err != nil {
			return nil, err
		}
		s.pool = pool
	}
	return s.pool, nil
}

func (s *postgresStore) Load(ctx context.Context) (Document, error) {
	pool, err := s.ensurePool(ctx)
	if err != nil {
		return Document{}, err
	}

	var raw []byte
	err = pool.QueryRow(ctx, `SELECT document FROM app_settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("settings: load: %w", err)
	}
	return Merge(Defaults(), raw)
}

func (s *postgresStore) Save(ctx context.Context, doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	pool, err := s.ensurePool(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}

	const q = `INSERT INTO app_settings (id, document, updated_at)
	           VALUES (1, $1, now())
	           ON CONFLICT (id) DO UPDATE SET document = $1, updated_at = now()`
	if _, err := pool.Exec(ctx, q, raw); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}
