package settings

import (
	"context"
	"sync"
	"testing"
)

// Pool initialisation must be safe when Load and Save race on first use.
func TestPostgresStoreConcurrentFirstUse(t *testing.T) {
	s := newPostgresStore("://not-a-dsn")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Load(context.Background()); err == nil {
				t.Error("Load with a malformed DSN should fail")
			}
			if err := s.Save(context.Background(), Defaults()); err == nil {
				t.Error("Save with a malformed DSN should fail")
			}
		}()
	}
	wg.Wait()
}
