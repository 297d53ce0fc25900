package testsupport

import (
	"testing"

	"shelf/internal/config"
	"shelf/internal/kv"
)

// MustOpenState opens the sqlite state store for tests and registers
// cleanup.
func MustOpenState(t testing.TB, cfg *config.Config) *kv.Store {
	t.Helper()

	store, err := kv.OpenFromConfig(cfg)
	if err != nil {
		t.Fatalf("kv.OpenFromConfig: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
