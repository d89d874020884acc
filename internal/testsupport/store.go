package testsupport

import (
	"path/filepath"
	"testing"

	"datamine/internal/history"
)

// MustOpenHistory opens the store at path, or history.db in a temp dir when
// path is empty, and closes it when the test ends.
func MustOpenHistory(t testing.TB, path string) *history.Store {
	t.Helper()

	if path == "" {
		path = filepath.Join(t.TempDir(), "history.db")
	}
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("open history %s: %v", path, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
