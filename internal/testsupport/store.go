package testsupport

import (
	"context"
	"testing"

	"tikvault/internal/config"
	"tikvault/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedAuthor inserts an author record for tests.
func SeedAuthor(t testing.TB, st store.Store, id, handle, nickname string) {
	t.Helper()

	author := &store.AuthorRecord{
		ID:        id,
		Handles:   []string{handle},
		Nicknames: []string{nickname},
	}
	if err := st.UpsertAuthor(context.Background(), author); err != nil {
		t.Fatalf("UpsertAuthor: %v", err)
	}
}

// SeedVideo inserts a video record for tests and returns it.
func SeedVideo(t testing.TB, st store.Store, video store.VideoRecord) *store.VideoRecord {
	t.Helper()

	if err := st.UpsertVideo(context.Background(), &video); err != nil {
		t.Fatalf("UpsertVideo: %v", err)
	}
	return &video
}
