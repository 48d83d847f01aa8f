package snapshots

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
)

func sampleState(t *testing.T) tournament.State {
	t.Helper()
	n := 0
	s, err := tournament.Create(tournament.Settings{Name: "Cup"}, []string{"Lions", "Tigers"}, func() string {
		n++
		return fmt.Sprintf("id%d", n)
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return s
}

func TestFSStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(NewFSStore(dir, ""))
	ctx := context.Background()

	state := sampleState(t)
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cricket_tournament_data.json")); err != nil {
		t.Fatalf("expected document file: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Initialized || len(got.Matches) != 1 || got.Settings.Name != "Cup" {
		t.Fatalf("unexpected state %+v", got)
	}
	if store.Backend() != "file" {
		t.Fatalf("expected file backend, got %s", store.Backend())
	}
}

func TestFSStoreMissingIsNotInitialized(t *testing.T) {
	got, err := NewStore(NewFSStore(t.TempDir(), "")).Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error for missing document, got %v", err)
	}
	if got.Initialized {
		t.Fatalf("expected not-initialized state")
	}
}

func TestFSStoreCorruptedFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cricket_tournament_data.json"), []byte("{bad json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := NewStore(NewFSStore(dir, "")).Load(context.Background())
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("expected corrupted error, got %v", err)
	}
	if got.Initialized || got.Matches == nil {
		t.Fatalf("expected empty fallback state, got %+v", got)
	}
}

func TestFSStoreSkipsUnchangedWrite(t *testing.T) {
	dir := t.TempDir()
	fs := NewFSStore(dir, "doc")
	ctx := context.Background()
	if err := fs.Save(ctx, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(fs.Path(), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := fs.Save(ctx, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(fs.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(old) {
		t.Fatalf("expected unchanged content not to be rewritten")
	}
	if _, err := os.Stat(fs.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected no temp file left behind")
	}
}

func TestFSStoreClear(t *testing.T) {
	fs := NewFSStore(t.TempDir(), "")
	ctx := context.Background()
	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("expected clearing a missing document to succeed, got %v", err)
	}
	_ = fs.Save(ctx, []byte("{}"))
	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := fs.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after clear, got %v", err)
	}
}

func TestFSStoreErrors(t *testing.T) {
	var nilStore *FSStore
	ctx := context.Background()
	if _, err := nilStore.Load(ctx); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if err := nilStore.Save(ctx, nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := NewFSStore(t.TempDir(), "").Save(cancelled, []byte("{}")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled context error, got %v", err)
	}
	var nilDocs *Store
	if _, err := nilDocs.Load(ctx); err == nil {
		t.Fatalf("expected error for unconfigured store")
	}
}

func TestDocumentPath(t *testing.T) {
	if got := DocumentPath("data", ""); got != filepath.Join("data", "cricket_tournament_data.json") {
		t.Fatalf("unexpected default path %s", got)
	}
	if got := DocumentPath("/tmp", "other"); got != filepath.Join("/tmp", "other.json") {
		t.Fatalf("unexpected path %s", got)
	}
}
