package testutil

import (
	"os"
	"testing"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/snapshots"
)

// NewFileStore returns a typed document store rooted in a temp dir, and the dir.
func NewFileStore(t *testing.T) (*snapshots.Store, string) {
	t.Helper()
	dir := t.TempDir()
	return snapshots.NewStore(snapshots.NewFSStore(dir, "")), dir
}

// WriteDocument writes state as the default document under dir.
func WriteDocument(t *testing.T, dir string, state tournament.State) {
	t.Helper()
	data, err := snapshots.Encode(state)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(snapshots.DocumentPath(dir, ""), data, 0o644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
}
