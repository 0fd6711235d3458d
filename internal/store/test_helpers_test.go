package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/turing/internal/decide"
	"github.com/roach88/turing/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord decides input with the default machines and converts the
// decision with sequential ids ("<prefix>-0001" for the decision, then one
// per run).
func createTestRecord(t *testing.T, prefix, input string) DecisionRecord {
	t.Helper()
	decision, err := decide.Default().Decide(context.Background(), input)
	if err != nil {
		t.Fatalf("Decide(%q) failed: %v", input, err)
	}
	rec, err := NewDecisionRecord(testutil.NewSequentialIDs(prefix), decision)
	if err != nil {
		t.Fatalf("NewDecisionRecord() failed: %v", err)
	}
	return rec
}
