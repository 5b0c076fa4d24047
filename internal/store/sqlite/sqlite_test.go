package sqlite

import (
	"context"
	"testing"

	"github.com/vovakirdan/hangrelay/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordActivityAssignsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &store.Activity{Scope: "work", Room: "team_office", ClientID: "7", Name: "alice", Kind: store.ActivityJoined}
	if err := s.RecordActivity(ctx, a); err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("expected ID to be assigned")
	}
	if a.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
}

func TestListActivity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []store.Activity{
		{Scope: "community", Room: "general", ClientID: "1", Kind: store.ActivityJoined},
		{Scope: "community", Room: "general", ClientID: "2", Kind: store.ActivityJoined},
		{Scope: "community", Room: "r2", ClientID: "1", Kind: store.ActivityRejected, Reason: "already_active"},
		{Scope: "community", Room: "general", ClientID: "1", Kind: store.ActivityLeft},
	}
	for i := range seed {
		if err := s.RecordActivity(ctx, &seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	tests := []struct {
		name     string
		room     string
		limit    int
		expected []store.ActivityKind
	}{
		{
			name:     "single room newest first",
			room:     "general",
			expected: []store.ActivityKind{store.ActivityLeft, store.ActivityJoined, store.ActivityJoined},
		},
		{
			name:     "all rooms with limit",
			limit:    2,
			expected: []store.ActivityKind{store.ActivityLeft, store.ActivityRejected},
		},
		{
			name:     "unknown room",
			room:     "ghost",
			expected: []store.ActivityKind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListActivity(ctx, tt.room, tt.limit)
			if err != nil {
				t.Fatalf("ListActivity failed: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d entries, got %d", len(tt.expected), len(got))
			}
			for i, a := range got {
				if a.Kind != tt.expected[i] {
					t.Errorf("entry %d: expected %s, got %s", i, tt.expected[i], a.Kind)
				}
			}
		})
	}

	rejected, err := s.ListActivity(ctx, "r2", 0)
	if err != nil {
		t.Fatalf("ListActivity failed: %v", err)
	}
	if len(rejected) != 1 || rejected[0].Reason != "already_active" {
		t.Fatalf("unexpected rejection entry: %+v", rejected)
	}
}
