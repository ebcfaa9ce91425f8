package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "session.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestScope_SetGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestDB(t).Scope("")

	if s.ID() != DefaultScope {
		t.Fatalf("blank scope id = %q", s.ID())
	}
	if _, ok, err := s.Get(ctx, KeyCurrentProject); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, KeyCurrentProject, "a"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, KeyCurrentProject, "b"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, err := s.Get(ctx, KeyCurrentProject); err != nil || !ok || v != "b" {
		t.Fatalf("Get = %q %v %v", v, ok, err)
	}
	if err := s.Delete(ctx, KeyCurrentProject); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, KeyCurrentProject); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestScope_IsolatedAndEnded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := openTestDB(t)
	a, b := d.Scope(NewScopeID()), d.Scope(NewScopeID())
	if a.ID() == b.ID() {
		t.Fatalf("scope ids should differ")
	}

	type proj struct{ ID, Name string }
	if err := a.SetJSON(ctx, KeyCurrentProject, proj{"Alpha", "Alpha"}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got proj
	if ok, err := b.GetJSON(ctx, KeyCurrentProject, &got); err != nil || ok {
		t.Fatalf("scope b should not see a's value: ok=%v err=%v", ok, err)
	}
	if ok, err := a.GetJSON(ctx, KeyCurrentProject, &got); err != nil || !ok || got.ID != "Alpha" {
		t.Fatalf("GetJSON = %#v %v %v", got, ok, err)
	}
	if err := a.End(ctx); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, ok, _ := a.Get(ctx, KeyCurrentProject); ok {
		t.Fatalf("ended scope should be empty")
	}
}

func TestPrune_RemovesIdleScopes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := openTestDB(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }
	if err := d.Scope("old").Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	d.now = func() time.Time { return base.Add(20 * time.Hour) }
	if err := d.Scope("fresh").Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	d.now = func() time.Time { return base.Add(25 * time.Hour) }
	n, err := d.Prune(ctx, IdleTTL)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned %d rows, want 1", n)
	}
	if _, ok, _ := d.Scope("fresh").Get(ctx, "k"); !ok {
		t.Fatalf("fresh scope should survive")
	}
}

func TestOpen_RejectsEmptyPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
