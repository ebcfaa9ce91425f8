package store

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"kanban-cli/internal/api"
	"kanban-cli/internal/api/apitest"
	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"
)

func newBackedStore(t *testing.T) (*Store, *apitest.Backend) {
	t.Helper()
	b := apitest.NewBackend()
	b.AddProject("Alpha", "Alpha", "1234")
	srv := b.Start(t)
	s := New(api.New(api.Options{BaseURL: apitest.BaseURL(srv)}), nil)
	s.SetProject(&model.Project{ID: "Alpha", Name: "Alpha"})
	return s, b
}

func TestLoad_DropsArchivedAndNormalizes(t *testing.T) {
	t.Parallel()
	s, b := newBackedStore(t)
	b.AddCard(model.Card{Title: "wip", Column: "in_progress", ProjectID: "Alpha"})
	b.AddCard(model.Card{Title: "old", Column: model.ColumnArchive, ProjectID: "Alpha"})
	b.AddCard(model.Card{Title: "todo", Column: model.ColumnTodo, ProjectID: "Alpha"})

	cards, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %#v", cards)
	}
	for _, c := range cards {
		if c.Archived() {
			t.Fatalf("archived card leaked into load: %#v", c)
		}
		if c.Title == "wip" && c.Column != model.ColumnInProgress {
			t.Fatalf("in_progress not normalized: %q", c.Column)
		}
	}
	reqs := b.Requests()
	if reqs[0].Path != "/api/cards" || reqs[0].Query != "project_id=Alpha" {
		t.Fatalf("unexpected load request: %#v", reqs[0])
	}
}

func TestCreate_AppearsInTodoAfterReload(t *testing.T) {
	t.Parallel()
	s, b := newBackedStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, model.CardFields{Title: "Fix bug", IssueType: model.IssueBug, Priority: model.PriorityHigh, Column: model.ColumnTodo})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cols := GroupByColumn(s.Cards())
	if len(cols[model.ColumnTodo]) != 1 || cols[model.ColumnTodo][0].Title != "Fix bug" {
		t.Fatalf("todo column: %#v", cols[model.ColumnTodo])
	}
	if len(cols[model.ColumnInProgress]) != 0 {
		t.Fatalf("inprogress should be empty: %#v", cols[model.ColumnInProgress])
	}
	reqs := b.Requests()
	if len(reqs) != 2 || reqs[0].Method != http.MethodPost || reqs[1].Method != http.MethodGet {
		t.Fatalf("expected POST then GET, got %#v", reqs)
	}
}

func TestCreate_ValidationStopsBeforeNetwork(t *testing.T) {
	t.Parallel()
	s, b := newBackedStore(t)

	_, err := s.Create(context.Background(), model.CardFields{Title: "  ", IssueType: model.IssueBug, Priority: model.PriorityHigh, Column: model.ColumnTodo})
	var fe *model.FieldError
	if !errors.As(err, &fe) || fe.Field != "title" {
		t.Fatalf("expected title FieldError, got %v", err)
	}
	if n := len(b.Requests()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestMove_PatchesColumnThenReloads(t *testing.T) {
	t.Parallel()
	s, b := newBackedStore(t)
	ctx := context.Background()
	id := b.AddCard(model.Card{Title: "drag me", Column: model.ColumnTodo, ProjectID: "Alpha"})
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.ResetRequests()

	if err := s.Move(ctx, id, model.ColumnDone); err != nil {
		t.Fatalf("Move: %v", err)
	}
	reqs := b.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected PATCH + GET, got %#v", reqs)
	}
	if reqs[0].Method != http.MethodPatch || reqs[0].Body != `{"column_name":"done"}` {
		t.Fatalf("unexpected patch: %#v", reqs[0])
	}
	if reqs[1].Method != http.MethodGet || reqs[1].Path != "/api/cards" {
		t.Fatalf("expected reload, got %#v", reqs[1])
	}
	cols := GroupByColumn(s.Cards())
	if len(cols[model.ColumnTodo]) != 0 || len(cols[model.ColumnDone]) != 1 {
		t.Fatalf("unexpected columns after move: %#v", cols)
	}
}

func TestMove_RejectsArchiveDestination(t *testing.T) {
	t.Parallel()
	s, b := newBackedStore(t)
	if err := s.Move(context.Background(), 1, model.ColumnArchive); err == nil {
		t.Fatalf("expected error moving to archive")
	}
	if len(b.Requests()) != 0 {
		t.Fatalf("no request expected")
	}
}

func TestArchive_OnlyFromDone(t *testing.T) {
	t.Parallel()
	s, b := newBackedStore(t)
	ctx := context.Background()
	todo := b.AddCard(model.Card{Title: "todo", Column: model.ColumnTodo, ProjectID: "Alpha"})
	done := b.AddCard(model.Card{Title: "done", Column: model.ColumnDone, ProjectID: "Alpha"})
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.ResetRequests()

	if err := s.Archive(ctx, todo); !errors.Is(err, ErrNotArchivable) {
		t.Fatalf("expected ErrNotArchivable, got %v", err)
	}
	if err := s.Archive(ctx, 999); !errors.As(err, new(CardNotLoadedError)) {
		t.Fatalf("expected CardNotLoadedError, got %v", err)
	}
	if len(b.Requests()) != 0 {
		t.Fatalf("refused archive must not hit the network: %#v", b.Requests())
	}

	if err := s.Archive(ctx, done); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if reqs := b.Requests(); reqs[0].Method != http.MethodPost || reqs[0].Path != "/api/cards/2/archive" {
		t.Fatalf("unexpected archive request: %#v", reqs[0])
	}
	if _, ok := s.Card(done); ok {
		t.Fatalf("archived card should be gone from the cache")
	}
	archived, err := s.Archived(ctx)
	if err != nil || len(archived) != 1 || archived[0].ID != done {
		t.Fatalf("Archived = %#v, %v", archived, err)
	}

	if err := s.Restore(ctx, done); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if c, ok := s.Card(done); !ok || c.Column != model.ColumnDone {
		t.Fatalf("restored card = %#v %v", c, ok)
	}
}

func TestDelete_Reloads(t *testing.T) {
	t.Parallel()
	s, b := newBackedStore(t)
	ctx := context.Background()
	id := b.AddCard(model.Card{Title: "x", Column: model.ColumnTodo, ProjectID: "Alpha"})
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(s.Cards()) != 0 {
		t.Fatalf("expected empty cache, got %#v", s.Cards())
	}
}

func TestFailure_LeavesCacheUntouched(t *testing.T) {
	t.Parallel()
	s, b := newBackedStore(t)
	ctx := context.Background()
	id := b.AddCard(model.Card{Title: "x", Column: model.ColumnTodo, ProjectID: "Alpha"})
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	b.FailNext(http.StatusInternalServerError)
	err := s.Move(ctx, id, model.ColumnDone)
	if !api.IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected 500 api error, got %v", err)
	}
	if c, _ := s.Card(id); c.Column != model.ColumnTodo {
		t.Fatalf("cache mutated on failure: %#v", c)
	}

	b.FailNext(http.StatusBadGateway)
	if _, err := s.Load(ctx); err == nil {
		t.Fatalf("expected load error")
	}
	if len(s.Cards()) != 1 {
		t.Fatalf("failed load must keep previous cards")
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	s, _ := newBackedStore(t)
	if _, err := s.Get(context.Background(), 42); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// gatedRepo blocks each ListCards call until its release channel is closed.
type gatedRepo struct {
	CardRepository
	mu    sync.Mutex
	calls []chan []model.Card
	ready chan struct{}
}

func (g *gatedRepo) ListCards(ctx context.Context, _ model.ProjectID) ([]model.Card, error) {
	ch := make(chan []model.Card, 1)
	g.mu.Lock()
	g.calls = append(g.calls, ch)
	g.mu.Unlock()
	g.ready <- struct{}{}
	return <-ch, nil
}

func (g *gatedRepo) release(i int, cards []model.Card) {
	g.mu.Lock()
	ch := g.calls[i]
	g.mu.Unlock()
	ch <- cards
}

func TestLoad_LastCallWins(t *testing.T) {
	t.Parallel()
	repo := &gatedRepo{ready: make(chan struct{}, 2)}
	s := New(repo, nil)
	ctx := context.Background()

	type result struct {
		cards []model.Card
		err   error
	}
	first, second := make(chan result, 1), make(chan result, 1)
	go func() { c, err := s.Load(ctx); first <- result{c, err} }()
	<-repo.ready
	go func() { c, err := s.Load(ctx); second <- result{c, err} }()
	<-repo.ready

	// The newer load finishes first; the older one must then be discarded.
	repo.release(1, []model.Card{{ID: 2, Title: "new", Column: model.ColumnTodo}})
	if r := <-second; r.err != nil || len(r.cards) != 1 {
		t.Fatalf("second load: %#v", r)
	}
	repo.release(0, []model.Card{{ID: 1, Title: "old", Column: model.ColumnTodo}})
	if r := <-first; !errors.Is(r.err, ErrStaleLoad) {
		t.Fatalf("first load should be stale, got %#v", r)
	}
	if cards := s.Cards(); len(cards) != 1 || cards[0].Title != "new" {
		t.Fatalf("cache = %#v", cards)
	}
}

func TestSetProject_DiscardsInFlightLoad(t *testing.T) {
	t.Parallel()
	repo := &gatedRepo{ready: make(chan struct{}, 1)}
	s := New(repo, nil)
	s.SetProject(&model.Project{ID: "Alpha"})

	done := make(chan error, 1)
	go func() { _, err := s.Load(context.Background()); done <- err }()
	<-repo.ready
	s.SetProject(&model.Project{ID: "Beta"})
	repo.release(0, []model.Card{{ID: 1, Title: "alpha card", Column: model.ColumnTodo}})

	if err := <-done; !errors.Is(err, ErrStaleLoad) {
		t.Fatalf("expected stale load after switch, got %v", err)
	}
	if len(s.Cards()) != 0 {
		t.Fatalf("switched project must start empty")
	}
	if p, ok := s.Project(); !ok || p.ID != "Beta" {
		t.Fatalf("project = %#v", p)
	}
}

func TestGroupByDay_SpansInclusiveRange(t *testing.T) {
	t.Parallel()
	d := func(s string) *dates.Date { x := dates.MustParse(s); return &x }
	cards := []model.Card{
		{ID: 1, StartDate: d("2024-01-01"), EndDate: d("2024-01-03")},
		{ID: 2, EndDate: d("2024-01-02")},
		{ID: 3, StartDate: d("2024-01-02"), EndDate: d("2024-01-02")},
	}
	got := GroupByDay(cards)
	if len(got) != 3 {
		t.Fatalf("expected 3 day buckets, got %v", got)
	}
	if len(got["2024-01-02"]) != 2 || len(got["2024-01-01"]) != 1 || len(got["2024-01-03"]) != 1 {
		t.Fatalf("unexpected buckets: %#v", got)
	}
	for _, cs := range got {
		for _, c := range cs {
			if c.ID == 2 {
				t.Fatalf("single-dated card must not be placed")
			}
		}
	}
}
