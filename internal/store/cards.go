// Package store owns the client's cached card list for the active project.
//
// The cache is never patched locally: every successful mutation is followed by a full reload, so
// the backend stays the source of truth and a failed call leaves the cache untouched.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"kanban-cli/internal/model"
	"kanban-cli/internal/statusutil"

	"github.com/charmbracelet/log"
)

var (
	// ErrStaleLoad is returned by Load when a newer load has already been applied.
	ErrStaleLoad = errors.New("stale load discarded")
	// ErrNotArchivable means the card is not in the done column.
	ErrNotArchivable = errors.New("only done cards can be archived")
)

// CardNotLoadedError is returned when an operation needs a card that isn't in the cache.
type CardNotLoadedError struct {
	ID int64
}

func (e CardNotLoadedError) Error() string {
	return fmt.Sprintf("card %d is not on the board", e.ID)
}

type Store struct {
	repo CardRepository
	log  *log.Logger

	mu      sync.Mutex
	project *model.Project
	cards   []model.Card
	issued  uint64
	applied uint64
}

func New(repo CardRepository, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{repo: repo, log: logger}
}

// SetProject switches the active project. The cache is cleared and loads still in flight for the
// previous project are discarded when they land.
func (s *Store) SetProject(p *model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.project = nil
	} else {
		cp := *p
		s.project = &cp
	}
	s.cards = nil
	s.applied = s.issued
}

func (s *Store) Project() (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return model.Project{}, false
	}
	return *s.project, true
}

func (s *Store) projectID() model.ProjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return ""
	}
	return s.project.ID
}

// Cards returns a copy of the cached, non-archived cards.
func (s *Store) Cards() []model.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Card(nil), s.cards...)
}

// Card looks a card up in the cache.
func (s *Store) Card(id int64) (model.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return model.Card{}, false
}

// Load fetches every card of the active project, drops archived ones, normalises columns and
// replaces the cache. Loads are ticketed: when two overlap, whichever was issued last wins and an
// older completion returns ErrStaleLoad without touching the cache.
func (s *Store) Load(ctx context.Context) ([]model.Card, error) {
	s.mu.Lock()
	s.issued++
	ticket := s.issued
	var pid model.ProjectID
	if s.project != nil {
		pid = s.project.ID
	}
	s.mu.Unlock()

	raw, err := s.repo.ListCards(ctx, pid)
	if err != nil {
		s.log.Error("load cards", "project", pid, "err", err)
		return nil, fmt.Errorf("load cards: %w", err)
	}
	cards := make([]model.Card, 0, len(raw))
	for _, c := range raw {
		c = c.Normalized()
		if c.Column == model.ColumnArchive {
			continue
		}
		cards = append(cards, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket <= s.applied {
		s.log.Debug("discarding stale load", "ticket", ticket, "applied", s.applied)
		return nil, ErrStaleLoad
	}
	s.applied = ticket
	s.cards = cards
	return append([]model.Card(nil), cards...), nil
}

// Create validates f locally, posts it and reloads.
func (s *Store) Create(ctx context.Context, f model.CardFields) (model.Card, error) {
	f = f.Trimmed()
	if err := model.ValidateFields(f); err != nil {
		return model.Card{}, err
	}
	pid := s.projectID()
	card, err := s.repo.CreateCard(ctx, pid, f)
	if err != nil {
		s.log.Error("create card", "project", pid, "title", f.Title, "err", err)
		return model.Card{}, fmt.Errorf("create card: %w", err)
	}
	return card.Normalized(), s.reload(ctx)
}

// Update sends only the fields set in p, then reloads.
func (s *Store) Update(ctx context.Context, id int64, p model.CardPatch) (model.Card, error) {
	if err := model.ValidatePatch(p); err != nil {
		return model.Card{}, err
	}
	pid := s.projectID()
	card, err := s.repo.UpdateCard(ctx, pid, id, p)
	if err != nil {
		s.log.Error("update card", "project", pid, "id", id, "err", err)
		return model.Card{}, fmt.Errorf("update card %d: %w", id, err)
	}
	return card.Normalized(), s.reload(ctx)
}

// Move is the drop handler's update: only column_name is sent.
func (s *Store) Move(ctx context.Context, id int64, to model.Column) error {
	col, err := statusutil.ParseBoardColumn(string(to))
	if err != nil {
		return err
	}
	_, err = s.Update(ctx, id, model.MoveTo(col))
	return err
}

// Archive moves a done card to the archive. Cards in any other column are refused without a
// request.
func (s *Store) Archive(ctx context.Context, id int64) error {
	card, ok := s.Card(id)
	if !ok {
		return CardNotLoadedError{ID: id}
	}
	if !statusutil.IsEndState(card.Column) {
		return ErrNotArchivable
	}
	pid := s.projectID()
	if err := s.repo.ArchiveCard(ctx, pid, id); err != nil {
		s.log.Error("archive card", "project", pid, "id", id, "err", err)
		return fmt.Errorf("archive card %d: %w", id, err)
	}
	return s.reload(ctx)
}

// Restore brings an archived card back to done.
func (s *Store) Restore(ctx context.Context, id int64) error {
	pid := s.projectID()
	if err := s.repo.RestoreCard(ctx, pid, id); err != nil {
		s.log.Error("restore card", "project", pid, "id", id, "err", err)
		return fmt.Errorf("restore card %d: %w", id, err)
	}
	return s.reload(ctx)
}

// Delete removes a card permanently. Callers confirm first.
func (s *Store) Delete(ctx context.Context, id int64) error {
	pid := s.projectID()
	if err := s.repo.DeleteCard(ctx, pid, id); err != nil {
		s.log.Error("delete card", "project", pid, "id", id, "err", err)
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	return s.reload(ctx)
}

// Get fetches a single card fresh from the backend.
func (s *Store) Get(ctx context.Context, id int64) (model.Card, error) {
	pid := s.projectID()
	card, err := s.repo.GetCard(ctx, pid, id)
	if err != nil {
		s.log.Error("get card", "project", pid, "id", id, "err", err)
		return model.Card{}, fmt.Errorf("get card %d: %w", id, err)
	}
	return card.Normalized(), nil
}

// Archived lists the archived cards of the active project. The cache is not touched.
func (s *Store) Archived(ctx context.Context) ([]model.Card, error) {
	pid := s.projectID()
	raw, err := s.repo.ListCards(ctx, pid)
	if err != nil {
		s.log.Error("list archived cards", "project", pid, "err", err)
		return nil, fmt.Errorf("list archived cards: %w", err)
	}
	var out []model.Card
	for _, c := range raw {
		if c.Archived() {
			out = append(out, c.Normalized())
		}
	}
	return out, nil
}

func (s *Store) reload(ctx context.Context) error {
	_, err := s.Load(ctx)
	if errors.Is(err, ErrStaleLoad) {
		return nil
	}
	return err
}
