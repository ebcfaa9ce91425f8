package tui

import (
	"context"
	"time"

	"kanban-cli/internal/board"
	"kanban-cli/internal/gate"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Every network call runs as a tea.Cmd off the update loop and reports back with a message.

func resumeCmd(g *gate.Gate) tea.Cmd {
	return func() tea.Msg {
		p, ok, err := g.Resume(context.Background())
		return resumeMsg{project: p, ok: ok, err: err}
	}
}

func loadProjectsCmd(g *gate.Gate, switching bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			ps  []model.Project
			err error
		)
		if switching {
			ps, err = g.Switch(ctx)
		} else {
			ps, err = g.Projects(ctx)
		}
		return projectsLoadedMsg{projects: ps, err: err}
	}
}

func verifyCmd(g *gate.Gate, id model.ProjectID, pin string) tea.Cmd {
	return func() tea.Msg {
		p, err := g.Verify(context.Background(), id, pin)
		return verifiedMsg{project: p, err: err}
	}
}

func loadCardsCmd(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		_, err := s.Load(context.Background())
		return cardsLoadedMsg{err: err}
	}
}

func moveCmd(s *store.Store, id int64, dest model.Column) tea.Cmd {
	return func() tea.Msg {
		notice, err := board.Drop(context.Background(), s, id, dest)
		return mutationDoneMsg{notice: notice, err: err}
	}
}

func archiveCmd(s *store.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		err := s.Archive(context.Background(), id)
		return mutationDoneMsg{notice: "Card archived", err: err}
	}
}

func restoreCmd(s *store.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		err := s.Restore(context.Background(), id)
		return mutationDoneMsg{notice: "Card restored", err: err, archive: true}
	}
}

func deleteCmd(s *store.Store, id int64, fromArchive bool) tea.Cmd {
	return func() tea.Msg {
		err := s.Delete(context.Background(), id)
		return mutationDoneMsg{notice: "Card deleted", err: err, archive: fromArchive}
	}
}

func getCardCmd(s *store.Store, id int64, edit bool) tea.Cmd {
	return func() tea.Msg {
		c, err := s.Get(context.Background(), id)
		return cardFetchedMsg{id: id, card: c, edit: edit, err: err}
	}
}

func createCmd(s *store.Store, f model.CardFields) tea.Cmd {
	return func() tea.Msg {
		_, err := s.Create(context.Background(), f)
		return formSavedMsg{notice: "Card created", err: err}
	}
}

func updateCmd(s *store.Store, id int64, p model.CardPatch) tea.Cmd {
	return func() tea.Msg {
		_, err := s.Update(context.Background(), id, p)
		return formSavedMsg{notice: "Card updated", err: err}
	}
}

func loadArchivedCmd(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		cards, err := s.Archived(context.Background())
		return archivedLoadedMsg{cards: cards, err: err}
	}
}

func flashCmd(seq int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}
