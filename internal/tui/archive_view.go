package tui

import (
	"strings"

	"kanban-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

// archiveView lists archived cards. It is refreshed from Store.Archived each time it opens and
// after every restore or delete.
type archiveView struct {
	list    list.Model
	loading bool
	err     string
}

func newArchiveView() archiveView {
	return archiveView{list: newList("Archive", nil)}
}

func (a *archiveView) setCards(cards []model.Card, err error) {
	a.loading = false
	if err != nil {
		a.err = err.Error()
		return
	}
	a.err = ""
	idx := a.list.Index()
	a.list.SetItems(archiveItems(cards))
	if idx >= len(cards) {
		idx = len(cards) - 1
	}
	if idx >= 0 {
		a.list.Select(idx)
	}
}

func (a archiveView) selected() (model.Card, bool) {
	it, ok := a.list.SelectedItem().(archiveItem)
	if !ok {
		return model.Card{}, false
	}
	return it.card, true
}

func (a archiveView) view(width, height int) string {
	var body string
	switch {
	case a.loading:
		body = styleMuted().Render("Loading archive…")
	case a.err != "":
		body = styleError().Render(a.err)
	case len(a.list.Items()) == 0:
		body = styleMuted().Render("No archived cards.")
	default:
		body = a.list.View()
	}
	return normalizePane(strings.TrimRight(body, "\n"), width, height)
}
