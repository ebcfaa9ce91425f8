package tui

import (
	"fmt"
	"strings"

	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type projectItem struct {
	project model.Project
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	return "id " + i.project.ID.String()
}
func (i projectItem) FilterValue() string { return strings.TrimSpace(i.project.Name) }

type archiveItem struct {
	card model.Card
}

func (i archiveItem) Title() string {
	return fmt.Sprintf("#%d %s %s", i.card.ID, glyphIcon(i.card.IssueType.Icon(), "["+string(i.card.IssueType)+"]"), i.card.Title)
}

func (i archiveItem) Description() string {
	parts := []string{string(i.card.Priority)}
	if a := strings.TrimSpace(i.card.Assignee); a != "" {
		parts = append(parts, "@"+a)
	}
	if l := dates.RangeLabel(i.card.StartDate, i.card.EndDate); l != "" {
		parts = append(parts, l)
	}
	return strings.Join(parts, " "+glyphSep()+" ")
}

func (i archiveItem) FilterValue() string { return strings.TrimSpace(i.card.Title) }

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// Header and footer are drawn by the app, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// ESC is "back" everywhere, never quit.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.ForceQuit.SetKeys()

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

func projectItems(ps []model.Project) []list.Item {
	items := make([]list.Item, 0, len(ps))
	for _, p := range ps {
		items = append(items, projectItem{project: p})
	}
	return items
}

func archiveItems(cards []model.Card) []list.Item {
	items := make([]list.Item, 0, len(cards))
	for _, c := range cards {
		items = append(items, archiveItem{card: c})
	}
	return items
}
