package tui

import (
	"strings"

	"kanban-cli/internal/calendar"
	"kanban-cli/internal/detail"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	body := m.viewBody()
	switch m.modal {
	case modalGate:
		return overlay(m.width, m.height, m.gateModal.view(m.width))
	case modalForm:
		return overlay(m.width, m.height, m.form.view(m.width))
	case modalConfirm:
		return overlay(m.width, m.height, renderConfirmModal(m.width, m.confirm))
	}
	return strings.Join([]string{m.viewHeader(), body, m.viewFlash(), m.viewFooter()}, "\n")
}

func (m appModel) viewHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("Kanban")
	parts := []string{title, emptyAsDash(m.project.Name), m.view.String()}
	if m.view == viewCalendar {
		parts = append(parts, m.cal.Label())
	}
	if m.loading {
		parts = append(parts, styleMuted().Render("loading…"))
	}
	return fitLine(strings.Join(parts, "  "+glyphSep()+"  "), m.width)
}

func (m appModel) viewBody() string {
	h := m.bodyHeight()
	switch m.view {
	case viewArchive:
		return m.archive.view(m.width, h)
	case viewCalendar:
		g := calendar.Build(m.cal, m.store.Cards(), m.today())
		return normalizePane(renderCalendar(g, m.width, h), m.width, h)
	}

	boardH := h
	if m.filtering || m.filter.Value() != "" {
		boardH--
	}
	mainW := m.width
	var side string
	if m.detailOpen {
		sideW := m.width / 3
		if sideW < 30 {
			sideW = 30
		}
		mainW = m.width - sideW
		side = renderDetail(detail.Detail(m.detailCard, m.today()), sideW, boardH, true)
	}
	var content string
	if len(m.board.Columns) > 0 && m.board.Count() == 0 && !m.loading {
		content = normalizePane(styleMuted().Render("No cards yet. Press n to create one."), mainW, boardH)
	} else {
		content = normalizePane(renderBoard(m.shown, m.sel, mainW, boardH), mainW, boardH)
	}
	if side != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, side)
	}
	if m.filtering || m.filter.Value() != "" {
		content = fitLine(m.filter.View(), m.width) + "\n" + content
	}
	return content
}

func (m appModel) viewFlash() string {
	if m.flash == "" {
		return ""
	}
	st := lipgloss.NewStyle().Foreground(colorSuccess)
	if m.flashErr {
		st = styleError()
	}
	return fitLine(st.Render(m.flash), m.width)
}

func (m appModel) viewFooter() string {
	var help string
	switch {
	case m.filtering:
		help = "type to filter   enter: keep   esc: clear"
	case m.detailOpen:
		help = "e: edit   A: archive   D: delete   esc: close"
	case m.view == viewCalendar:
		help = "h/l: prev/next   m/w/v: month/week/toggle   t: today   tab: board   n: new   q: quit"
	case m.view == viewArchive:
		help = "j/k: move   r: restore   d: delete   esc/a: back   q: quit"
	default:
		help = "hjkl: move   H/L: move card   enter: open   n: new   /: filter   tab: calendar   a: archive   p: project   r: reload   q: quit"
	}
	return fitLine(styleMuted().Render(help), m.width)
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
