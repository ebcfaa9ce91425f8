package tui

import (
	"fmt"
	"strconv"
	"strings"

	"kanban-cli/internal/calendar"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// CalendarText renders a grid for non-interactive output; rows grow to fit every block.
func CalendarText(g calendar.Grid, width int) string {
	if width <= 0 {
		width = 120
	}
	return renderCalendar(g, width, 0)
}

// renderCalendar draws the header, weekday names and one row per week. With height 0 each
// row is as tall as its busiest day.
func renderCalendar(g calendar.Grid, width, height int) string {
	cellW := (width - 6) / 7
	if cellW < 6 {
		cellW = 6
	}
	weeks := g.Weeks()

	var out []string
	out = append(out, lipgloss.PlaceHorizontal(cellW*7+6, lipgloss.Center, styleHeader().Render(g.Label)))

	heads := make([]string, 0, 7)
	for _, h := range g.Headers {
		heads = append(heads, fitLine(styleMuted().Render(h), cellW))
	}
	out = append(out, strings.Join(heads, " "))

	rowH := 0
	if height > 0 && len(weeks) > 0 {
		rowH = (height - len(out) - len(weeks)) / len(weeks)
		if rowH < 2 {
			rowH = 2
		}
	}
	for wi, week := range weeks {
		h := rowH
		if h == 0 {
			h = 2
			for _, d := range week {
				if len(d.Blocks)+1 > h {
					h = len(d.Blocks) + 1
				}
			}
		}
		cells := make([]string, 0, len(week))
		for i, d := range week {
			cells = append(cells, renderDayCell(d, i == 0, cellW, h))
		}
		out = append(out, joinCells(cells, h))
		if wi < len(weeks)-1 {
			out = append(out, styleMuted().Render(strings.Repeat(glyphHRule(), cellW*7+6)))
		}
	}
	return strings.Join(out, "\n")
}

func joinCells(cells []string, h int) string {
	sep := styleMuted().Render(glyphVRule())
	col := strings.TrimSuffix(strings.Repeat(sep+"\n", h), "\n")
	parts := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			parts = append(parts, col)
		}
		parts = append(parts, c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderDayCell(d calendar.Day, rowStart bool, width, height int) string {
	num := strconv.Itoa(d.Date.Day)
	if d.Date.Day == 1 {
		num = d.Date.Month.String()[:3] + " 1"
	}
	var numSt lipgloss.Style
	switch {
	case d.Today:
		numSt = lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent)
	case !d.InMonth:
		numSt = styleMuted()
	default:
		numSt = styleHeader()
	}
	lines := []string{numSt.Render(num)}

	avail := height - 1
	for i, b := range d.Blocks {
		if i == avail-1 && len(d.Blocks) > avail {
			lines = append(lines, styleMuted().Render(fmt.Sprintf("+%d more", len(d.Blocks)-i)))
			break
		}
		if i >= avail {
			break
		}
		lines = append(lines, renderBlock(b, rowStart, width))
	}
	return normalizePane(strings.Join(lines, "\n"), width, height)
}

// renderBlock draws one day's slice of a card bar. The title is shown where the bar begins,
// and again at the start of each week row so wrapped bars stay labelled.
func renderBlock(b calendar.Block, rowStart bool, width int) string {
	lead, fill, tail := glyphBlock(b.Position)
	head := lead
	if b.Position == calendar.PosStart || b.Position == calendar.PosSingle || rowStart {
		head += b.Title
		if fill != "" {
			head += " "
		}
	}
	room := width - xansi.StringWidth(tail)
	if room < 0 {
		room = 0
	}
	if xansi.StringWidth(head) > room {
		head = xansi.Truncate(head, room, "")
	}
	if n := room - xansi.StringWidth(head); fill != "" && n > 0 {
		head += strings.Repeat(fill, n)
	}
	return blockStyle(b.Position, b.Urgency).Render(fitLine(head+tail, width))
}
