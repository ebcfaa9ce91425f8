package tui

import (
	"fmt"
	"strings"

	"kanban-cli/internal/board"

	"github.com/charmbracelet/lipgloss"
)

const laneGap = 1

// BoardText renders the three lanes for non-interactive output (no selection, no height cap).
func BoardText(b board.Board, width int) string {
	if width <= 0 {
		width = 120
	}
	return renderBoard(b, board.Selection{Row: -1, Col: -1}, width, 0)
}

// renderBoard draws the lanes side by side. height 0 means unbounded; otherwise each lane
// scrolls so the selected card stays visible.
func renderBoard(b board.Board, sel board.Selection, width, height int) string {
	n := len(b.Columns)
	if n == 0 {
		return ""
	}
	laneW := (width - laneGap*(n-1)) / n
	if laneW < 12 {
		laneW = 12
	}

	panes := make([]string, 0, n*2)
	for ci, col := range b.Columns {
		selRow := -1
		if ci == sel.Col {
			selRow = sel.Row
		}
		pane := renderLane(col, selRow, ci == sel.Col, laneW, height)
		if ci > 0 {
			panes = append(panes, strings.Repeat(" ", laneGap))
		}
		panes = append(panes, pane)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func renderLane(col board.Column, selRow int, focused bool, width, height int) string {
	head := fmt.Sprintf("%s (%d)", col.Label, len(col.Cards))
	headSt := styleHeader().Inherit(columnStyle(col.Column))
	if focused {
		head = glyphCursor() + " " + head
		headSt = headSt.Underline(true)
	}
	header := []string{headSt.Render(head), styleMuted().Render(strings.Repeat(glyphHRule(), width))}

	var blocks []string
	if len(col.Cards) == 0 {
		blocks = append(blocks, styleMuted().Render("(empty)"))
	}
	for i, c := range col.Cards {
		blocks = append(blocks, renderCard(c, i == selRow, width))
	}

	if height > 0 {
		blocks = scrollBlocks(blocks, selRow, height-len(header))
	}
	return normalizePane(strings.Join(append(header, blocks...), "\n"), width, height)
}

// scrollBlocks drops leading blocks until the selected one fits in avail lines.
func scrollBlocks(blocks []string, sel, avail int) []string {
	if sel < 0 || avail <= 0 {
		return blocks
	}
	start := 0
	for start < sel {
		used := 0
		for i := start; i <= sel && i < len(blocks); i++ {
			used += lipgloss.Height(blocks[i])
		}
		if used <= avail {
			break
		}
		start++
	}
	return blocks[start:]
}

func renderCard(c board.CardView, selected bool, width int) string {
	inner := width - 4
	if inner < 4 {
		inner = 4
	}
	icon := glyphIcon(c.Icon, "["+string(c.IssueType)+"]")
	badge := glyphIcon(c.Badge, "!")
	lines := []string{
		fitLine(lipgloss.NewStyle().Bold(true).Render(icon+" "+c.Title), inner),
	}

	meta := []string{badge + " " + string(c.Priority)}
	if c.Assignee != "" {
		meta = append(meta, "@"+c.Assignee)
	}
	if c.GitIssue != "" {
		meta = append(meta, c.GitIssue)
	}
	lines = append(lines, fitLine(styleMuted().Render(strings.Join(meta, " "+glyphSep()+" ")), inner))
	if c.Excerpt != "" {
		for _, ln := range wrapText(c.Excerpt, inner, 2) {
			lines = append(lines, styleMuted().Render(ln))
		}
	}
	if c.DateLabel != "" {
		lines = append(lines, fitLine(urgencyStyle(c.Urgency).Render(c.DateLabel), inner))
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(0, 1).
		Width(width - 2)
	if selected {
		border = border.BorderForeground(colorSelectedBorder).Background(colorSelectedBg).Foreground(colorSelectedFg)
	}
	return border.Render(strings.Join(lines, "\n"))
}

// wrapText word-wraps s to width and keeps at most maxLines, ellipsising the last kept line.
func wrapText(s string, width, maxLines int) []string {
	wrapped := strings.Split(lipgloss.NewStyle().Width(width).Render(s), "\n")
	for i := range wrapped {
		wrapped[i] = strings.TrimRight(wrapped[i], " ")
	}
	if maxLines > 0 && len(wrapped) > maxLines {
		wrapped = wrapped[:maxLines]
		wrapped[maxLines-1] = fitLine(wrapped[maxLines-1]+"…", width)
	}
	return wrapped
}
