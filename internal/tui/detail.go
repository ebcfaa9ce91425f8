package tui

import (
	"strconv"
	"strings"

	"kanban-cli/internal/detail"

	"github.com/charmbracelet/lipgloss"
)

// DetailText renders a card's detail view for non-interactive output.
func DetailText(v detail.View, width int) string {
	if width <= 0 {
		width = 80
	}
	return renderDetail(v, width, 0, false)
}

func renderDetail(v detail.View, width, height int, withHelp bool) string {
	inner := width - 2
	if inner < 10 {
		inner = 10
	}
	icon := glyphIcon(v.Icon, "["+string(v.IssueType)+"]")
	badge := glyphIcon(v.Badge, "!")

	lines := []string{
		lipgloss.NewStyle().Bold(true).Width(inner).Render(icon + " " + v.Title),
		styleMuted().Render("#" + strconv.FormatInt(v.ID, 10) + " " + glyphSep() + " " + v.ColumnLabel),
		"",
	}
	field := func(label, val string, st lipgloss.Style) {
		if strings.TrimSpace(val) == "" {
			return
		}
		lines = append(lines, fitLine(styleMuted().Render(padRight(label, 10))+st.Render(val), inner))
	}
	plain := lipgloss.NewStyle()
	field("Priority", badge+" "+string(v.Priority), plain)
	field("Assignee", v.Assignee, plain)
	field("Label", v.Label, plain)
	field("Issue", v.GitIssue, plain)
	field("Dates", v.DateRange, urgencyStyle(v.Urgency))

	lines = append(lines, "", styleHeader().Render("Description"))
	if v.HasDescription {
		lines = append(lines, renderMarkdown(v.Description, inner))
	} else {
		lines = append(lines, styleMuted().Render(v.Description))
	}

	if withHelp {
		acts := []string{"e: edit"}
		if v.Can(detail.ActionArchive) {
			acts = append(acts, "A: archive")
		}
		acts = append(acts, "D: delete", "esc: close")
		lines = append(lines, "", styleMuted().Width(inner).Render(strings.Join(acts, "   ")))
	}

	body := strings.Join(lines, "\n")
	pane := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorCardBorder).
		PaddingLeft(1).
		Render(body)
	return normalizePane(pane, width, height)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
