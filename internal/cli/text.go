package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"
)

// textResult pairs a value with its --format text rendering. JSON and EDN see only the value.
type textResult struct {
	v    any
	text func() string
}

func (r textResult) MarshalJSON() ([]byte, error) { return json.Marshal(r.v) }

func (r textResult) Text() string { return r.text() }

func cardsText(cards []model.Card) string {
	if len(cards) == 0 {
		return "(no cards)"
	}
	var b strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&b, "#%-5d %-11s %-7s %-8s %s", c.ID, model.NormalizeColumn(string(c.Column)).Label(), c.IssueType, c.Priority, c.Title)
		if l := dates.RangeLabel(c.StartDate, c.EndDate); l != "" {
			fmt.Fprintf(&b, "  (%s)", l)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func projectsText(ps []model.Project) string {
	if len(ps) == 0 {
		return "(no projects)"
	}
	var b strings.Builder
	for _, p := range ps {
		fmt.Fprintf(&b, "%-8s %s\n", p.ID, p.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}
